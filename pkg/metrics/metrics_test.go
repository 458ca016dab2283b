package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCountsOps(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.OpStarted("q1", "push")
	c.OpFinished("q1", "push", 2*time.Millisecond, nil)
	c.OpStarted("q1", "push")
	c.OpFinished("q1", "push", time.Millisecond, errors.New("boom"))
	c.SetInflight("q1", 3)

	if got := testutil.ToFloat64(c.opsStarted.WithLabelValues("q1", "push")); got != 2 {
		t.Fatalf("ops started = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.opsFinished.WithLabelValues("q1", "push", "ok")); got != 1 {
		t.Fatalf("ok outcomes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.opsFinished.WithLabelValues("q1", "push", "error")); got != 1 {
		t.Fatalf("error outcomes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.inflight.WithLabelValues("q1")); got != 3 {
		t.Fatalf("inflight = %v, want 3", got)
	}
}

func TestCollectorStorageCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRead(time.Millisecond, 100)
	c.ObserveCommit(time.Millisecond, 250)
	c.ObserveCommit(time.Millisecond, 50)

	if got := testutil.ToFloat64(c.readBytes); got != 100 {
		t.Fatalf("read bytes = %v, want 100", got)
	}
	if got := testutil.ToFloat64(c.commitBytes); got != 300 {
		t.Fatalf("commit bytes = %v, want 300", got)
	}
}

func TestCollectorRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("second registration should panic")
		}
	}()
	NewCollector(reg)
}
