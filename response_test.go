package rocksq

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResponseLifecycle(t *testing.T) {
	r := newResponse[int]()

	if r.IsReady() {
		t.Fatal("fresh response should not be ready")
	}
	if _, ok, _ := r.TryGet(); ok {
		t.Fatal("TryGet on pending response should report not ready")
	}

	r.complete(42, nil)

	if !r.IsReady() {
		t.Fatal("completed response should be ready")
	}
	v, ok, err := r.TryGet()
	if !ok || err != nil || v != 42 {
		t.Fatalf("TryGet = (%d, %v, %v), want (42, true, nil)", v, ok, err)
	}
	// observing the result is repeatable
	if v, err := r.Get(context.Background()); err != nil || v != 42 {
		t.Fatalf("Get = (%d, %v), want (42, nil)", v, err)
	}
}

func TestResponseCarriesError(t *testing.T) {
	r := newResponse[int]()
	boom := errors.New("boom")
	r.complete(0, boom)

	if _, err := r.Get(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, ok, err := r.TryGet(); !ok || !errors.Is(err, boom) {
		t.Fatalf("TryGet = (%v, %v), want (true, boom)", ok, err)
	}
}

func TestResponseGetHonorsContext(t *testing.T) {
	r := newResponse[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := r.Get(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}

	// abandoning a wait does not lose the eventual result
	r.complete(7, nil)
	if v, err := r.Get(context.Background()); err != nil || v != 7 {
		t.Fatalf("Get after abandoned wait = (%d, %v), want (7, nil)", v, err)
	}
}
