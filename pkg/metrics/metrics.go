// Package metrics provides a Prometheus-backed observer for queue instances.
//
// A single Collector can serve any number of queues; metrics are labelled by
// queue name and operation. Wire it in with rocksq.WithObserver and
// rocksq.WithStorageObserver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements the queue engine's Observer and StorageObserver
// interfaces on top of a Prometheus registerer.
type Collector struct {
	opsStarted  *prometheus.CounterVec
	opsFinished *prometheus.CounterVec
	opDuration  *prometheus.HistogramVec
	inflight    *prometheus.GaugeVec

	readDuration   prometheus.Histogram
	readBytes      prometheus.Counter
	commitDuration prometheus.Histogram
	commitBytes    prometheus.Counter
}

// NewCollector builds a Collector and registers its metrics with reg.
// Registration panics on collision, same as promauto; use a dedicated
// registry per process.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		opsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rocksq",
			Name:      "ops_started_total",
			Help:      "Operations admitted to the scheduler.",
		}, []string{"queue", "op"}),
		opsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rocksq",
			Name:      "ops_finished_total",
			Help:      "Operations completed, by outcome.",
		}, []string{"queue", "op", "outcome"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rocksq",
			Name:      "op_duration_seconds",
			Help:      "Operation execution time, admission to completion.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"queue", "op"}),
		inflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rocksq",
			Name:      "inflight_ops",
			Help:      "Operations admitted but not yet completed.",
		}, []string{"queue"}),
		readDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rocksq",
			Subsystem: "storage",
			Name:      "read_duration_seconds",
			Help:      "Storage read latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 16),
		}),
		readBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rocksq",
			Subsystem: "storage",
			Name:      "read_bytes_total",
			Help:      "Bytes returned by storage reads.",
		}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rocksq",
			Subsystem: "storage",
			Name:      "commit_duration_seconds",
			Help:      "Batch commit latency, including WAL sync.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 16),
		}),
		commitBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rocksq",
			Subsystem: "storage",
			Name:      "commit_bytes_total",
			Help:      "Bytes written by batch commits.",
		}),
	}
	reg.MustRegister(
		c.opsStarted, c.opsFinished, c.opDuration, c.inflight,
		c.readDuration, c.readBytes, c.commitDuration, c.commitBytes,
	)
	return c
}

// OpStarted implements rocksq.Observer.
func (c *Collector) OpStarted(queue, op string) {
	c.opsStarted.WithLabelValues(queue, op).Inc()
}

// OpFinished implements rocksq.Observer.
func (c *Collector) OpFinished(queue, op string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.opsFinished.WithLabelValues(queue, op, outcome).Inc()
	c.opDuration.WithLabelValues(queue, op).Observe(elapsed.Seconds())
}

// SetInflight implements rocksq.Observer.
func (c *Collector) SetInflight(queue string, n int) {
	c.inflight.WithLabelValues(queue).Set(float64(n))
}

// ObserveRead implements rocksq.StorageObserver.
func (c *Collector) ObserveRead(elapsed time.Duration, bytes int) {
	c.readDuration.Observe(elapsed.Seconds())
	c.readBytes.Add(float64(bytes))
}

// ObserveCommit implements rocksq.StorageObserver.
func (c *Collector) ObserveCommit(elapsed time.Duration, bytes int) {
	c.commitDuration.Observe(elapsed.Seconds())
	c.commitBytes.Add(float64(bytes))
}
