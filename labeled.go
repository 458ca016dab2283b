package rocksq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/insight-platform/RocksQ/internal/qlog"
	pebblestore "github.com/insight-platform/RocksQ/internal/storage/pebble"
	logpkg "github.com/insight-platform/RocksQ/pkg/log"
)

// StartPosition determines where a newly created label's cursor begins.
type StartPosition int

const (
	// Oldest starts at the smallest retained sequence number.
	Oldest StartPosition = iota
	// Newest starts one past the current maximum, seeing only future writes.
	Newest
)

// LabeledQueue is a crash-durable MPMC queue. Named consumers ("labels") hold
// independent read cursors over one shared log; records expire after the TTL.
// Reclamation runs opportunistically on writes and reads: expired records are
// truncated from the head and any cursor left behind the new head is
// force-destroyed, which the triggering operation reports via RemovedLabel.
type LabeledQueue struct {
	db    *pebblestore.DB
	log   *qlog.Log
	sched *scheduler

	ttl          time.Duration
	trimBatch    int
	trimThrottle time.Duration
	logger       logpkg.Logger

	closeOnce sync.Once
	closeErr  error
}

// OpenLabeled creates or reopens a labeled queue in the given directory.
// Label cursors are recovered together with the retained range.
func OpenLabeled(path string, ttl time.Duration, maxInflight int, opts ...Option) (*LabeledQueue, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrInvalidConfig)
	}
	if maxInflight <= 0 {
		return nil, fmt.Errorf("%w: max inflight ops must be positive", ErrInvalidConfig)
	}
	cfg := buildConfig(opts)
	logger := cfg.logger.With(logpkg.Component("labeled"), logpkg.Str("path", path))

	db, err := pebblestore.Open(cfg.storeOptions(path))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	l, err := qlog.Open(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open log: %w", err)
	}

	q := &LabeledQueue{
		db:           db,
		log:          l,
		sched:        newScheduler("labeled", maxInflight, logger, cfg.observer),
		ttl:          ttl,
		trimBatch:    cfg.trimBatch,
		trimThrottle: cfg.trimThrottle,
		logger:       logger,
	}
	logger.Info("labeled queue opened",
		logpkg.Uint64("len", l.Len()), logpkg.Uint64("last_seq", l.LastSeq()),
		logpkg.Int("labels", len(l.Labels())))
	return q, nil
}

// reclaim truncates expired head records and reports whether any label's
// cursor was destroyed in the process.
func (q *LabeledQueue) reclaim(ctx context.Context) (bool, error) {
	cutoff := qlog.NowMs() - q.ttl.Milliseconds()
	removed, trimmed, err := q.log.TrimExpired(ctx, cutoff, q.trimBatch, q.trimThrottle)
	if err != nil {
		return len(removed) > 0, err
	}
	if trimmed > 0 {
		q.logger.Debug("reclaimed expired records",
			logpkg.Int("trimmed", trimmed), logpkg.Int("labels_destroyed", len(removed)))
	}
	return len(removed) > 0, nil
}

// Add appends the payloads as one atomic batch with no capacity ceiling other
// than TTL-driven reclamation. The result's RemovedLabel flag tells a
// concurrently reading consumer that its cursor may have vanished.
func (q *LabeledQueue) Add(ctx context.Context, payloads [][]byte) (*Response[AddResult], error) {
	return submit(ctx, q.sched, "add", func(ctx context.Context) (AddResult, error) {
		removed, err := q.reclaim(ctx)
		if err != nil {
			return AddResult{RemovedLabel: removed}, err
		}
		_, bytes, err := q.log.Append(ctx, payloads)
		if err != nil {
			return AddResult{RemovedLabel: removed}, err
		}
		return AddResult{Accepted: len(payloads), Bytes: bytes, RemovedLabel: removed}, nil
	})
}

// Next delivers up to max records to the label, creating its cursor per start
// if the label is new (or was destroyed). The cursor advances by the number
// of records actually returned. The current label set is echoed alongside.
func (q *LabeledQueue) Next(ctx context.Context, label string, start StartPosition, max int) (*Response[NextResult], error) {
	return submit(ctx, q.sched, "next", func(ctx context.Context) (NextResult, error) {
		removed, err := q.reclaim(ctx)
		if err != nil {
			return NextResult{RemovedLabel: removed}, err
		}

		next, ok := q.log.Cursor(label)
		if !ok {
			if start == Newest {
				next = q.log.LastSeq() + 1
			} else {
				next = q.log.FirstSeq()
			}
		}

		items, err := q.log.ReadFrom(next, max)
		if err != nil {
			return NextResult{RemovedLabel: removed}, err
		}
		payloads := make([][]byte, 0, len(items))
		for _, it := range items {
			payloads = append(payloads, it.Payload)
		}
		if len(items) > 0 {
			next = items[len(items)-1].Seq + 1
		}
		// persist even when nothing was read so the label is registered
		if err := q.log.SetCursor(label, next); err != nil {
			return NextResult{RemovedLabel: removed}, err
		}

		return NextResult{Payloads: payloads, Labels: q.log.Labels(), RemovedLabel: removed}, nil
	})
}

// RemoveLabel deletes the label's cursor. Idempotent: removing an absent
// label is not an error; the result reports whether the label existed. A
// later reference to the same name is a brand-new label.
func (q *LabeledQueue) RemoveLabel(ctx context.Context, label string) (*Response[bool], error) {
	return submit(ctx, q.sched, "remove_label", func(context.Context) (bool, error) {
		return q.log.RemoveCursor(label)
	})
}

// Labels reports the currently tracked label names.
func (q *LabeledQueue) Labels(ctx context.Context) (*Response[[]string], error) {
	return submit(ctx, q.sched, "labels", func(context.Context) ([]string, error) {
		return q.log.Labels(), nil
	})
}

// Len reports the number of retained records.
func (q *LabeledQueue) Len(ctx context.Context) (*Response[uint64], error) {
	return submit(ctx, q.sched, "len", func(context.Context) (uint64, error) {
		return q.log.Len(), nil
	})
}

// DiskSize reports on-disk bytes of the queue directory.
func (q *LabeledQueue) DiskSize(ctx context.Context) (*Response[uint64], error) {
	return submit(ctx, q.sched, "disk_size", func(context.Context) (uint64, error) {
		return q.log.DiskSize()
	})
}

// InflightOps returns the number of admitted, not yet completed operations.
func (q *LabeledQueue) InflightOps() int { return q.sched.inflightOps() }

// IsHealthy reports whether the queue is open and its store consistent.
func (q *LabeledQueue) IsHealthy() bool { return q.sched.healthy() }

// Close stops admission, drains admitted operations, and closes the store.
// Idempotent.
func (q *LabeledQueue) Close() error {
	q.closeOnce.Do(func() {
		q.sched.close()
		q.closeErr = q.db.Close()
		q.logger.Info("labeled queue closed")
	})
	return q.closeErr
}
