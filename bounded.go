package rocksq

import (
	"context"
	"fmt"
	"sync"

	"github.com/insight-platform/RocksQ/internal/qlog"
	pebblestore "github.com/insight-platform/RocksQ/internal/storage/pebble"
	logpkg "github.com/insight-platform/RocksQ/pkg/log"
)

// BoundedQueue is a crash-durable, single-stream FIFO queue with a hard
// element-count ceiling. All operations are scheduled asynchronously and
// observed through Response handles; see the package documentation.
type BoundedQueue struct {
	db    *pebblestore.DB
	log   *qlog.Log
	sched *scheduler

	maxElements uint64
	logger      logpkg.Logger

	closeOnce sync.Once
	closeErr  error
}

// OpenBounded creates or reopens a bounded queue in the given directory.
// Recovery restores the retained range and the last assigned sequence number;
// corrupted metadata refuses to open. Configuration errors surface here,
// never through a Response.
func OpenBounded(path string, maxElements uint64, maxInflight int, opts ...Option) (*BoundedQueue, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	if maxElements == 0 {
		return nil, fmt.Errorf("%w: max elements must be positive", ErrInvalidConfig)
	}
	if maxInflight <= 0 {
		return nil, fmt.Errorf("%w: max inflight ops must be positive", ErrInvalidConfig)
	}
	cfg := buildConfig(opts)
	logger := cfg.logger.With(logpkg.Component("bounded"), logpkg.Str("path", path))

	db, err := pebblestore.Open(cfg.storeOptions(path))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	l, err := qlog.Open(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open log: %w", err)
	}

	q := &BoundedQueue{
		db:          db,
		log:         l,
		sched:       newScheduler("bounded", maxInflight, logger, cfg.observer),
		maxElements: maxElements,
		logger:      logger,
	}
	logger.Info("bounded queue opened",
		logpkg.Uint64("len", l.Len()), logpkg.Uint64("last_seq", l.LastSeq()),
		logpkg.Uint64("max_elements", maxElements))
	return q, nil
}

// Push appends the payloads as one atomic batch. A push that would exceed the
// capacity fails with ErrCapacityExceeded and leaves the queue unchanged;
// partial admission is never performed. ctx bounds only the admission wait;
// call Get on the Response to block until completion.
func (q *BoundedQueue) Push(ctx context.Context, payloads [][]byte) (*Response[PushResult], error) {
	return submit(ctx, q.sched, "push", func(ctx context.Context) (PushResult, error) {
		n := uint64(len(payloads))
		if q.log.Len()+n > q.maxElements {
			return PushResult{}, ErrCapacityExceeded
		}
		_, bytes, err := q.log.Append(ctx, payloads)
		if err != nil {
			return PushResult{}, err
		}
		return PushResult{Accepted: len(payloads), Bytes: bytes}, nil
	})
}

// Pop removes up to max records from the head, oldest first. Popping an empty
// queue yields zero records, not an error.
func (q *BoundedQueue) Pop(ctx context.Context, max int) (*Response[PopResult], error) {
	return submit(ctx, q.sched, "pop", func(ctx context.Context) (PopResult, error) {
		payloads, err := q.log.PopHead(ctx, max)
		if err != nil {
			return PopResult{}, err
		}
		return PopResult{Payloads: payloads}, nil
	})
}

// Len reports the number of retained records, observed as a serialized
// operation so it cannot race a concurrent writer.
func (q *BoundedQueue) Len(ctx context.Context) (*Response[uint64], error) {
	return submit(ctx, q.sched, "len", func(context.Context) (uint64, error) {
		return q.log.Len(), nil
	})
}

// PayloadSize reports the cumulative payload bytes of retained records.
func (q *BoundedQueue) PayloadSize(ctx context.Context) (*Response[uint64], error) {
	return submit(ctx, q.sched, "payload_size", func(context.Context) (uint64, error) {
		return q.log.PayloadBytes(), nil
	})
}

// DiskSize reports on-disk bytes of the queue directory. This includes
// storage overhead and can exceed PayloadSize.
func (q *BoundedQueue) DiskSize(ctx context.Context) (*Response[uint64], error) {
	return submit(ctx, q.sched, "disk_size", func(context.Context) (uint64, error) {
		return q.log.DiskSize()
	})
}

// InflightOps returns the number of admitted, not yet completed operations.
func (q *BoundedQueue) InflightOps() int { return q.sched.inflightOps() }

// IsHealthy reports whether the queue is open and its store consistent.
func (q *BoundedQueue) IsHealthy() bool { return q.sched.healthy() }

// Close stops admission, drains admitted operations, and closes the store.
// Idempotent.
func (q *BoundedQueue) Close() error {
	q.closeOnce.Do(func() {
		q.sched.close()
		q.closeErr = q.db.Close()
		q.logger.Info("bounded queue closed")
	})
	return q.closeErr
}
