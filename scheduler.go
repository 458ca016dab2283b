package rocksq

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/insight-platform/RocksQ/pkg/id"
	logpkg "github.com/insight-platform/RocksQ/pkg/log"
)

// operation is one admitted unit of work. run executes against the store and
// fulfils the operation's Response; its error return feeds logging/metrics.
type operation struct {
	id   id.ID
	name string
	run  func(ctx context.Context) error
}

// scheduler serializes disk-mutating operations for one queue instance.
// Admission blocks while maxInflight operations are pending (backpressure),
// then hands the operation to a single executor goroutine that applies
// operations in admission order. The single executor is the single-writer
// discipline: the engine is I/O-bound, so read parallelism is traded for a
// consistent serialized snapshot per operation.
type scheduler struct {
	queue string
	sem   chan struct{}
	ops   chan operation
	quit  chan struct{}
	done  chan struct{}

	inflight  atomic.Int64
	closed    atomic.Bool
	unhealthy atomic.Bool

	// mu excludes admission during close so no operation can be enqueued
	// after the quit signal.
	mu sync.RWMutex

	logger logpkg.Logger
	obs    Observer
	ids    *id.Generator
}

func newScheduler(queue string, maxInflight int, logger logpkg.Logger, obs Observer) *scheduler {
	s := &scheduler{
		queue:  queue,
		sem:    make(chan struct{}, maxInflight),
		ops:    make(chan operation, maxInflight),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger,
		obs:    obs,
		ids:    id.NewGenerator(),
	}
	go s.loop()
	return s
}

func (s *scheduler) loop() {
	defer close(s.done)
	for {
		select {
		case op := <-s.ops:
			s.exec(op)
		case <-s.quit:
			// admitted operations run to completion before shutdown
			for {
				select {
				case op := <-s.ops:
					s.exec(op)
				default:
					return
				}
			}
		}
	}
}

func (s *scheduler) exec(op operation) {
	start := time.Now()
	err := op.run(context.Background())
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, ErrCorrupted) {
			// store consistency is gone; fail everything from now on
			s.unhealthy.Store(true)
			s.logger.Error("store corrupted, marking queue unhealthy",
				logpkg.Str("op", op.name), logpkg.Str("op_id", op.id.String()), logpkg.Err(err))
		} else {
			s.logger.Warn("operation failed",
				logpkg.Str("op", op.name), logpkg.Str("op_id", op.id.String()), logpkg.Err(err))
		}
	} else {
		s.logger.Debug("operation done",
			logpkg.Str("op", op.name), logpkg.Str("op_id", op.id.String()))
	}

	n := s.inflight.Add(-1)
	s.obs.SetInflight(s.queue, int(n))
	s.obs.OpFinished(s.queue, op.name, elapsed, err)
	<-s.sem
}

// submit admits fn as an operation named name and returns its Response.
// It blocks while the inflight limit is reached; ctx bounds only that wait.
// Admission errors (closed, unhealthy, ctx expiry) surface synchronously;
// execution errors surface only through the Response.
func submit[T any](ctx context.Context, s *scheduler, name string, fn func(ctx context.Context) (T, error)) (*Response[T], error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if s.unhealthy.Load() {
		return nil, ErrUnhealthy
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed.Load() {
		<-s.sem
		return nil, ErrClosed
	}

	r := newResponse[T]()
	op := operation{
		id:   s.ids.Next(),
		name: name,
		run: func(ctx context.Context) error {
			val, err := fn(ctx)
			r.complete(val, err)
			return err
		},
	}

	n := s.inflight.Add(1)
	s.obs.SetInflight(s.queue, int(n))
	s.obs.OpStarted(s.queue, name)
	// never blocks: sem bounds occupancy to the channel capacity
	s.ops <- op
	return r, nil
}

// close stops admission, lets admitted operations finish, and waits for the
// executor to exit. Safe to call more than once.
func (s *scheduler) close() {
	s.mu.Lock()
	already := s.closed.Swap(true)
	s.mu.Unlock()
	if !already {
		close(s.quit)
	}
	<-s.done
}

func (s *scheduler) inflightOps() int {
	return int(s.inflight.Load())
}

func (s *scheduler) healthy() bool {
	return !s.unhealthy.Load() && !s.closed.Load()
}
