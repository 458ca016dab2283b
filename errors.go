package rocksq

import (
	"errors"

	"github.com/insight-platform/RocksQ/internal/qlog"
)

var (
	// ErrCapacityExceeded reports a bounded push that would exceed the element
	// ceiling. The push fails atomically; the queue state is unchanged.
	ErrCapacityExceeded = errors.New("rocksq: queue capacity exceeded")

	// ErrInvalidConfig reports bad constructor parameters. Surfaced
	// synchronously at open time, never through a Response.
	ErrInvalidConfig = errors.New("rocksq: invalid configuration")

	// ErrClosed reports an operation submitted after Close.
	ErrClosed = errors.New("rocksq: queue is closed")

	// ErrUnhealthy reports an engine that hit a consistency-violating storage
	// error. All submissions fail fast once the engine is unhealthy.
	ErrUnhealthy = errors.New("rocksq: queue is unhealthy")

	// ErrNotFound is reserved for internal cursor invariant violations. Label
	// operations on absent labels are no-ops and never return it.
	ErrNotFound = errors.New("rocksq: not found")

	// ErrCorrupted reports unreadable persisted state. Fatal at open time.
	ErrCorrupted = qlog.ErrCorrupted
)
