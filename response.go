package rocksq

import (
	"context"
)

// Response is a single-assignment result cell for one scheduled operation.
// It is created at admission, fulfilled exactly once by the executor, and may
// be observed any number of times afterwards. An abandoned Response does not
// leak the inflight slot: the operation still runs to completion.
type Response[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newResponse[T any]() *Response[T] {
	return &Response[T]{done: make(chan struct{})}
}

// complete fulfils the cell. Must be called exactly once; the channel close
// publishes val/err to observers.
func (r *Response[T]) complete(val T, err error) {
	r.val = val
	r.err = err
	close(r.done)
}

// IsReady reports whether the operation has completed. Never blocks.
func (r *Response[T]) IsReady() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// TryGet returns the result if the operation has completed. The second return
// is false while the operation is still pending. Never blocks.
func (r *Response[T]) TryGet() (T, bool, error) {
	select {
	case <-r.done:
		return r.val, true, r.err
	default:
		var zero T
		return zero, false, nil
	}
}

// Get blocks until the operation completes or ctx is done. Abandoning the
// wait does not cancel the operation; a later Get or TryGet still observes
// the eventual result.
func (r *Response[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// PushResult reports an accepted bounded push.
type PushResult struct {
	// Accepted is the number of records written.
	Accepted int
	// Bytes is the payload volume written.
	Bytes uint64
}

// PopResult carries records removed from the head of a bounded queue.
type PopResult struct {
	Payloads [][]byte
}

// AddResult reports an accepted labeled write.
type AddResult struct {
	Accepted int
	Bytes    uint64
	// RemovedLabel is true when the reclamation pass run by this operation
	// force-destroyed at least one label's cursor.
	RemovedLabel bool
}

// NextResult carries records delivered to a label, alongside the current
// label set for observability.
type NextResult struct {
	Payloads [][]byte
	Labels   []string
	// RemovedLabel is true when the reclamation pass run by this operation
	// force-destroyed at least one label's cursor, possibly including the
	// requesting one (which is then re-created per its start position).
	RemovedLabel bool
}
