// Package rocksq is an embeddable, crash-durable queue engine.
//
// # Overview
//
// Two engine types share one on-disk substrate (a Pebble directory per queue
// instance):
//
//   - BoundedQueue: a single-stream FIFO queue with a hard element ceiling.
//     Pushes that would exceed the ceiling fail atomically.
//   - LabeledQueue: a multi-producer multi-consumer queue where independent
//     named consumers ("labels") each hold their own read cursor and records
//     expire after a TTL. A cursor left behind the reclamation horizon is
//     force-destroyed and the destruction is signalled to callers.
//
// Every operation, including metrics queries, flows through a per-instance
// scheduler that bounds the number of inflight operations (admission blocks
// under backpressure), executes operations in admission order against a
// single log writer, and fulfils a Response handle per operation:
//
//	q, err := rocksq.OpenBounded(dir, 1000, 64)
//	if err != nil { /* handle */ }
//	defer q.Close()
//
//	resp, err := q.Push(ctx, [][]byte{payload})
//	if err != nil { /* admission error: closed/unhealthy/ctx */ }
//	res, err := resp.Get(ctx) // or poll with IsReady/TryGet
//
// Durability: appends commit as atomic batches; sequence numbers are never
// reused across restarts; reopening a directory recovers the retained range,
// the last sequence, and (for LabeledQueue) all label cursors. Corrupted
// metadata refuses to open rather than silently losing data.
package rocksq
