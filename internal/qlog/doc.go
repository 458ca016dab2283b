// Package qlog implements the durable log store shared by both queue engines.
//
// # Overview
//
// One log lives in one Pebble directory. Keys are lexicographically ordered for
// efficient head scans:
//   - q/m            (meta cell: firstSeq, lastSeq, payload bytes, crc32c)
//   - q/e/{seq_be8}  (entries: tsMs | payload | crc32c)
//   - q/c/{label}    (label cursors: next sequence to read)
//
// Sequence numbers start at 1, grow monotonically, and are never reused, even
// across restarts: the meta cell persists the last assigned sequence and is
// rewritten in the same atomic batch as every append. Head-only truncation
// keeps the retained range contiguous, so the logical length is always
// lastSeq - firstSeq + 1 and the empty state is firstSeq == lastSeq+1.
//
// API surface (internal)
//
//	l, _ := qlog.Open(db)
//	first, bytes, _ := l.Append(ctx, [][]byte{p1, p2}) // atomic batch
//	items, _ := l.ReadFrom(first, 100)                 // positional read
//	popped, _ := l.PopHead(ctx, 10)                    // read+delete head
//	removed, n, _ := l.TrimExpired(ctx, cutoffMs, 1024, 0)
//
// Label cursors are mirrored in memory (loaded at Open) so Labels and cursor
// lookups never scan the store. TrimExpired force-destroys any cursor left
// behind the new head and reports the destroyed labels, trading consumer
// continuity for bounded storage growth.
//
// The write path assumes a single writer per Log instance; the operation
// scheduler above enforces that discipline.
package qlog
