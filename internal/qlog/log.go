package qlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pebblestore "github.com/insight-platform/RocksQ/internal/storage/pebble"
)

// Log provides append, positional read, head truncation, and cursor state for
// a single queue directory.
type Log struct {
	db *pebblestore.DB

	mu      sync.Mutex
	meta    meta
	cursors map[string]uint64
}

// NowMs is the wall clock used for entry timestamps. Overridable in tests.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Open loads (or initializes) the meta cell and the cursor set.
// A fresh store starts empty with firstSeq=1, lastSeq=0.
func Open(db *pebblestore.DB) (*Log, error) {
	l := &Log{db: db, cursors: map[string]uint64{}}

	raw, err := db.Get(KeyMeta())
	switch {
	case err == nil:
		m, err := decodeMeta(raw)
		if err != nil {
			return nil, fmt.Errorf("recover meta: %w", err)
		}
		l.meta = m
	case errors.Is(err, pebblestore.ErrNotFound):
		l.meta = meta{first: 1, last: 0}
	default:
		return nil, fmt.Errorf("recover meta: %w", err)
	}

	low, high := cursorBounds()
	iter, err := db.NewIter(iterBounds(low, high))
	if err != nil {
		return nil, fmt.Errorf("open cursor iter: %w", err)
	}
	defer iter.Close()
	for ok := iter.First(); ok; ok = iter.Next() {
		label := LabelFromCursorKey(iter.Key())
		next, err := decodeCursor(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("recover cursor %q: %w", label, err)
		}
		l.cursors[label] = next
	}
	return l, nil
}

// Len returns the number of retained records.
func (l *Log) Len() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.meta.first > l.meta.last {
		return 0
	}
	return l.meta.last - l.meta.first + 1
}

// PayloadBytes returns the cumulative payload size of retained records.
func (l *Log) PayloadBytes() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meta.payloadBytes
}

// FirstSeq returns the smallest retained sequence number.
func (l *Log) FirstSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meta.first
}

// LastSeq returns the last assigned sequence number (0 before any append).
func (l *Log) LastSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meta.last
}

// DiskSize reports on-disk bytes of the whole store directory.
func (l *Log) DiskSize() (uint64, error) {
	return l.db.DiskSize()
}

// Append writes all payloads and the updated meta cell as one atomic batch.
// It returns the first assigned sequence number and the payload bytes written.
// On failure the store state is unchanged.
func (l *Log) Append(ctx context.Context, payloads [][]byte) (uint64, uint64, error) {
	if len(payloads) == 0 {
		return 0, 0, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.db.NewBatch()
	defer b.Close()

	next := l.meta
	tsMs := NowMs()
	var bytes uint64
	firstSeq := next.last + 1
	for _, p := range payloads {
		next.last++
		if err := b.Set(KeyEntry(next.last), EncodeEntry(tsMs, p), nil); err != nil {
			return 0, 0, err
		}
		bytes += uint64(len(p))
	}
	next.payloadBytes += bytes
	if err := b.Set(KeyMeta(), encodeMeta(next), nil); err != nil {
		return 0, 0, err
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return 0, 0, err
	}
	l.meta = next
	return firstSeq, bytes, nil
}

// PopHead removes and returns up to max records from the head, oldest first.
// The deletes and the meta rewrite commit as one batch. Popping an empty log
// returns no records and no error.
func (l *Log) PopHead(ctx context.Context, max int) ([][]byte, error) {
	if max <= 0 {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.readLocked(l.meta.first, max)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	b := l.db.NewBatch()
	defer b.Close()

	next := l.meta
	payloads := make([][]byte, 0, len(items))
	for _, it := range items {
		if err := b.Delete(KeyEntry(it.Seq), nil); err != nil {
			return nil, err
		}
		next.payloadBytes -= uint64(len(it.Payload))
		payloads = append(payloads, it.Payload)
	}
	next.first = items[len(items)-1].Seq + 1
	if err := b.Set(KeyMeta(), encodeMeta(next), nil); err != nil {
		return nil, err
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}
	l.meta = next
	return payloads, nil
}
