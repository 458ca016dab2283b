package qlog

import (
	"context"
	"fmt"
	"time"
)

// TrimExpired deletes head entries whose timestamp is older than cutoffMs and
// force-destroys any cursor left behind the new head. Deletes are committed in
// batches of up to batchLimit keys with an optional throttle between commits;
// each batch also rewrites the meta cell and removes the destroyed cursors, so
// every commit leaves a consistent store. Returns the destroyed labels and the
// number of deleted entries.
func (l *Log) TrimExpired(ctx context.Context, cutoffMs int64, batchLimit int, throttle time.Duration) ([]string, int, error) {
	if batchLimit <= 0 {
		batchLimit = 1024
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var removed []string
	trimmed := 0
	for {
		n, labels, err := l.trimBatchLocked(ctx, cutoffMs, batchLimit)
		if err != nil {
			return removed, trimmed, err
		}
		trimmed += n
		removed = append(removed, labels...)
		if n < batchLimit {
			return removed, trimmed, nil
		}
		if throttle > 0 {
			time.Sleep(throttle)
		}
	}
}

// trimBatchLocked deletes at most limit expired head entries in one commit.
func (l *Log) trimBatchLocked(ctx context.Context, cutoffMs int64, limit int) (int, []string, error) {
	if l.meta.first > l.meta.last {
		return 0, nil, nil
	}
	low, high := entryBounds()
	iter, err := l.db.NewIter(iterBounds(low, high))
	if err != nil {
		return 0, nil, err
	}
	defer iter.Close()

	b := l.db.NewBatch()
	defer b.Close()

	next := l.meta
	deleted := 0
	for ok := iter.SeekGE(KeyEntry(next.first)); ok && deleted < limit; ok = iter.Next() {
		seq := SeqFromEntryKey(iter.Key())
		tsMs, err := entryTs(iter.Value())
		if err != nil {
			return 0, nil, fmt.Errorf("entry %d: %w", seq, err)
		}
		if tsMs >= cutoffMs {
			break
		}
		if err := b.Delete(iter.Key(), nil); err != nil {
			return 0, nil, err
		}
		next.payloadBytes -= uint64(entryPayloadLen(iter.Value()))
		next.first = seq + 1
		deleted++
	}
	if deleted == 0 {
		return 0, nil, nil
	}

	// Cursors strictly behind the new head lost data they had not read yet.
	// Destroy them; a later reference to the same label starts fresh.
	var destroyed []string
	for label, cur := range l.cursors {
		if cur < next.first {
			if err := b.Delete(KeyCursor(label), nil); err != nil {
				return 0, nil, err
			}
			destroyed = append(destroyed, label)
		}
	}

	if err := b.Set(KeyMeta(), encodeMeta(next), nil); err != nil {
		return 0, nil, err
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return 0, nil, err
	}

	l.meta = next
	for _, label := range destroyed {
		delete(l.cursors, label)
	}
	return deleted, destroyed, nil
}
