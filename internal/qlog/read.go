package qlog

import (
	"fmt"

	"github.com/cockroachdb/pebble"
)

// Item is one decoded record.
type Item struct {
	Seq     uint64
	TsMs    int64
	Payload []byte
}

func iterBounds(low, high []byte) *pebble.IterOptions {
	return &pebble.IterOptions{LowerBound: low, UpperBound: high}
}

// ReadFrom returns up to max records starting at seq (inclusive), in order.
// Entries deleted between seq and the head are skipped over.
func (l *Log) ReadFrom(seq uint64, max int) ([]Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readLocked(seq, max)
}

func (l *Log) readLocked(seq uint64, max int) ([]Item, error) {
	if max <= 0 {
		return nil, nil
	}
	low, high := entryBounds()
	iter, err := l.db.NewIter(iterBounds(low, high))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	items := make([]Item, 0, max)
	for ok := iter.SeekGE(KeyEntry(seq)); ok && len(items) < max; ok = iter.Next() {
		s := SeqFromEntryKey(iter.Key())
		tsMs, payload, err := DecodeEntry(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", s, err)
		}
		items = append(items, Item{Seq: s, TsMs: tsMs, Payload: payload})
	}
	return items, nil
}
