package qlog

import (
	"sort"
)

// Cursor returns the persisted next-to-read sequence for a label.
func (l *Log) Cursor(label string) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, ok := l.cursors[label]
	return next, ok
}

// SetCursor stores the next-to-read sequence for a label. A cursor never
// regresses: a lower value than the stored one is ignored.
func (l *Log) SetCursor(label string, next uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, ok := l.cursors[label]; ok && next <= prev {
		return nil
	}
	if err := l.db.Set(KeyCursor(label), encodeCursor(next)); err != nil {
		return err
	}
	l.cursors[label] = next
	return nil
}

// RemoveCursor deletes a label's cursor. Idempotent; reports whether the
// label existed.
func (l *Log) RemoveCursor(label string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cursors[label]; !ok {
		return false, nil
	}
	if err := l.db.Delete(KeyCursor(label)); err != nil {
		return false, err
	}
	delete(l.cursors, label)
	return true, nil
}

// Labels returns the tracked label names, sorted for deterministic output.
func (l *Log) Labels() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.cursors))
	for label := range l.cursors {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
