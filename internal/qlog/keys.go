package qlog

import (
	"encoding/binary"
)

// Keyspace helpers. Layout (byte-wise, lexicographically sortable):
// - q/m            meta cell
// - q/e/{seq_be8}  entries
// - q/c/{label}    cursors

var (
	metaKey      = []byte("q/m")
	entryPrefix  = []byte("q/e/")
	cursorPrefix = []byte("q/c/")
)

// KeyMeta returns the meta cell key.
func KeyMeta() []byte { return metaKey }

// KeyEntry builds the entry key with a big-endian sequence for proper ordering.
func KeyEntry(seq uint64) []byte {
	k := make([]byte, 0, len(entryPrefix)+8)
	k = append(k, entryPrefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return append(k, b[:]...)
}

// KeyCursor builds the durable cursor key for a label.
func KeyCursor(label string) []byte {
	k := make([]byte, 0, len(cursorPrefix)+len(label))
	k = append(k, cursorPrefix...)
	return append(k, label...)
}

// SeqFromEntryKey extracts the sequence number from an entry key.
func SeqFromEntryKey(key []byte) uint64 {
	if len(key) < len(entryPrefix)+8 {
		return 0
	}
	return binary.BigEndian.Uint64(key[len(key)-8:])
}

// LabelFromCursorKey extracts the label from a cursor key.
func LabelFromCursorKey(key []byte) string {
	if len(key) <= len(cursorPrefix) {
		return ""
	}
	return string(key[len(cursorPrefix):])
}

// entryBounds returns the [low, high) iterator bounds covering all entries.
func entryBounds() (low, high []byte) {
	low = KeyEntry(0)
	high = append(KeyEntry(^uint64(0)), 0x00)
	return low, high
}

// cursorBounds returns the [low, high) iterator bounds covering all cursors.
// The upper bound is the prefix with its last byte incremented, which is
// strictly greater than any "q/c/..." key regardless of label bytes.
func cursorBounds() (low, high []byte) {
	low = append([]byte(nil), cursorPrefix...)
	high = append([]byte(nil), cursorPrefix...)
	high[len(high)-1]++
	return low, high
}
