package qlog

import (
	"bytes"
	"testing"
)

func TestEntryKeysSortBySequence(t *testing.T) {
	prev := KeyEntry(0)
	for _, seq := range []uint64{1, 2, 255, 256, 1 << 32, ^uint64(0)} {
		k := KeyEntry(seq)
		if bytes.Compare(prev, k) >= 0 {
			t.Fatalf("keys not strictly increasing at seq %d", seq)
		}
		if SeqFromEntryKey(k) != seq {
			t.Fatalf("round trip failed for seq %d", seq)
		}
		prev = k
	}
}

func TestCursorKeyRoundTrip(t *testing.T) {
	k := KeyCursor("worker-1")
	if LabelFromCursorKey(k) != "worker-1" {
		t.Fatalf("bad label round trip: %q", LabelFromCursorKey(k))
	}
	low, high := cursorBounds()
	if !(bytes.Compare(low, k) <= 0 && bytes.Compare(k, high) < 0) {
		t.Fatalf("cursor key outside bounds")
	}
}
