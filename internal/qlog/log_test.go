package qlog

import (
	"context"
	"testing"

	pebblestore "github.com/insight-platform/RocksQ/internal/storage/pebble"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{Dir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	l, err := Open(db)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	return l
}

func TestAppendAssignsSequential(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	first, bytes, err := l.Append(ctx, [][]byte{[]byte("p1"), []byte("p2")})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first != 1 {
		t.Fatalf("want first seq 1, got %d", first)
	}
	if bytes != 4 {
		t.Fatalf("want 4 payload bytes, got %d", bytes)
	}
	if l.Len() != 2 || l.FirstSeq() != 1 || l.LastSeq() != 2 {
		t.Fatalf("unexpected state: len=%d first=%d last=%d", l.Len(), l.FirstSeq(), l.LastSeq())
	}
}

func TestReadFromReturnsInOrder(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	if _, _, err := l.Append(ctx, [][]byte{[]byte("a"), []byte("b"), []byte("c")}); err != nil {
		t.Fatalf("append: %v", err)
	}

	items, err := l.ReadFrom(2, 10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}
	if string(items[0].Payload) != "b" || string(items[1].Payload) != "c" {
		t.Fatalf("unexpected payloads: %q %q", items[0].Payload, items[1].Payload)
	}
	if items[0].Seq != 2 || items[1].Seq != 3 {
		t.Fatalf("unexpected seqs: %d %d", items[0].Seq, items[1].Seq)
	}
}

func TestPopHeadIsFIFO(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	if _, _, err := l.Append(ctx, [][]byte{[]byte("a"), []byte("b"), []byte("c")}); err != nil {
		t.Fatalf("append: %v", err)
	}

	popped, err := l.PopHead(ctx, 2)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if len(popped) != 2 || string(popped[0]) != "a" || string(popped[1]) != "b" {
		t.Fatalf("unexpected pop result: %q", popped)
	}
	if l.Len() != 1 {
		t.Fatalf("want len 1 after pop, got %d", l.Len())
	}
	if l.PayloadBytes() != 1 {
		t.Fatalf("want 1 payload byte after pop, got %d", l.PayloadBytes())
	}

	// popping more than available drains the rest without error
	popped, err = l.PopHead(ctx, 10)
	if err != nil {
		t.Fatalf("pop rest: %v", err)
	}
	if len(popped) != 1 || string(popped[0]) != "c" {
		t.Fatalf("unexpected drain result: %q", popped)
	}

	popped, err = l.PopHead(ctx, 1)
	if err != nil {
		t.Fatalf("pop empty: %v", err)
	}
	if len(popped) != 0 {
		t.Fatalf("want no records from empty log, got %d", len(popped))
	}
}

func TestSequencesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := pebblestore.Open(pebblestore.Options{Dir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	l, err := Open(db)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, _, err := l.Append(ctx, [][]byte{[]byte("x"), []byte("y")}); err != nil {
		t.Fatalf("append: %v", err)
	}
	// drain completely; lastSeq must still not be reused after reopen
	if _, err := l.PopHead(ctx, 10); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db2, err := pebblestore.Open(pebblestore.Options{Dir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen pebble: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })
	l2, err := Open(db2)
	if err != nil {
		t.Fatalf("reopen log: %v", err)
	}
	if l2.Len() != 0 || l2.LastSeq() != 2 {
		t.Fatalf("unexpected recovered state: len=%d last=%d", l2.Len(), l2.LastSeq())
	}
	first, _, err := l2.Append(ctx, [][]byte{[]byte("z")})
	if err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	if first != 3 {
		t.Fatalf("sequence reuse after reopen: got %d want 3", first)
	}
}

func TestOpenRejectsCorruptedMeta(t *testing.T) {
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{Dir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// a truncated meta cell must refuse to open rather than silently lose data
	if err := db.Set(KeyMeta(), []byte("bogus")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := Open(db); err == nil {
		t.Fatalf("expected open to fail on corrupted meta")
	}
}
