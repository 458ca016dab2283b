package rocksq

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDestroyRemovesQueueDir(t *testing.T) {
	dir := t.TempDir()
	q, err := OpenBounded(dir, 10, 4)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := Destroy(dir); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("dir still present: %v", err)
	}
}

func TestDestroyRefusesForeignDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := Destroy(dir); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Fatalf("foreign file lost: %v", err)
	}
}

func TestDestroyMissingPathIsNoop(t *testing.T) {
	if err := Destroy(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Fatalf("destroy missing: %v", err)
	}
}
