package rocksq

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Destroy removes the on-disk state of a queue that is not currently open.
// It refuses to remove a directory that does not look like a queue store, so
// a mistyped path cannot wipe unrelated data.
func Destroy(path string) error {
	if err := validatePath(path); err != nil {
		return err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("destroy %s: %w", path, err)
	}
	if !looksLikeStore(entries) {
		return fmt.Errorf("destroy %s: %w: not a queue store", path, ErrInvalidConfig)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("destroy %s: %w", path, err)
	}
	return nil
}

// looksLikeStore reports whether the directory listing carries the Pebble
// manifest that every queue store has after Open.
func looksLikeStore(entries []os.DirEntry) bool {
	for _, e := range entries {
		name := filepath.Base(e.Name())
		if strings.HasPrefix(name, "MANIFEST-") || name == "CURRENT" {
			return true
		}
	}
	return false
}
