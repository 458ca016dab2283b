package rocksq

import (
	"fmt"
	"os"
	"strconv"
	"time"

	pebblestore "github.com/insight-platform/RocksQ/internal/storage/pebble"
	logpkg "github.com/insight-platform/RocksQ/pkg/log"
)

// FsyncMode selects when committed batches force a WAL sync.
type FsyncMode int

const (
	// FsyncAlways syncs the WAL on every committed operation. Default.
	FsyncAlways FsyncMode = iota
	// FsyncInterval lets the store coalesce syncs within a small window.
	FsyncInterval
	// FsyncNever leaves syncing to the storage engine's own policies.
	FsyncNever
)

// Observer receives scheduler events. Implementations must be safe for
// concurrent use; pkg/metrics provides a Prometheus-backed one.
type Observer interface {
	OpStarted(queue, op string)
	OpFinished(queue, op string, elapsed time.Duration, err error)
	SetInflight(queue string, n int)
}

type noopObserver struct{}

func (noopObserver) OpStarted(string, string)                        {}
func (noopObserver) OpFinished(string, string, time.Duration, error) {}
func (noopObserver) SetInflight(string, int)                         {}

// StorageObserver receives storage-level read/commit observations.
type StorageObserver interface {
	ObserveRead(elapsed time.Duration, bytes int)
	ObserveCommit(elapsed time.Duration, bytes int)
}

// Option configures a queue under construction.
type Option func(*config)

type config struct {
	fsync         FsyncMode
	fsyncInterval time.Duration
	trimBatch     int
	trimThrottle  time.Duration
	logger        logpkg.Logger
	observer      Observer
	storage       StorageObserver
}

// WithFsync sets the WAL sync policy.
func WithFsync(mode FsyncMode) Option {
	return func(c *config) { c.fsync = mode }
}

// WithFsyncInterval sets the group-commit window used with FsyncInterval.
func WithFsyncInterval(d time.Duration) Option {
	return func(c *config) { c.fsyncInterval = d }
}

// WithTrimBatch bounds how many expired records a single reclamation commit
// may delete.
func WithTrimBatch(n int) Option {
	return func(c *config) { c.trimBatch = n }
}

// WithTrimThrottle inserts a pause between reclamation commits.
func WithTrimThrottle(d time.Duration) Option {
	return func(c *config) { c.trimThrottle = d }
}

// WithLogger injects a logger. Default is a no-op logger unless
// ROCKSQ_LOG_LEVEL is set, in which case a console logger at that level is
// used.
func WithLogger(l logpkg.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithObserver injects a scheduler observer.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithStorageObserver injects a storage observer.
func WithStorageObserver(o StorageObserver) Option {
	return func(c *config) { c.storage = o }
}

// buildConfig applies defaults, environment overrides, then explicit options.
// Environment knobs, read at construction time:
//   - ROCKSQ_FSYNC: always|interval|never
//   - ROCKSQ_TRIM_BATCH: max deletes per reclamation commit
//   - ROCKSQ_TRIM_THROTTLE_MS: pause between reclamation commits
//   - ROCKSQ_LOG_LEVEL: debug|info|warn|error (default logger only)
func buildConfig(opts []Option) config {
	c := config{
		fsync:     FsyncAlways,
		trimBatch: 1024,
		observer:  noopObserver{},
	}
	if v := os.Getenv("ROCKSQ_FSYNC"); v != "" {
		switch v {
		case "always":
			c.fsync = FsyncAlways
		case "interval":
			c.fsync = FsyncInterval
		case "never":
			c.fsync = FsyncNever
		}
	}
	if v := os.Getenv("ROCKSQ_TRIM_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.trimBatch = n
		}
	}
	if v := os.Getenv("ROCKSQ_TRIM_THROTTLE_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms >= 0 {
			c.trimThrottle = time.Duration(ms) * time.Millisecond
		}
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		if v := os.Getenv("ROCKSQ_LOG_LEVEL"); v != "" {
			level, err := logpkg.ParseLevel(v)
			if err != nil {
				level = logpkg.InfoLevel
			}
			c.logger = logpkg.NewLogger(logpkg.WithLevel(level))
		} else {
			c.logger = logpkg.NewNop()
		}
	}
	return c
}

func (c config) storeOptions(path string) pebblestore.Options {
	opts := pebblestore.Options{Dir: path, FsyncInterval: c.fsyncInterval}
	switch c.fsync {
	case FsyncInterval:
		opts.Fsync = pebblestore.FsyncModeInterval
	case FsyncNever:
		opts.Fsync = pebblestore.FsyncModeNever
	default:
		opts.Fsync = pebblestore.FsyncModeAlways
	}
	if c.storage != nil {
		opts.Metrics = storageAdapter{c.storage}
	}
	return opts
}

// storageAdapter bridges the public StorageObserver to the store's hook type.
type storageAdapter struct {
	obs StorageObserver
}

func (a storageAdapter) ObserveRead(elapsed time.Duration, bytes int) {
	a.obs.ObserveRead(elapsed, bytes)
}

func (a storageAdapter) ObserveCommit(elapsed time.Duration, bytes int) {
	a.obs.ObserveCommit(elapsed, bytes)
}

func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidConfig)
	}
	return nil
}
