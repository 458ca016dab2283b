// Package log provides the structured logging facade used by the queue engine.
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context, backed by Go's standard library
// slog with text or JSON output.
//
// Quick start
//
//	l := log.NewLogger(log.WithLevel(log.DebugLevel))
//	l = l.With(log.Component("bounded"), log.Str("path", dir))
//	l.Info("queue opened", log.Uint64("last_seq", seq))
//
// Engines default to a no-op logger (NewNop) when none is injected.
package log
