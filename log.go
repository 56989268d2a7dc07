package lockman

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// logger is the package-level logger, stored as an atomic pointer for safe
// concurrent reads and writes. A nil value means no custom logger has been
// set; Logger() falls back to a cached default derived from zap.L().
var logger atomic.Pointer[zap.Logger]

// defaultLogger caches the default-derived logger (zap.L(), named
// "lockman") so it is not re-created on every Logger() call. Calling
// SetLogger(nil) clears this cache, letting the next Logger() call pick up
// a changed zap.ReplaceGlobals.
var defaultLogger atomic.Pointer[zap.Logger]

// Logger returns the current package-level logger. Safe to call from
// multiple goroutines.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := zap.L().Named("lockman")
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

// SetLogger replaces the package-level logger used by lockman. Pass nil to
// reset to the default, re-derived from zap.L() on the next Logger() call.
//
// Example:
//
//	lockman.SetLogger(myLogger.Named("lockman"))
func SetLogger(l *zap.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}
