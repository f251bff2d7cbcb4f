package cabi

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the package's logger. It is a no-op logger until
// SetLogger is called, so importing this package never produces output
// on its own.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	nop := zap.NewNop()
	logger.CompareAndSwap(nil, nop)
	return logger.Load()
}

// SetLogger replaces the package's logger. Safe to call concurrently with
// Logger() or with another SetLogger call, at any point in the package's
// lifetime, not just before first use.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}
