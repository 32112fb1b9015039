// Package logging provides the engine's single zap.Logger instance.
// Packages call logging.L() rather than constructing their own logger,
// mirroring the teacher's practice of logging at call-site boundaries
// (pkg/router, cmd/quote-service) rather than inside pure math functions.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger *zap.Logger
)

func init() {
	logger, _ = zap.NewProduction()
}

// L returns the package-level logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetDevelopment swaps in a human-readable development logger; used by
// cmd/solve-sim and by tests that want readable output.
func SetDevelopment() {
	mu.Lock()
	defer mu.Unlock()
	l, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	logger = l
}

// With returns a child logger with the given fields attached.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}
