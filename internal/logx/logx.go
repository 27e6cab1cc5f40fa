// Package logx provides the debug logger used across relayx.
//
// Operator-facing output never goes through here; see internal/ui for that.
// The logger is a no-op until EnableDebug(true) is called (the --verbose flag).
package logx

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.SugaredLogger]

func init() {
	logger.Store(zap.NewNop().Sugar())
}

// EnableDebug toggles runtime debug logging to stderr.
func EnableDebug(enable bool) {
	if !enable {
		logger.Store(zap.NewNop().Sugar())
		return
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		logger.Store(zap.NewNop().Sugar())
		return
	}
	logger.Store(l.Sugar())
}

// L returns the current logger.
func L() *zap.SugaredLogger {
	return logger.Load()
}

// Debugf prints a formatted message when debug logging is enabled.
func Debugf(format string, args ...interface{}) {
	logger.Load().Debugf(format, args...)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = logger.Load().Sync()
}
