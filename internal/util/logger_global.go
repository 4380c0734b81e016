package util

import (
	"io"
	"sync"
)

var (
	globalLogger LoggerInterface
	globalMu     sync.RWMutex
)

// InitLogger replaces the global logger. Entries at logLevel and above go to console,
// and to logFile when set.
func InitLogger(logLevel, logFile string, console io.Writer) error {
	logger, err := NewLogger(logLevel, logFile, console)
	if err != nil {
		return err
	}

	globalMu.Lock()
	previous := globalLogger
	globalLogger = logger
	globalMu.Unlock()

	if closer, ok := previous.(*Logger); ok {
		_ = closer.Close()
	}
	return nil
}

func current() LoggerInterface {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Default returns the global logger, or a no-op logger before InitLogger ran.
func Default() LoggerInterface {
	if l := current(); l != nil {
		return l
	}
	return NopLogger()
}

// LogInfo convenience functions for logging
func LogInfo(msg string, fields ...Field) {
	Default().Info(msg, fields...)
}

func LogDebug(msg string, fields ...Field) {
	Default().Debug(msg, fields...)
}

func LogDebugf(format string, args ...interface{}) {
	Default().Debugf(format, args...)
}

func LogWarn(msg string, fields ...Field) {
	Default().Warn(msg, fields...)
}

func LogError(msg string, fields ...Field) {
	Default().Error(msg, fields...)
}
