package logger

import (
	"sync"

	"gitlab.com/codechallenge.net/internal/adapter/logging"
	"gitlab.com/codechallenge.net/internal/core/ports/primary"
)

var (
	mu     sync.RWMutex
	Logger primary.Logger = logging.NewZapLogger("info", false)
)

// Set replaces the process-wide logger
func Set(l primary.Logger) {
	mu.Lock()
	defer mu.Unlock()
	Logger = l
}

func get() primary.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return Logger
}

func Info(msg string, args ...interface{}) {
	get().Info(msg, args...)
}

func Error(msg string, args ...interface{}) {
	get().Error(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	get().Debug(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	get().Warn(msg, args...)
}
