package gobrainz

import (
	"log"
	"strconv"
	"sync/atomic"
)

// Logger is the minimal structured logging interface used for debug output.
// Messages carry alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SimpleLogger is a console Logger built on the standard log package.
type SimpleLogger struct{}

// NewSimpleLogger creates a console logger.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{}
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.print("DEBUG", msg, keysAndValues)
}

func (l *SimpleLogger) Info(msg string, keysAndValues ...interface{}) {
	l.print("INFO", msg, keysAndValues)
}

func (l *SimpleLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.print("WARN", msg, keysAndValues)
}

func (l *SimpleLogger) Error(msg string, keysAndValues ...interface{}) {
	l.print("ERROR", msg, keysAndValues)
}

func (l *SimpleLogger) print(level, msg string, keysAndValues []interface{}) {
	if len(keysAndValues) == 0 {
		log.Printf("[%s] %s", level, msg)
		return
	}
	log.Printf("[%s] %s %v", level, msg, keysAndValues)
}

// DebugConfig controls which request lifecycle events are logged.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogAuth      bool
	LogScheduler bool
	RequestIDGen func() string
}

// DefaultDebugConfig returns a config with all event categories enabled.
func DefaultDebugConfig() *DebugConfig {
	var counter atomic.Int64
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogAuth:      true,
		LogScheduler: true,
		RequestIDGen: func() string {
			return "req-" + strconv.FormatInt(counter.Add(1), 10)
		},
	}
}
