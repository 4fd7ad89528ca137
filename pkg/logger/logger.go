// Package logger provides the logging interface shared by kap components.
package logger

import (
	"log"
)

// Logger is the logging surface the engine and its collaborators write to.
type Logger interface {
	// Info logs an informational message (e.g., "within resolved Next").
	Info(format string, args ...interface{})

	// Warning logs a recoverable problem.
	Warning(format string, args ...interface{})

	// Error logs a failure.
	Error(format string, args ...interface{})
}

// StandardLogger wraps a stdlib *log.Logger.
type StandardLogger struct {
	logger *log.Logger
}

// NewStandardLogger creates a logger writing through l. A nil l uses
// log.Default().
func NewStandardLogger(l *log.Logger) *StandardLogger {
	if l == nil {
		l = log.Default()
	}
	return &StandardLogger{logger: l}
}

// Info logs with an [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs with a [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs with an [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(format string, args ...interface{})    {}
func (NopLogger) Warning(format string, args ...interface{}) {}
func (NopLogger) Error(format string, args ...interface{})   {}
