// Package logger provides leveled logging for the inspection game server.
// Every round resolution and deal should be traceable through this.
package logger

import (
	"log"
	"os"
)

// Logger provides leveled logging with printf-style messages.
type Logger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debug       bool
}

// NewLogger creates a new logger instance. debug enables the Debug level.
func NewLogger(debug bool) *Logger {
	return &Logger{
		debugLogger: log.New(os.Stdout, "[INSPECT-DEBUG] ", log.Ldate|log.Ltime|log.Lshortfile),
		infoLogger:  log.New(os.Stdout, "[INSPECT-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(os.Stdout, "[INSPECT-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(os.Stderr, "[INSPECT-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
		debug:       debug,
	}
}

// Debug logs developer diagnostics. Dropped unless debug mode is on.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.debug {
		l.debugLogger.Printf(format, args...)
	}
}

// Info logs informational messages.
func (l *Logger) Info(format string, args ...interface{}) {
	l.infoLogger.Printf(format, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.warnLogger.Printf(format, args...)
}

// Error logs error messages.
func (l *Logger) Error(format string, args ...interface{}) {
	l.errorLogger.Printf(format, args...)
}

// Event logs a game event with its originating game for audit.
func (l *Logger) Event(eventType string, gameID string, details string) {
	l.infoLogger.Printf("[EVENT:%s] Game:%s | %s", eventType, gameID, details)
}
