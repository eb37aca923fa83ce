package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel defines the logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// String returns the name of the level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name such as "info" to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

// Hook receives every message that passes the level filter. The meshing
// scheduler and tests use it to observe diagnostics.
type Hook func(level LogLevel, message string)

// Logger is a leveled printf logger over the standard log package.
type Logger struct {
	mu       sync.RWMutex
	out      *log.Logger
	minLevel LogLevel
	hook     Hook
}

// New creates a logger writing to w.
func New(w io.Writer, minLevel LogLevel) *Logger {
	return &Logger{
		out:      log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		minLevel: minLevel,
	}
}

// global logger instance
var defaultLogger = New(os.Stderr, INFO)

// Default returns the package level logger.
func Default() *Logger {
	return defaultLogger
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

func (l *Logger) Level() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minLevel
}

func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.out.SetOutput(w)
	l.mu.Unlock()
}

// SetHook installs h; nil removes the hook.
func (l *Logger) SetHook(h Hook) {
	l.mu.Lock()
	l.hook = h
	l.mu.Unlock()
}

func (l *Logger) logf(level LogLevel, format string, args ...any) {
	l.mu.RLock()
	minLevel, out, hook := l.minLevel, l.out, l.hook
	l.mu.RUnlock()
	if level < minLevel {
		return
	}

	message := fmt.Sprintf(format, args...)
	out.Printf("[%s] %s", level, message)
	if hook != nil {
		hook(level, message)
	}
}

func (l *Logger) Debug(format string, args ...any) { l.logf(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.logf(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.logf(WARN, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.logf(ERROR, format, args...) }

// Debug logs a DEBUG message on the default logger
func Debug(format string, args ...any) {
	defaultLogger.logf(DEBUG, format, args...)
}

// Info logs an INFO message on the default logger
func Info(format string, args ...any) {
	defaultLogger.logf(INFO, format, args...)
}

// Warn logs a WARN message on the default logger
func Warn(format string, args ...any) {
	defaultLogger.logf(WARN, format, args...)
}

// Error logs an ERROR message on the default logger
func Error(format string, args ...any) {
	defaultLogger.logf(ERROR, format, args...)
}

// SetLevel sets the minimum level of the default logger.
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// SetOutput redirects the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetHook installs a diagnostic hook on the default logger.
func SetHook(h Hook) {
	defaultLogger.SetHook(h)
}
