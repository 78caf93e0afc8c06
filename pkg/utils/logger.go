package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

// LevelFromString converts a level name to a LogLevel, defaulting to INFO
func LevelFromString(s string) LogLevel {
	switch s {
	case "DEBUG":
		return DEBUG
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Logger provides leveled logging for a named component
type Logger struct {
	logger    *log.Logger
	minLevel  LogLevel
	component string
}

// NewLogger creates a new logger instance
func NewLogger(component string, minLevel LogLevel) *Logger {
	return &Logger{
		logger:    log.New(os.Stderr, "", 0),
		minLevel:  minLevel,
		component: component,
	}
}

// shouldLog checks if a message at the given level should be logged
func (l *Logger) shouldLog(level LogLevel) bool {
	levels := map[LogLevel]int{
		DEBUG: 0,
		INFO:  1,
		WARN:  2,
		ERROR: 3,
	}
	return levels[level] >= levels[l.minLevel]
}

// formatMessage formats a log message with timestamp, level, and component
func (l *Logger) formatMessage(level LogLevel, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, level, l.component, message)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, args ...interface{}) {
	if l.shouldLog(DEBUG) {
		l.logger.Println(l.formatMessage(DEBUG, fmt.Sprintf(message, args...)))
	}
}

// Info logs an info message
func (l *Logger) Info(message string, args ...interface{}) {
	if l.shouldLog(INFO) {
		l.logger.Println(l.formatMessage(INFO, fmt.Sprintf(message, args...)))
	}
}

// Warn logs a warning message
func (l *Logger) Warn(message string, args ...interface{}) {
	if l.shouldLog(WARN) {
		l.logger.Println(l.formatMessage(WARN, fmt.Sprintf(message, args...)))
	}
}

// Error logs an error message
func (l *Logger) Error(message string, args ...interface{}) {
	if l.shouldLog(ERROR) {
		l.logger.Println(l.formatMessage(ERROR, fmt.Sprintf(message, args...)))
	}
}

// Fatal logs an error message and exits the program
func (l *Logger) Fatal(message string, args ...interface{}) {
	l.logger.Fatalln(l.formatMessage(ERROR, fmt.Sprintf(message, args...)))
}

// WithComponent creates a new logger with a different component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		logger:    l.logger,
		minLevel:  l.minLevel,
		component: component,
	}
}
