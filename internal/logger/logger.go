// Package logger provides structured JSON logging for gtg-stats runs.
//
// Every entry is one JSON object per line with a timestamp, level, message and optional
// structured fields and error. Loggers derived with With carry fields (such as the run ID)
// into every entry they write.
//
// Example usage:
//
//	log := logger.Default().With(logger.Fields{"run_id": runID})
//	log.Info("Fetched leaderboard", logger.Fields{
//	    "url":    url,
//	    "season": 2016,
//	})
//
//	log.Error("Extraction failed", logger.Fields{"path": path}, err)
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a config value such as "debug" or "WARN" into a Level.
// Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	level := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelRank[level]; !ok {
		return LevelInfo
	}
	return level
}

// Logger writes structured log entries
type Logger struct {
	minLevel Level
	output   io.Writer
	fields   Fields
}

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

var defaultLogger = New(LevelInfo, os.Stderr)

// New creates a logger writing entries at or above level to output
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		minLevel: level,
		output:   output,
	}
}

// SetDefault replaces the logger handed to components that are not given one
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the process-wide logger
func Default() *Logger {
	return defaultLogger
}

// With returns a logger that adds fields to every entry. Fields passed to a single call
// win over these on key collisions.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{
		minLevel: l.minLevel,
		output:   l.output,
		fields:   merge(l.fields, fields),
	}
}

func merge(base, extra Fields) Fields {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	out := make(Fields, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.shouldLog(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    merge(l.fields, fields),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}

	fmt.Fprintln(l.output, string(data))
}

func (l *Logger) shouldLog(level Level) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// Debug logs detailed diagnostic information
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs general progress of a run
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs problems the run recovers from, such as a failed refresh with a cached copy
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// WarnErr logs a recoverable problem together with its error
func (l *Logger) WarnErr(message string, fields Fields, err error) {
	l.log(LevelWarn, message, fields, err)
}

// Error logs failures that abort the run
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}
