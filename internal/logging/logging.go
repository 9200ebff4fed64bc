// Package logging provides leveled, structured diagnostics for the console.
//
// Diagnostics never go to the transcript: the transcript is what the user
// sees, the log is what the developer sees. Output defaults to stderr.
//
// # Usage
//
//	logger := logging.New(logging.Options{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	    Output: os.Stderr,
//	})
//
//	log := logger.WithFields(logging.Fields{"component": "cvar"})
//	log.Warn("Cvar assignment rejected", logging.Fields{"cvar": "sv_gravity"})
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level
type Level int

const (
	// LevelDebug traces dispatch decisions
	LevelDebug Level = iota
	// LevelInfo is for lifecycle events
	LevelInfo
	// LevelWarn is for rejected input the user was already told about
	LevelWarn
	// LevelError is for failures the user may not have seen
	LevelError
	// LevelNone disables all logging
	LevelNone
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level. Unknown names map to LevelWarn.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE", "OFF":
		return LevelNone
	default:
		return LevelWarn
	}
}

// Format represents the output format
type Format int

const (
	// FormatText outputs human-readable text
	FormatText Format = iota
	// FormatJSON outputs one JSON object per line
	FormatJSON
)

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, true
	case "json":
		return FormatJSON, true
	default:
		return FormatText, false
	}
}

// Fields is a map of structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Fields    Fields    `json:"fields,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Options configures the logger
type Options struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger writes structured entries. It is safe for concurrent use.
type Logger struct {
	mu     sync.Mutex
	level  Level
	format Format
	output io.Writer
	now    func() time.Time
}

// New creates a new Logger with the given options
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return &Logger{
		level:  opts.Level,
		format: opts.Format,
		output: opts.Output,
		now:    time.Now,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(Options{Level: LevelNone, Output: io.Discard})
}

// SetLevel changes the log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current log level
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput changes the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log(LevelDebug, msg, nil, fields...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Fields) {
	l.log(LevelInfo, msg, nil, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.log(LevelWarn, msg, nil, fields...)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error, fields ...Fields) {
	l.log(LevelError, msg, err, fields...)
}

func (l *Logger) log(level Level, msg string, err error, fields ...Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: l.now(),
		Level:     level.String(),
		Message:   msg,
	}

	if len(fields) > 0 {
		merged := make(Fields)
		for _, f := range fields {
			for k, v := range f {
				merged[k] = v
			}
		}
		entry.Fields = merged
	}

	if err != nil {
		entry.Error = err.Error()
	}

	var line string
	if l.format == FormatJSON {
		line = formatJSON(entry)
	} else {
		line = formatText(entry)
	}

	fmt.Fprintln(l.output, line)
}

func formatJSON(entry LogEntry) string {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal log entry: %s"}`, err.Error())
	}
	return string(data)
}

// formatText renders fields sorted by key so lines are stable.
func formatText(entry LogEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", entry.Timestamp.Format("2006-01-02 15:04:05.000"), entry.Level, entry.Message)

	if entry.Error != "" {
		fmt.Fprintf(&sb, " error=%q", entry.Error)
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Fields[k])
	}

	return sb.String()
}

// WithFields creates a child logger with preset fields
func (l *Logger) WithFields(fields Fields) *FieldLogger {
	return &FieldLogger{
		logger: l,
		fields: fields,
	}
}

// FieldLogger is a logger with preset fields
type FieldLogger struct {
	logger *Logger
	fields Fields
}

// WithFields returns a child that carries both sets of fields.
func (fl *FieldLogger) WithFields(fields Fields) *FieldLogger {
	merged := make(Fields, len(fl.fields)+len(fields))
	for k, v := range fl.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &FieldLogger{logger: fl.logger, fields: merged}
}

// Debug logs a debug message with preset fields
func (fl *FieldLogger) Debug(msg string, fields ...Fields) {
	fl.logger.Debug(msg, fl.mergeFields(fields...)...)
}

// Info logs an info message with preset fields
func (fl *FieldLogger) Info(msg string, fields ...Fields) {
	fl.logger.Info(msg, fl.mergeFields(fields...)...)
}

// Warn logs a warning message with preset fields
func (fl *FieldLogger) Warn(msg string, fields ...Fields) {
	fl.logger.Warn(msg, fl.mergeFields(fields...)...)
}

// Error logs an error message with preset fields
func (fl *FieldLogger) Error(msg string, err error, fields ...Fields) {
	fl.logger.Error(msg, err, fl.mergeFields(fields...)...)
}

func (fl *FieldLogger) mergeFields(fields ...Fields) []Fields {
	result := make([]Fields, 0, len(fields)+1)
	result = append(result, fl.fields)
	result = append(result, fields...)
	return result
}
