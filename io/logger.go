package specio

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat defines the output format for log messages
type LogFormat int

const (
	LogFormatCircles LogFormat = iota // 🔵 🟢 🟡 🔴 🟣
	LogFormatSymbols                  // ◆ ✓ ▲ ✗ ●
	LogFormatTagged                   // [INFO] [SUCCESS] [WARN] [ERROR] [DEBUG]
	LogFormatPlain                    // No prefix
)

var levelPrefixes = map[LogFormat]map[LogLevel]string{
	LogFormatCircles: {
		LevelDebug: "🟣", LevelInfo: "🔵", LevelSuccess: "🟢", LevelWarning: "🟡", LevelError: "🔴",
	},
	LogFormatSymbols: {
		LevelDebug: "●", LevelInfo: "◆", LevelSuccess: "✓", LevelWarning: "▲", LevelError: "✗",
	},
	LogFormatTagged: {
		LevelDebug: "[DEBUG]", LevelInfo: "[INFO]", LevelSuccess: "[SUCCESS]", LevelWarning: "[WARN]", LevelError: "[ERROR]",
	},
}

var levelColors = map[LogLevel]color.Attribute{
	LevelDebug:   color.FgMagenta,
	LevelInfo:    color.FgBlue,
	LevelSuccess: color.FgGreen,
	LevelWarning: color.FgYellow,
	LevelError:   color.FgRed,
}

// Logger writes levelled, optionally colored messages for humans.
type Logger struct {
	io           *IOManager
	format       LogFormat
	prefixes     map[LogLevel]string
	minLevel     LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
}

// NewLogger creates a new logger bound to the given IOManager
func NewLogger(io *IOManager) *Logger {
	l := &Logger{
		io:           io,
		errorsStderr: true,
		timeFormat:   "15:04:05",
		minLevel:     LevelInfo,
	}
	return l.WithFormat(LogFormatCircles)
}

// WithFormat sets the log format and resets the prefixes to its defaults.
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	l.prefixes = make(map[LogLevel]string, len(levelPrefixes[format]))
	for level, p := range levelPrefixes[format] {
		l.prefixes[level] = p
	}
	return l
}

// SetPrefix sets a custom prefix for a specific log level
func (l *Logger) SetPrefix(level LogLevel, prefix string) *Logger {
	l.prefixes[level] = prefix
	return l
}

// WithLevel drops messages below level. The default is LevelInfo.
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

// WithTimestamp enables or disables timestamp in log output
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the time format (Go time format string)
func (l *Logger) WithTimeFormat(format string) *Logger {
	l.timeFormat = format
	return l
}

// ErrorsToStderr controls whether errors and warnings go to stderr
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// Log outputs a log message at the specified level
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	fmt.Fprintln(l.selectWriter(level), l.formatMessage(level, fmt.Sprintf(format, args...)))
}

func (l *Logger) formatMessage(level LogLevel, msg string) string {
	// blank lines stay blank
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	parts := make([]string, 0, 3)
	if p := l.prefixes[level]; p != "" {
		parts = append(parts, p)
	}
	if l.withTime {
		ts := time.Now().Format(l.timeFormat)
		if len(parts) > 0 {
			ts = "[" + ts + "]"
		}
		parts = append(parts, ts)
	}
	parts = append(parts, msg)

	return l.colorize(level, strings.Join(parts, " "))
}

func (l *Logger) colorize(level LogLevel, text string) string {
	attr, ok := levelColors[level]
	if !ok {
		return text
	}
	return l.io.Colorize(text, attr)
}

func (l *Logger) selectWriter(level LogLevel) io.Writer {
	if l.errorsStderr && (level == LevelError || level == LevelWarning) {
		return l.io.Err()
	}
	return l.io.Out()
}

// Debug logs a debug message (purple circle by default)
func (l *Logger) Debug(format string, args ...any) {
	l.Log(LevelDebug, format, args...)
}

// Info logs an informational message (blue circle by default)
func (l *Logger) Info(format string, args ...any) {
	l.Log(LevelInfo, format, args...)
}

// Success logs a success message (green circle by default)
func (l *Logger) Success(format string, args ...any) {
	l.Log(LevelSuccess, format, args...)
}

// Warning logs a warning message (yellow circle by default)
func (l *Logger) Warning(format string, args ...any) {
	l.Log(LevelWarning, format, args...)
}

// Error logs an error message (red circle by default)
func (l *Logger) Error(format string, args ...any) {
	l.Log(LevelError, format, args...)
}
