// Package logger provides levelled diagnostic output for the capstone CLI.
// Messages go to stderr so that answers and JSON written to stdout stay
// clean. The level is raised with --verbose and lowered with --quiet.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level controls which messages are written.
type Level int

// Available levels, from least to most output.
const (
	LevelQuiet Level = iota
	LevelInfo
	LevelDebug
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelQuiet:
		return "quiet"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

var (
	mu         sync.RWMutex
	level                = LevelInfo
	output     io.Writer = os.Stderr
	timestamps bool
	now        = time.Now
)

// SetLevel changes the active level.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// GetLevel returns the active level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetVerbose is shorthand for SetLevel(LevelDebug) or SetLevel(LevelInfo).
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelInfo)
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	return GetLevel() >= LevelDebug
}

// SetOutput sets the writer for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetTimestamps prefixes every line with an RFC 3339 time when enabled.
func SetTimestamps(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = enabled
}

// Debug prints a message at debug level.
func Debug(format string, args ...any) {
	write(LevelDebug, "[DEBUG] ", format, args...)
}

// Info prints a message at info level.
func Info(format string, args ...any) {
	write(LevelInfo, "[INFO] ", format, args...)
}

// Warn prints a warning at info level.
func Warn(format string, args ...any) {
	write(LevelInfo, "[WARN] ", format, args...)
}

// Error prints an error regardless of level.
func Error(format string, args ...any) {
	write(LevelQuiet, "[ERROR] ", format, args...)
}

// Section prints a section header at debug level.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if level >= LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func write(min Level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if level < min {
		return
	}
	if timestamps {
		prefix = now().Format(time.RFC3339) + " " + prefix
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
