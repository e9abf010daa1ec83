// Package logging wraps charmbracelet/log with a process-wide default logger, context propagation, and an optional file destination.
//
// When BLOBDIFF_LOG_FILE is set, loggers append to that file instead of writing to stderr. The terminal viewer owns the screen, so this is the only way to see
// its logs.
package logging

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// EnvLogFile names the environment variable holding the log file path.
const EnvLogFile = "BLOBDIFF_LOG_FILE"

var (
	defaultMu     sync.Mutex
	defaultLogger *log.Logger
)

// New returns a logger at level ("debug", "info", "warn", "error"; anything else is info) writing to Destination().
func New(level string) *log.Logger {
	return NewWithWriter(Destination(), level)
}

// NewWithWriter returns a logger at level writing to w.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "blobdiff",
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name to a log.Level, case-insensitively. Unknown names are InfoLevel.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ValidLevel reports whether level is a recognized level name.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Default returns the process-wide logger, creating it at info level on first use.
func Default() *log.Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("info")
	}
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
