package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/mason/internal/core/ports"
)

// messager describes an error that can report its own message without
// the rest of the chain. This matches the Message() method provided by
// zerr.Error (go.trai.ch/zerr v0.3.0+); other errors gracefully fall
// back to Error().
type messager interface {
	Message() string
}

// metadater matches the Metadata() accessor of zerr.Error.
type metadater interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog with the pretty handler.
type Logger struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	output  io.Writer
	verbose bool
}

var _ ports.Logger = (*Logger)(nil)

// New creates a new Logger writing to stderr at info level.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// rebuild swaps in a handler matching the current output and level.
// Callers must hold the write lock.
func (l *Logger) rebuild() {
	w := l.output
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if l.verbose {
		level = slog.LevelDebug
	}

	l.logger = slog.New(NewPrettyHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// SetOutput updates the logger's output destination. A nil writer
// resets to stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.output = w
	l.rebuild()
}

// SetVerbose toggles debug-level output.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.verbose = verbose
	l.rebuild()
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain and metadata rendered
// hierarchically.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// ErrorEntry is one element of a rendered error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the error chain. zerr errors contribute
// their own message and metadata and the walk continues; the first
// non-zerr error contributes its full Error() text and ends the walk.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry

	current := err
	for current != nil {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}

		entry := ErrorEntry{Message: m.Message()}
		if md, ok := current.(metadater); ok {
			entry.Metadata = md.Metadata()
		}
		entries = append(entries, entry)

		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders collected entries as a main error followed
// by an indented "Caused by:" list. Metadata keys print sorted.
func formatErrorEntries(entries []ErrorEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			lines = append(lines, formatMetadata(entry.Metadata, "       ")...)
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		lines = append(lines, formatMetadata(entry.Metadata, "      ")...)
	}

	return strings.Join(lines, "\n")
}

func formatMetadata(md map[string]any, indent string) []string {
	if len(md) == 0 {
		return nil
	}

	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, md[k]))
	}
	return lines
}
