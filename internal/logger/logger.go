package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(writers ...io.Writer) *Logger {
	w := io.MultiWriter(writers...)
	return New(w)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ExportStarted logs the start of an export run
func (l *Logger) ExportStarted(pages int, outputDir string) {
	l.Info("export started",
		"pages", pages,
		"output_dir", outputDir)
}

// ExportCompleted logs the completion of an export run
func (l *Logger) ExportCompleted(exported, skipped, errors int, duration time.Duration) {
	l.Info("export completed",
		"pages_exported", exported,
		"pages_skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// PageExported logs a page written to disk
func (l *Logger) PageExported(pageID, title, path string, blocks int) {
	l.Info("page exported",
		"page_id", pageID,
		"title", title,
		"path", path,
		"blocks", blocks)
}

// PageSkipped logs when a page is left untouched
func (l *Logger) PageSkipped(pageID, reason string) {
	l.Debug("page skipped",
		"page_id", pageID,
		"reason", reason)
}

// UnsupportedBlock logs a block kind that renders to nothing
func (l *Logger) UnsupportedBlock(pageID, blockID, kind string) {
	l.Warn("unsupported block",
		"page_id", pageID,
		"block_id", blockID,
		"type", kind)
}

// FetchError logs a failed request to the service
func (l *Logger) FetchError(resource string, err error) {
	l.Error("fetch failed",
		"resource", resource,
		"error", err)
}

// DecodeFailed logs a record that could not be decoded
func (l *Logger) DecodeFailed(pageID string, err error) {
	l.Error("decode failed",
		"page_id", pageID,
		"error", err)
}

// RequestRetried logs a rate-limited request about to be retried
func (l *Logger) RequestRetried(path string, attempt int, wait time.Duration) {
	l.Warn("request retried",
		"path", path,
		"attempt", attempt,
		"wait", wait)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(outputDir, format string, interval time.Duration) {
	l.Debug("config loaded",
		"output_dir", outputDir,
		"format", format,
		"interval", interval)
}
