package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger writes the generation run log to a timestamped file. A nil
// *Logger is valid and discards everything, so components never need to
// guard their log calls.
type Logger struct {
	*log.Logger
	file *os.File
}

// NewLogger creates a logger writing into logDir.
func NewLogger(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("generation_%s.log", timestamp))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	return &Logger{
		Logger: log.New(file, "", log.LstdFlags),
		file:   file,
	}, nil
}

// NewDiscard returns a logger that writes nowhere; used in tests.
func NewDiscard() *Logger {
	return &Logger{Logger: log.New(io.Discard, "", 0)}
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l != nil && l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Infof logs a formatted informational line.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Printf("INFO: "+format, args...)
}

// Warnf logs a recovered problem. Per-endpoint analysis failures land
// here; they are never fatal.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Printf("WARN: "+format, args...)
}

// Errorf logs a fatal-path error before it is surfaced to the caller.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.Printf("ERROR: "+format, args...)
}

// LogAIInteraction records one accelerator call outcome.
func (l *Logger) LogAIInteraction(endpoint string, provider string, confidence float64, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.Printf("AI: endpoint=%s provider=%s error=%v", endpoint, provider, err)
		return
	}
	l.Printf("AI: endpoint=%s provider=%s confidence=%.2f", endpoint, provider, confidence)
}

// LogStateTransition records an orchestrator state change.
func (l *Logger) LogStateTransition(runID, from, to string) {
	if l == nil {
		return
	}
	l.Printf("STATE: run=%s %s -> %s", runID, from, to)
}
