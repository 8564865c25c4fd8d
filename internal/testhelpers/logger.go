// Package testhelpers routes component logs into the test log.
package testhelpers

import (
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/fightcamp/internal/logging"
)

// NewLogger creates a debug-level logger writing to logSink such as the writer from [NewWriter].
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.NewLogger(logSink, "debug")
}

// NewTestLogger is NewLogger(NewWriter(t)), the logger most component tests want.
func NewTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return NewLogger(NewWriter(t))
}
