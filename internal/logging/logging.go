// Package logging provides the diagnostic logger used by the cli and api
// client. Records are written through a charmbracelet/log handler so that
// interactive output is readable while callers keep using log/slog.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Only warnings and errors are shown
// unless verbose is set, in which case debug records are included.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "hw",
		ReportTimestamp: verbose,
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
