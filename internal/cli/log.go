package cli

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// newLogger returns a slog logger backed by a
// charmbracelet handler writing to w at level.
// Timestamps read "HH:MM:SS.ms" (e.g. "14:32:01.45").
func newLogger(w io.Writer, level charmlog.Level) *slog.Logger {
	return slog.New(charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	}))
}
