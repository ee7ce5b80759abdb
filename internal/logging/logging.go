package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger writing to stderr.
// format can be "text" (human-friendly console) or "json" (structured).
// An unknown level falls back to info.
func Setup(format, level string) zerolog.Logger {
	return New(os.Stderr, format, level)
}

// New builds a logger on w. Tests pass a buffer here.
func New(w io.Writer, format, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if format == "text" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
