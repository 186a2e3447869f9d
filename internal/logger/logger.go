// Package logger builds the zerolog logger shared by the poke services.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/poke/internal/config"
)

// New returns a logger writing to out. Console output is for humans;
// anything else is one JSON object per line. An unknown level falls
// back to info.
func New(cfg config.LogConfig, service string, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	w := out
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
