package cmd

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodsite/internal/models"
)

// newLogger writes JSON lines unless log_format is "console". An unknown
// level falls back to info.
func newLogger(cfg *models.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "foodsite").Logger()
}
