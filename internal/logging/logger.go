package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level  string // trace, debug, info, warn, error
	Pretty bool   // human-readable console output
	Out    io.Writer
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	return Config{Level: "info", Pretty: true}
}

// New builds a timestamped zerolog logger. Empty or unknown levels fall back
// to the DefaultConfig level.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level, _ = zerolog.ParseLevel(DefaultConfig().Level)
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
}
