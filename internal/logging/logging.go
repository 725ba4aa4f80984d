// Package logging configures the process-wide zerolog logger from the log
// section of the configuration.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/introspin/introspin/internal/config"
)

// Setup builds a logger from the given log configuration. When a file is
// configured, logs are appended there as JSON; otherwise they go to stderr
// through the console writer. The returned close function is a no-op for
// stderr output.
func Setup(cfg config.LogConfig) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(levelOrDefault(cfg.Level))
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	closeFn := func() {}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), func() {}, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closeFn, nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
