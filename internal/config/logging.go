package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger from the logging section. Console
// output goes to stderr so report tables on stdout stay machine-readable;
// when a log file is configured it receives the same stream in JSON form.
// The returned closer releases the file handle and is a no-op otherwise.
func NewLogger(lc LoggingConfig, debug bool) (zerolog.Logger, func() error, error) {
	level := lc.Level
	if debug {
		level = "debug"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}}

	closer := func() error { return nil }
	if lc.File != "" {
		if dir := filepath.Dir(lc.File); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return zerolog.Nop(), nil, fmt.Errorf("creating log directory %s: %w", dir, err)
			}
		}
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("opening log file %s: %w", lc.File, err)
		}
		writers = append(writers, f)
		closer = f.Close
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return logger, closer, nil
}
