package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// newLogger returns the debug logger for one invocation. Status output owns
// stderr, so logs only ever go to a file; without one the logger is a no-op.
// Every event carries the run id.
func newLogger(path string, debug bool) (*zerolog.Logger, func() error, error) {
	if path == "" {
		l := zerolog.Nop()
		return &l, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	l := zerolog.New(f).
		Level(level).
		With().
		Timestamp().
		Str("run", uuid.NewString()).
		Logger()
	return &l, f.Close, nil
}
