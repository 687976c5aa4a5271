// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the log file.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Options selects the destination and verbosity.
type Options struct {
	File    string // rotated log file; empty logs to Stderr
	Verbose bool
	Debug   bool
	Stderr  io.Writer
}

// Level maps the verbosity flags to a slog level.
func (o Options) Level() slog.Level {
	switch {
	case o.Debug:
		return slog.LevelDebug
	case o.Verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a text logger and the closer for its destination.
func New(o Options) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	switch {
	case o.File != "":
		if err := os.MkdirAll(filepath.Dir(o.File), 0o755); err != nil {
			return nil, nil, err
		}
		rot := &lj.Logger{
			Filename:   o.File,
			MaxSize:    DefaultMaxSizeMB,
			MaxBackups: DefaultMaxBackups,
			MaxAge:     DefaultMaxAgeDays,
		}
		w, closer = rot, rot
	case o.Stderr != nil:
		w = o.Stderr
	default:
		w = os.Stderr
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: o.Level()})
	return slog.New(h), closer, nil
}
