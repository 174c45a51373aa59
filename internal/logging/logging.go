// Package logging builds the structured loggers used by the eui64 commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the level, format and destination of a logger.
type Config struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string `koanf:"level"`

	// Format is text or json. Empty means text.
	Format string `koanf:"format"`

	// File is a path to a log file which is rotated by size. Empty means the
	// logger writes to the io.Writer passed to New.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
}

// ParseLevel parses a level name as accepted in Config.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
}

// New creates a logger from cfg. If cfg.File is empty, output is written to w.
// The returned io.Closer releases the log file, if any, and must be called
// when the logger is no longer needed.
func New(cfg Config, w io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var c io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}

		w, c = lj, lj
	}
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	return slog.New(h), c, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
