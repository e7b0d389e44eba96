// Package logging builds the logrus loggers used by the binaries.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/vancomm/minesweeper-tiles/internal/config"
)

const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// New returns a logger writing to out. When cfg.File is set every entry is
// also written to that file, rotated by size.
func New(cfg config.Log, out io.Writer) (*logrus.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: cfg.Development})

	if cfg.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to open log file %s: %w", cfg.File, err)
		}
		log.AddHook(hook)
	}

	return log, nil
}

// Server logs to stderr.
func Server(cfg config.Log) (*logrus.Logger, error) {
	return New(cfg, os.Stderr)
}

// Terminal never writes to the terminal, which belongs to the game screen;
// without LOG_FILE entries are dropped.
func Terminal(cfg config.Log) (*logrus.Logger, error) {
	return New(cfg, io.Discard)
}
