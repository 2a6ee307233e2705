// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"deltavalue/config"
)

// Setup applies cfg to the standard logrus logger. When cfg.File is set,
// entries are written to both stderr and a size-rotated file; the returned
// closer releases that file.
func Setup(cfg config.LoggingConfig) (io.Closer, error) {
	return apply(logrus.StandardLogger(), cfg, os.Stderr)
}

func apply(logger *logrus.Logger, cfg config.LoggingConfig, console io.Writer) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}

	if cfg.File == "" {
		logger.SetOutput(console)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	logger.SetOutput(io.MultiWriter(console, file))

	logger.WithFields(logrus.Fields{
		"level":  cfg.Level,
		"format": cfg.Format,
		"file":   cfg.File,
	}).Debug("Logger initialized")

	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
