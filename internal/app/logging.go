package app

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/scrawl/internal/config"
)

// DefaultLogPath returns the log file used when logging.file is empty.
// The terminal belongs to the UI, so the studio never logs to it.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "scrawl", "scrawl.log")
}

// NewLogger builds the process logger from the logging section.
// File "-" writes to stderr.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch cfg.Encoding {
	case "", "console":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		zc.Encoding = "json"
	default:
		return nil, fmt.Errorf("logging encoding %q: want console or json", cfg.Encoding)
	}

	path := cfg.File
	switch path {
	case "-":
		path = "stderr"
	case "":
		path = DefaultLogPath()
		fallthrough
	default:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &FileError{Op: "create log dir", Path: path, Err: err}
		}
	}
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, &InitError{Component: "logger", Err: err}
	}
	return logger.Named("scrawl"), nil
}
