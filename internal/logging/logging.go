package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level string
	// Dir, when set, receives File next to stderr. zap opens file sinks in
	// append mode, so successive runs accumulate in one log.
	Dir     string
	File    string
	Verbose bool
}

// New builds a JSON production logger.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config.OutputPaths = []string{"stderr"}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		name := opts.File
		if name == "" {
			name = "container.log"
		}
		config.OutputPaths = append(config.OutputPaths, filepath.Join(opts.Dir, name))
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
