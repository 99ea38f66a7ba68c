package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	defaultMaxSizeMB = 10
	defaultMaxFiles  = 5
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is the log file. Empty means DefaultLogPath.
	FilePath string
	// MaxSizeMB is the size that triggers rotation (default: 10).
	MaxSizeMB int
	// MaxFiles is the number of rotated files kept (default: 5).
	MaxFiles int
	// WriteToStderr mirrors every record to stderr.
	WriteToStderr bool
}

// DefaultConfig returns file logging at info level mirrored to stderr.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     defaultMaxSizeMB,
		MaxFiles:      defaultMaxFiles,
		WriteToStderr: true,
	}
}

// DebugConfig returns configuration for --debug.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	return cfg
}

func (c Config) withDefaults() Config {
	if c.FilePath == "" {
		c.FilePath = DefaultLogPath()
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = defaultMaxSizeMB
	}
	if c.MaxFiles <= 0 {
		c.MaxFiles = defaultMaxFiles
	}
	return c
}

// Setup opens the log file and returns a JSON logger over it together with
// a cleanup function that flushes and closes the file. Every record carries
// the process id so interleaved CLI and server runs can be told apart in
// `storefront logs`.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	cfg = cfg.withDefaults()

	writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = writer
	if cfg.WriteToStderr {
		out = io.MultiWriter(writer, os.Stderr)
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: LevelFromString(cfg.Level),
	})
	logger := slog.New(handler).With(slog.Int("pid", os.Getpid()))

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}
	return logger, cleanup, nil
}

// SetupServeMode installs file-only logging for the stdio tool server.
// stdout carries the protocol stream, so nothing may be written to
// stdout or stderr.
func SetupServeMode(level string) (func(), error) {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.WriteToStderr = false

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	slog.Info("serve_logging_initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level))
	return cleanup, nil
}

// LevelFromString parses a level name case-insensitively. "warning" is
// accepted for warn; anything unrecognized is info.
func LevelFromString(level string) slog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}
