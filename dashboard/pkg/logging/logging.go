// Package logging builds the zap logger shared by every dashtailor component.
// Output goes to a file under the logs directory because the TUI owns the
// terminal; console mirroring is only enabled for headless commands.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the logs directory.
const FileName = "dashtailor.log"

// Options controls where and how much we log.
type Options struct {
	LogsDir string
	Level   string // debug, info, warn, error
	Console bool   // also write human-readable lines to stderr
}

// New creates a logger writing JSON lines to <LogsDir>/dashtailor.log.
// The returned closer flushes and closes the file.
func New(opts Options) (*zap.Logger, func(), error) {
	if opts.LogsDir == "" {
		return nil, nil, fmt.Errorf("logs dir is required")
	}
	if err := os.MkdirAll(opts.LogsDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create logs dir: %w", err)
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	path := filepath.Join(opts.LogsDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level),
	}
	if opts.Console {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	closer := func() {
		_ = logger.Sync()
		_ = f.Close()
	}
	return logger, closer, nil
}

// ParseLevel maps a config string to a zap level. Empty means info.
func ParseLevel(s string) (zap.AtomicLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	case "warn", "warning":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel), nil
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel), nil
	default:
		return zap.AtomicLevel{}, fmt.Errorf("unknown log level %q", s)
	}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
