// Package logging provides the process-wide structured logger.
//
// Until Init or Configure is called every call is a no-op, so library
// packages can log unconditionally.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// logger is the global logger instance
	logger = zap.NewNop()
	// enabled indicates if logging is enabled
	enabled bool
	// mu protects logger and enabled
	mu sync.RWMutex
)

// Options controls how the logger is built.
type Options struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string
	// Development switches the console output to a human-readable encoder.
	Development bool
	// File, when set, additionally writes JSON logs rotated by lumberjack.
	File string
	// Output is the console sink. Defaults to os.Stderr.
	Output io.Writer
}

// Init enables debug logging to stderr, or disables logging entirely.
func Init(enable bool) {
	if !enable {
		set(zap.NewNop(), false)
		return
	}
	l, _ := New(Options{Level: "debug", Development: true})
	set(l, true)
}

// Configure replaces the global logger with one built from opts.
func Configure(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	set(l, true)
	return nil
}

// New builds a zap logger: a console core, plus a rotated file core when
// opts.File is set.
func New(opts Options) (*zap.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var consoleEncoder zapcore.Encoder
	if opts.Development {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(out), level),
	}

	if opts.File != "" {
		fileSyncer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     7, // days
			Compress:   true,
		})
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, fileSyncer, level))
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(1), // skip the package-level wrapper
		zap.AddStacktrace(zap.ErrorLevel),
	), nil
}

func parseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zap.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func set(l *zap.Logger, on bool) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
	enabled = on
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Replace swaps the global logger and returns a function restoring the
// previous one. Intended for tests.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev, prevEnabled := logger, enabled
	logger, enabled = l, true
	mu.Unlock()

	return func() { set(prev, prevEnabled) }
}

// Enabled returns whether logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	current().Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	current().Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	current().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	current().Error(msg, fields...)
}

// With returns a child logger with the given fields. The child does not
// skip the package wrapper frame.
func With(fields ...zap.Field) *zap.Logger {
	return current().WithOptions(zap.AddCallerSkip(-1)).With(fields...)
}

// Logger returns the underlying zap.Logger instance
func Logger() *zap.Logger {
	return current()
}

// Sync flushes buffered log entries.
func Sync() error {
	return current().Sync()
}
