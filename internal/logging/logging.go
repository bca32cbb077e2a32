// Package logging provides the operational logger. Output goes to stderr
// because stdout carries command output and the MCP stdio transport.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper of zap.SugaredLogger.
type Logger = *zap.SugaredLogger

// Field is a wrapper of zap.Field.
type Field = zap.Field

var (
	mu       sync.Mutex
	logLevel           = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	sink     io.Writer = os.Stderr
)

// SetLogLevel sets the level of all loggers with ["debug", "info", "warn", "error"].
// It applies to loggers already created.
func SetLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug":
		logLevel.SetLevel(zapcore.DebugLevel)
	case "info":
		logLevel.SetLevel(zapcore.InfoLevel)
	case "warn", "":
		logLevel.SetLevel(zapcore.WarnLevel)
	case "error":
		logLevel.SetLevel(zapcore.ErrorLevel)
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}

// SetOutput redirects loggers created afterwards. Tests use it to capture
// output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sink = w
}

// New creates a named logger with optional fields.
func New(name string, fields ...Field) Logger {
	logger := newLogger(name)
	if len(fields) > 0 {
		args := make([]interface{}, len(fields))
		for i, field := range fields {
			args[i] = field
		}
		logger = logger.With(args...)
	}
	return logger
}

// NewField creates a new field with the given key and value.
func NewField(key string, value string) Field {
	return zap.String(key, value)
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return zap.NewNop().Sugar()
}

func newLogger(name string) Logger {
	mu.Lock()
	w := sink
	mu.Unlock()
	return build(w).Named(name)
}

func build(w io.Writer) Logger {
	return zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(humanEncoderConfig()),
			zapcore.AddSync(w),
			logLevel,
		),
		zap.AddStacktrace(zap.ErrorLevel),
	).Sugar()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.EpochTimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func humanEncoderConfig() zapcore.EncoderConfig {
	cfg := encoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}
