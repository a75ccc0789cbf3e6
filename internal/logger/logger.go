// Package logger builds the zap logger and the structured field helpers
// shared across packages.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service is attached to every entry of the application logger.
const Service = "abang"

// New builds the application logger. Console encoding is used unless json is set.
func New(json bool, debug bool) (*zap.Logger, error) {
	logger, err := newConfig(json, debug).Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}

func newConfig(json bool, debug bool) zap.Config {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoding := "console"
	fields := map[string]any{}
	if json {
		encoding = "json"
		fields["service"] = Service
	}

	return zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    fields,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			StacktraceKey:  "stacktrace",
			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}
}

// OrNop returns a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
