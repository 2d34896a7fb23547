// Package logging builds the zap loggers used across the application and
// carries them through context.Context.
package logging

import (
	"context"
	"io"

	"go.elastic.co/ecszap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger writing to w. Format "json" produces ECS-compatible JSON
// lines; anything else produces human-readable console output. Unknown levels
// fall back to info.
func New(level, format string, w io.Writer) *zap.Logger {
	lvl := parseLevel(level)
	ws := zapcore.AddSync(w)

	var core zapcore.Core
	if format == "json" {
		core = ecszap.NewCore(ecszap.NewDefaultEncoderConfig(), ws, lvl)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), ws, lvl)
	}
	return zap.New(core, zap.AddCaller())
}

func parseLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

type loggerKey struct{}

// NewContext returns a copy of parent carrying logger.
func NewContext(parent context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(parent, loggerKey{}, logger)
}

// FromContext returns the logger carried by ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}
