package logger

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type implLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New creates a console Logger writing to stderr at the given level.
func New(level string) Logger {
	return NewWithFormat(level, "text")
}

// NewWithFormat creates a Logger using the "text" (console) or "json" encoder.
func NewWithFormat(level, format string) Logger {
	atom := zap.NewAtomicLevelAt(parseLevel(level))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")

	var enc zapcore.Encoder
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), atom)
	return &implLogger{
		sugar: zap.New(core).Sugar(),
		level: atom,
	}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &implLogger{
		sugar: zap.NewNop().Sugar(),
		level: zap.NewAtomicLevelAt(zapcore.FatalLevel),
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.sugar.Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.sugar.Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.sugar.Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.sugar.Errorf(msg, args...)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *implLogger) Sync() error {
	if err := l.sugar.Sync(); err != nil && !isTerminalSyncError(err) {
		return err
	}
	return nil
}

func isTerminalSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "inappropriate ioctl") || strings.Contains(msg, "invalid argument")
}
