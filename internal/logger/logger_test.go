package logger

import (
	"context"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	for _, log := range []Logger{New("info"), NewWithFormat("debug", "json"), NewNop()} {
		// These should not panic
		log.Debug(ctx, "debug message")
		log.Info(ctx, "info message")
		log.Warn(ctx, "warn message")
		log.Error(ctx, "error message")
		log.Info(ctx, "formatted message: %s %d", "test", 123)
		_ = log.Sync()
	}
}

func TestLevelGating(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    zapcore.Level
		enabled     bool
	}{
		{"debug logs at debug level", "debug", zapcore.DebugLevel, true},
		{"info logs at debug level", "debug", zapcore.InfoLevel, true},
		{"debug doesn't log at info level", "info", zapcore.DebugLevel, false},
		{"info logs at info level", "info", zapcore.InfoLevel, true},
		{"error always logs", "debug", zapcore.ErrorLevel, true},
		{"warn suppressed at error level", "error", zapcore.WarnLevel, false},
		{"invalid config defaults to info", "bogus", zapcore.DebugLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.configLevel).(*implLogger)
			if got := log.level.Enabled(tt.logLevel); got != tt.enabled {
				t.Errorf("Enabled(%s) = %v, want %v", tt.logLevel, got, tt.enabled)
			}
		})
	}
}
