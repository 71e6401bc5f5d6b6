package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger with a smaller surface used across the services.
type Logger struct {
	*zap.Logger
}

// New creates a new Logger with the given level and encoding ("json" or "console").
func New(level, encoding string) (*Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	if encoding != "" {
		cfg.Encoding = encoding
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return nil, err
	}
	return &Logger{l}, nil
}

// Field creates a generic zap field.
func Field(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

// ErrorField creates a zap field for an error.
func ErrorField(err error) zap.Field {
	return zap.Error(err)
}

// StringField creates a zap field for a string value.
func StringField(key, value string) zap.Field {
	return zap.String(key, value)
}

// IntField creates a zap field for an int value.
func IntField(key string, value int) zap.Field {
	return zap.Int(key, value)
}
