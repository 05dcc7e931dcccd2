package utils

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger returns a development logger when env is "development" and a
// production logger otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	if strings.EqualFold(strings.TrimSpace(env), "development") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// MustLogger is NewLogger that falls back to a no-op logger.
func MustLogger(env string) *zap.Logger {
	logger, err := NewLogger(env)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
