package app

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig configures NewLogger.
type LoggerConfig struct {
	// Level is one of debug, info, warn or error.
	Level string

	// Development switches to the console encoder with caller and
	// stack traces on warnings.
	Development bool
}

// ParseLogLevel parses a level name, case-insensitively. An empty name
// is info.
func ParseLogLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("%w %q (want debug, info, warn or error)", ErrUnknownLogLevel, s)
}

// NewLogger builds the process logger. Every logger carries a session id
// so that log lines before and after a restart can be told apart.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	level, err := ParseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("session", uuid.NewString())), nil
}
