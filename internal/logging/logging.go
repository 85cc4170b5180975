// Package logging builds the zap loggers used for diagnostics. Reports go to
// stdout; logs always go to stderr so the two never mix.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level enumerates supported logging granularities.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format enumerates supported encodings.
type Format string

const (
	FormatConsole    Format = "console"
	FormatStructured Format = "structured"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var encodings = map[Format]string{
	FormatConsole:    "console",
	FormatStructured: "json",
}

// New builds a logger writing to stderr at the requested level and format.
func New(level, format string) (*zap.Logger, error) {
	lvl, ok := levels[Level(strings.ToLower(strings.TrimSpace(level)))]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}
	enc, ok := encodings[Format(strings.ToLower(strings.TrimSpace(format)))]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = enc
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = lvl > zapcore.DebugLevel
	if enc == "console" {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return cfg.Build()
}

// Nop returns a logger that discards everything; used by tests and library callers.
func Nop() *zap.Logger { return zap.NewNop() }
