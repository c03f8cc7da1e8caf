// Package logger provides the structured logging capability injected into
// every service. There is no package-level logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger logs a message with alternating key/value pairs
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

// ZapAdapter adapts a zap logger to Logger
type ZapAdapter struct {
	logger *zap.SugaredLogger
}

func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger.Sugar()}
}

// New builds a JSON production logger writing to stderr at the given level
func New(level string) (*ZapAdapter, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return NewZapAdapter(z), nil
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return NewZapAdapter(zap.NewNop())
}

func (z *ZapAdapter) Debug(msg string, keyvals ...any) {
	z.logger.Debugw(msg, keyvals...)
}

func (z *ZapAdapter) Info(msg string, keyvals ...any) {
	z.logger.Infow(msg, keyvals...)
}

func (z *ZapAdapter) Warn(msg string, keyvals ...any) {
	z.logger.Warnw(msg, keyvals...)
}

func (z *ZapAdapter) Error(msg string, keyvals ...any) {
	z.logger.Errorw(msg, keyvals...)
}

func (z *ZapAdapter) With(keyvals ...any) Logger {
	return &ZapAdapter{logger: z.logger.With(keyvals...)}
}

// Sync flushes buffered entries
func (z *ZapAdapter) Sync() error {
	return z.logger.Sync()
}
