package adapters

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLoggerAdapter implements LoggerAdapter on top of a zap logger.
// The threshold is held in a zap.AtomicLevel so it can be raised or lowered
// while the logger is in use.
type ZapLoggerAdapter struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

var (
	_ LoggerAdapter = (*ZapLoggerAdapter)(nil)
	_ LevelSetter   = (*ZapLoggerAdapter)(nil)
)

// NewZapLoggerAdapter wraps base with a level filter starting at level.
// A nil base falls back to zap's production logger.
func NewZapLoggerAdapter(base *zap.Logger, level LogLevel) *ZapLoggerAdapter {
	if base == nil {
		var err error
		base, err = zap.NewProduction()
		if err != nil {
			base = zap.NewNop()
		}
	}

	atom := zap.NewAtomicLevelAt(toZapLevel(level))
	filtered := base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelCore{Core: core, level: atom}
	}))

	return &ZapLoggerAdapter{
		sugar: filtered.Named("quantcast").Sugar(),
		level: atom,
	}
}

// SetLevel changes the minimum level that is written.
func (z *ZapLoggerAdapter) SetLevel(level LogLevel) {
	z.level.SetLevel(toZapLevel(level))
}

// Level reports the current threshold.
func (z *ZapLoggerAdapter) Level() zapcore.Level {
	return z.level.Level()
}

func (z *ZapLoggerAdapter) Debug(message string, args ...any) {
	z.sugar.Debugf(message, args...)
}

func (z *ZapLoggerAdapter) Info(message string, args ...any) {
	z.sugar.Infof(message, args...)
}

func (z *ZapLoggerAdapter) Warn(message string, args ...any) {
	z.sugar.Warnf(message, args...)
}

func (z *ZapLoggerAdapter) Error(message string, args ...any) {
	z.sugar.Errorf(message, args...)
}

// Sync flushes buffered log entries.
func (z *ZapLoggerAdapter) Sync() error {
	return z.sugar.Sync()
}

// levelCore applies an adjustable threshold in front of the wrapped core.
type levelCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l) && c.Core.Enabled(l)
}

func (c *levelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), level: c.level}
}

// toZapLevel maps a LogLevel onto zap. LogLevelNone is mapped above fatal so
// nothing passes.
func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelNone:
		return zapcore.FatalLevel + 1
	default:
		return zapcore.WarnLevel
	}
}
