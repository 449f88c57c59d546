package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Tap30/quantcast-go/adapters"
)

// New builds a JSON zap logger writing to stdout. The core accepts every
// level; filtering happens in the returned adapter so the measurement client
// can turn verbose logging on at runtime.
func New(level string) (*zap.Logger, *adapters.ZapLoggerAdapter) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		zapcore.DebugLevel,
	)

	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return base, adapters.NewZapLoggerAdapter(base, ParseLevel(level))
}

// ParseLevel maps a config string onto an adapters.LogLevel, defaulting to
// info.
func ParseLevel(level string) adapters.LogLevel {
	switch level {
	case "debug":
		return adapters.LogLevelDebug
	case "info":
		return adapters.LogLevelInfo
	case "warn", "warning":
		return adapters.LogLevelWarn
	case "error":
		return adapters.LogLevelError
	case "none", "off":
		return adapters.LogLevelNone
	default:
		return adapters.LogLevelInfo
	}
}
