// Package logger builds the application logger.
package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the logger's verbosity and output encoding.
type Config struct {
	// Verbose maps to the level: 0 warn, 1 info, 2+ debug.
	Verbose int
	// Encoding is "console" or "json". Console is the default.
	Encoding string
}

// New builds a zap logger. Console output goes to stderr so stdout
// stays clean for result output.
func New(cfg Config) *zap.Logger {
	level := zapcore.WarnLevel
	switch {
	case cfg.Verbose >= 2:
		level = zapcore.DebugLevel
	case cfg.Verbose == 1:
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "json" {
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
		}
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}
