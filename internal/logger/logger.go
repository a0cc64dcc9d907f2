package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the encoding, level and destination of the process logger.
type Config struct {
	JSON  bool
	Debug bool
	// Output defaults to stderr so that stdout stays free for command results.
	Output string
}

func New(json bool, debug bool) (*zap.Logger, error) {
	return NewWithConfig(Config{JSON: json, Debug: debug})
}

func NewWithConfig(c Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if c.JSON {
		encoding = "json"
	}

	if c.Debug {
		level = zapcore.DebugLevel
	}

	output := c.Output
	if output == "" {
		output = "stderr"
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	return cfg.Build()
}
