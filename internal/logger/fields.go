package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// StringField is a key/value pair that is dropped when either side is blank.
type StringField struct {
	Key   string
	Value string
}

func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key, value := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value)
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

// WithFields attaches fields to logger. A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// ModelFields names the language model behind an AI helper.
func ModelFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithModel(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, ModelFields(provider, model)...)
}
