package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
	// FieldPlatform names the listing platform a record came from.
	FieldPlatform = "platform"
	// FieldRgstNo is the platform registration number of a listing.
	FieldRgstNo = "rgst_no"
	// FieldComponent tags log entries with the emitting component.
	FieldComponent = "component"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the fields describing an AI provider and model.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// ListingFields identifies a single listing in log entries.
func ListingFields(platform, rgstNo string) []zap.Field {
	return StringFields(
		StringField{Key: FieldPlatform, Value: platform},
		StringField{Key: FieldRgstNo, Value: rgstNo},
	)
}

// Component returns a child logger tagged with the component name.
func Component(logger *zap.Logger, name string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldComponent, Value: name})...)
}
