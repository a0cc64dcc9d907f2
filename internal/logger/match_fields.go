package logger

import (
	"go.uber.org/zap"
)

const (
	FieldStartupID  = "startup_id"
	FieldInvestorID = "investor_id"
	FieldProfile    = "weight_profile"
)

// PairFields describes a startup and investor pair. Empty ids are omitted.
func PairFields(startupID, investorID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldStartupID, Value: startupID},
		StringField{Key: FieldInvestorID, Value: investorID},
	)
}

// WithPair attaches the pair fields to the logger.
func WithPair(logger *zap.Logger, startupID, investorID string) *zap.Logger {
	return WithFields(logger, PairFields(startupID, investorID)...)
}

// ProfileField names the weight profile and its version, e.g. "v1-legacy@1.0.0".
func ProfileField(name, version string) zap.Field {
	if version == "" {
		return zap.String(FieldProfile, name)
	}
	return zap.String(FieldProfile, name+"@"+version)
}
