package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/tuning"
)

// Fingerprint identifies the inputs of a score: the full weight profile and
// both profiles. A stored row with the same fingerprint would be rescored to
// the same result. It is empty when the inputs cannot be encoded, which never
// matches a stored row.
func Fingerprint(p tuning.Profile, s profile.StartupProfile, inv profile.InvestorProfile) string {
	payload := struct {
		Weights  tuning.Profile          `json:"weights"`
		Startup  profile.StartupProfile  `json:"startup"`
		Investor profile.InvestorProfile `json:"investor"`
	}{p, s, inv}

	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
