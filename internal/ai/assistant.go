// Package ai holds the provider-neutral contracts for language model helpers
// used at the edges of the matching pipeline.
package ai

import (
	"context"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/scoring"
)

// Extraction is what a model inferred about a sparse startup profile.
type Extraction struct {
	Sectors    []string
	Stage      string
	Confidence float64
	Reason     string
	Raw        string
}

// Extractor infers sectors and stage from a startup description.
type Extractor interface {
	Extract(ctx context.Context, startup profile.StartupProfile) (*Extraction, error)
}

// Review is a model's second opinion on a scored pair.
type Review struct {
	Fit    bool
	Score  float64
	Reason string
	Raw    string
}

type Reviewer interface {
	Review(ctx context.Context, startup profile.StartupProfile, investor profile.InvestorProfile, result scoring.MatchResult) (*Review, error)
}
