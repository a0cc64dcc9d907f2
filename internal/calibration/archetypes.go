// Package calibration compares production fit scores against what reference
// investor archetypes would be expected to score, producing a correction
// signal for manual retuning of weight profiles.
package calibration

import (
	"errors"
	"fmt"

	"github.com/spigell/fitmatch/internal/profile"
)

// Weights is the emphasis an archetype puts on each normalized sub-score.
// They are normalized by their sum, so only ratios matter.
type Weights struct {
	Sector     float64 `mapstructure:"sector" json:"sector"`
	Stage      float64 `mapstructure:"stage" json:"stage"`
	Readiness  float64 `mapstructure:"readiness" json:"readiness"`
	Velocity   float64 `mapstructure:"velocity" json:"velocity"`
	Reputation float64 `mapstructure:"reputation" json:"reputation"`
}

func (w Weights) sum() float64 {
	return w.Sector + w.Stage + w.Readiness + w.Velocity + w.Reputation
}

func (w Weights) validate() error {
	for name, v := range map[string]float64{
		"sector":     w.Sector,
		"stage":      w.Stage,
		"readiness":  w.Readiness,
		"velocity":   w.Velocity,
		"reputation": w.Reputation,
	} {
		if v < 0 {
			return fmt.Errorf("%s weight must not be negative", name)
		}
	}
	if w.sum() <= 0 {
		return errors.New("at least one weight must be positive")
	}
	return nil
}

// Archetype is a named reference investor. Portfolio entries document the kind
// of companies the archetype historically backed and do not affect scoring.
type Archetype struct {
	Name      string                  `mapstructure:"name" json:"name"`
	Thesis    string                  `mapstructure:"thesis" json:"thesis"`
	Weights   Weights                 `mapstructure:"weights" json:"weights"`
	Investor  profile.InvestorProfile `mapstructure:"investor" json:"investor"`
	Portfolio []string                `mapstructure:"portfolio" json:"portfolio"`
}

func DefaultArchetypes() []Archetype {
	return []Archetype{
		{
			Name:    "thesis-driven-seed",
			Thesis:  "Backs technical founders in AI and developer tooling before product-market fit.",
			Weights: Weights{Sector: 0.40, Stage: 0.30, Readiness: 0.10, Velocity: 0.15, Reputation: 0.05},
			Investor: profile.InvestorProfile{
				ID:           "archetype-thesis-driven-seed",
				Name:         "Thesis-driven seed fund",
				Sectors:      []string{"AI", "Developer Tools", "Data Infrastructure"},
				StageFocus:   []string{"pre-seed", "seed"},
				CheckSizeMin: 250_000,
				CheckSizeMax: 1_500_000,
			},
			Portfolio: []string{
				"open source developer tooling company backed at pre-seed",
				"applied ML platform backed before first revenue",
				"data infrastructure startup led at seed on founder-market fit",
			},
		},
		{
			Name:    "traction-first-growth",
			Thesis:  "Writes larger checks into SaaS and fintech companies with proven revenue and retention.",
			Weights: Weights{Sector: 0.15, Stage: 0.20, Readiness: 0.45, Velocity: 0.10, Reputation: 0.10},
			Investor: profile.InvestorProfile{
				ID:           "archetype-traction-first-growth",
				Name:         "Traction-first growth fund",
				Sectors:      []string{"SaaS", "Fintech", "Enterprise"},
				StageFocus:   []string{"series a", "series b"},
				CheckSizeMin: 2_000_000,
				CheckSizeMax: 15_000_000,
			},
			Portfolio: []string{
				"vertical SaaS company at several million in annual recurring revenue",
				"payments infrastructure company with net revenue retention above 120%",
			},
		},
		{
			Name:    "generalist-angel-network",
			Thesis:  "Pools small checks across sectors and favours teams that ship fast.",
			Weights: Weights{Sector: 0.10, Stage: 0.35, Readiness: 0.15, Velocity: 0.30, Reputation: 0.10},
			Investor: profile.InvestorProfile{
				ID:           "archetype-generalist-angel-network",
				Name:         "Generalist angel network",
				StageFocus:   []string{"pre-seed", "angel", "seed"},
				CheckSizeMin: 25_000,
				CheckSizeMax: 250_000,
			},
			Portfolio: []string{
				"consumer app funded weeks after launch",
				"marketplace startup funded on early weekly growth",
				"hardware prototype funded through a syndicate",
			},
		},
	}
}
