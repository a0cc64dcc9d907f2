package scoring

import (
	"github.com/spigell/fitmatch/internal/stage"
	"github.com/spigell/fitmatch/internal/taxonomy"
	"github.com/spigell/fitmatch/internal/tier"
	"github.com/spigell/fitmatch/internal/velocity"
)

type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// MatchResult is the engine output for one startup and investor pair.
type MatchResult struct {
	StartupID      string     `json:"startup_id,omitempty"`
	InvestorID     string     `json:"investor_id,omitempty"`
	Score          int        `json:"score"`
	Confidence     Confidence `json:"confidence"`
	Profile        string     `json:"profile"`
	ProfileVersion string     `json:"profile_version"`
	Breakdown      Breakdown  `json:"breakdown"`
}

// Breakdown explains how the final score was reached.
type Breakdown struct {
	SectorFit    taxonomy.Fit   `json:"sector_fit"`
	SectorPoints int            `json:"sector_points"`
	StageFit     stage.Category `json:"stage_fit"`
	StagePoints  int            `json:"stage_points"`

	Readiness             int `json:"readiness"`
	ReadinessContribution int `json:"readiness_contribution"`
	VelocityBonus         int `json:"velocity_bonus"`
	ReputationBonus       int `json:"reputation_bonus"`
	Penalties             int `json:"penalties"`

	Tier            *TierAdjustment  `json:"tier,omitempty"`
	FundingVelocity *FundingVelocity `json:"funding_velocity,omitempty"`

	// Raw is the additive total before the rescale.
	Raw float64 `json:"raw"`
}

type TierAdjustment struct {
	Tier             int         `json:"tier"`
	Source           tier.Source `json:"source"`
	Bonus            int         `json:"bonus"`
	ReadinessMin     int         `json:"readiness_min"`
	ShortfallPenalty float64     `json:"shortfall_penalty"`
}

// FundingVelocity is present only when the cadence heuristic applied.
type FundingVelocity struct {
	Contribution int             `json:"contribution"`
	Result       velocity.Result `json:"result"`
}

// Pair is a scored startup and investor combination emitted by Batch.
type Pair struct {
	StartupIndex  int
	InvestorIndex int
	Result        MatchResult
}
