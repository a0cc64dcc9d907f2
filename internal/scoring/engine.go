// Package scoring combines sector, stage, readiness, velocity and tier signals
// into a bounded fit score for a startup and investor pair.
package scoring

import (
	"fmt"
	"math"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/readiness"
	"github.com/spigell/fitmatch/internal/stage"
	"github.com/spigell/fitmatch/internal/taxonomy"
	"github.com/spigell/fitmatch/internal/tier"
	"github.com/spigell/fitmatch/internal/tuning"
	"github.com/spigell/fitmatch/internal/velocity"
)

// Components are the immutable collaborators of an Engine. Nil fields fall
// back to the built-in tables.
type Components struct {
	Normalizer  *taxonomy.Normalizer
	StageLabels map[string]int
	Tiers       *tier.Classifier
	Velocity    *velocity.Scorer
}

// Engine scores pairs with one weight profile. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	profile  tuning.Profile
	sectors  *taxonomy.Normalizer
	stages   *stage.Aligner
	tiers    *tier.Classifier
	velocity *velocity.Scorer
}

func New(p tuning.Profile, c Components) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weight profile: %w", err)
	}

	if c.Normalizer == nil {
		c.Normalizer = taxonomy.NewNormalizer(taxonomy.DefaultVocabulary())
	}
	if c.StageLabels == nil {
		c.StageLabels = stage.DefaultLabels()
	}
	if c.Tiers == nil {
		c.Tiers = tier.NewDefaultClassifier()
	}
	if c.Velocity == nil {
		c.Velocity = velocity.NewDefaultScorer()
	}

	return &Engine{
		profile:  p,
		sectors:  c.Normalizer,
		stages:   stage.NewAligner(c.StageLabels, p.Stage),
		tiers:    c.Tiers,
		velocity: c.Velocity,
	}, nil
}

// NewDefault builds an engine for a named built-in profile.
func NewDefault(profileName string) (*Engine, error) {
	p, err := tuning.Lookup(profileName)
	if err != nil {
		return nil, err
	}
	return New(p, Components{})
}

func (e *Engine) Profile() tuning.Profile { return e.profile }

func (e *Engine) Normalizer() *taxonomy.Normalizer { return e.sectors }

func (e *Engine) Stages() *stage.Aligner { return e.stages }

// Score never fails: missing or malformed optional data falls back to the
// neutral category of each signal.
func (e *Engine) Score(s profile.StartupProfile, inv profile.InvestorProfile) MatchResult {
	p := e.profile
	var b Breakdown

	b.SectorFit = e.sectors.Fit(e.sectors.NormalizeAll(s.Sectors), e.sectors.NormalizeAll(inv.Sectors))
	b.SectorPoints = sectorPoints(b.SectorFit, p.Sector)

	stageFit := e.stages.Fit(s.Stage, inv.StageFocus)
	b.StageFit, b.StagePoints = stageFit.Category, stageFit.Points

	b.Readiness = readiness.Score(s.Metrics, p.Readiness)
	b.ReadinessContribution = readiness.Contribution(b.Readiness)
	b.VelocityBonus = readiness.VelocityBonus(s.Metrics, p.VelocityBonus)
	b.ReputationBonus = readiness.Reputation(s.Metrics.TotalGodScore, p.Reputation)

	if b.SectorFit == taxonomy.FitNone {
		b.Penalties += p.Penalties.SectorNone
	}
	if b.StageFit == stage.Far {
		b.Penalties += p.Penalties.StageFar
	}

	raw := float64(b.SectorPoints + b.StagePoints + b.VelocityBonus + b.ReadinessContribution + b.ReputationBonus - b.Penalties)

	if p.Tier.Enabled {
		cls := e.tiers.Classify(inv)
		shortfall := math.Max(0, float64(cls.Info.ExpectedReadinessMin-b.Readiness)) * p.Tier.PenaltyFactor
		b.Tier = &TierAdjustment{
			Tier:             cls.Tier,
			Source:           cls.Source,
			Bonus:            cls.Info.AccessibilityBonus,
			ReadinessMin:     cls.Info.ExpectedReadinessMin,
			ShortfallPenalty: shortfall,
		}
		raw += float64(cls.Info.AccessibilityBonus) - shortfall
	}

	if p.FundingVelocity.Enabled {
		if res := e.velocity.Score(s); res.Applicable {
			contribution := tuning.RoundHalfUp(res.Score * p.FundingVelocity.Weight)
			b.FundingVelocity = &FundingVelocity{Contribution: contribution, Result: res}
			raw += float64(contribution)
		}
	}

	b.Raw = raw

	return MatchResult{
		StartupID:      s.ID,
		InvestorID:     inv.ID,
		Score:          Rescale(raw, p.Rescale, p.Bounds),
		Confidence:     ConfidenceFor(b.SectorFit, b.StageFit),
		Profile:        p.Name,
		ProfileVersion: p.Version,
		Breakdown:      b,
	}
}

// ScoreRecord accepts profile values, pointers or generic records. Anything
// that is not a record yields a *profile.InvalidInputError.
func (e *Engine) ScoreRecord(startup, investor any) (MatchResult, error) {
	s, err := profile.AsStartup(startup)
	if err != nil {
		return MatchResult{}, err
	}
	inv, err := profile.AsInvestor(investor)
	if err != nil {
		return MatchResult{}, err
	}
	return e.Score(s, inv), nil
}

func sectorPoints(fit taxonomy.Fit, pts tuning.SectorPoints) int {
	switch fit {
	case taxonomy.FitExact:
		return pts.Exact
	case taxonomy.FitAdjacent:
		return pts.Adjacent
	case taxonomy.FitNone:
		return pts.None
	default:
		return pts.Unknown
	}
}

// Rescale maps a raw total through the piecewise table, rounds half up and
// clamps to the bounds.
func Rescale(raw float64, segments []tuning.Segment, bounds tuning.Bounds) int {
	switch {
	case math.IsNaN(raw) || math.IsInf(raw, -1) || len(segments) == 0:
		return bounds.Min
	case math.IsInf(raw, 1):
		return bounds.Max
	}

	seg := segments[len(segments)-1]
	for _, s := range segments {
		if raw <= s.Max {
			seg = s
			break
		}
	}

	final := tuning.RoundHalfUp(seg.Base + (raw-seg.Origin)*seg.Slope)
	return tuning.Clamp(final, bounds.Min, bounds.Max)
}

// ConfidenceFor is high for an exact sector with an exact or next stage, low
// for no sector overlap or a far stage, and medium otherwise.
func ConfidenceFor(sector taxonomy.Fit, st stage.Category) Confidence {
	switch {
	case sector == taxonomy.FitExact && (st == stage.Exact || st == stage.Next):
		return High
	case sector == taxonomy.FitNone || st == stage.Far:
		return Low
	default:
		return Medium
	}
}
