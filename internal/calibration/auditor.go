package calibration

import (
	"errors"
	"fmt"
	"math"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/tuning"
)

const DefaultTolerance = 5.0

type Verdict string

const (
	Inflated   Verdict = "inflated"
	Deflated   Verdict = "deflated"
	Calibrated Verdict = "calibrated"
)

// Row is one startup scored against one archetype.
type Row struct {
	StartupID  string `json:"startup_id"`
	Archetype  string `json:"archetype"`
	Production int    `json:"production"`
	Projected  int    `json:"projected"`
	// Gap is Production - Projected.
	Gap int `json:"gap"`
}

type StartupSummary struct {
	StartupID string  `json:"startup_id"`
	MeanGap   float64 `json:"mean_gap"`
	Verdict   Verdict `json:"verdict"`
}

type Report struct {
	Profile   string           `json:"profile"`
	Version   string           `json:"version"`
	Tolerance float64          `json:"tolerance"`
	Rows      []Row            `json:"rows"`
	Startups  []StartupSummary `json:"startups"`
	MeanGap   float64          `json:"mean_gap"`
	Verdict   Verdict          `json:"verdict"`
}

type Auditor struct {
	engine     *scoring.Engine
	archetypes []Archetype
	tolerance  float64
}

// NewAuditor validates the archetypes up front. A non-positive tolerance falls
// back to DefaultTolerance.
func NewAuditor(engine *scoring.Engine, archetypes []Archetype, tolerance float64) (*Auditor, error) {
	if engine == nil {
		return nil, errors.New("calibration: engine is required")
	}
	if len(archetypes) == 0 {
		return nil, errors.New("calibration: at least one archetype is required")
	}
	for _, a := range archetypes {
		if err := a.Weights.validate(); err != nil {
			return nil, fmt.Errorf("calibration: archetype %q: %w", a.Name, err)
		}
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Auditor{engine: engine, archetypes: archetypes, tolerance: tolerance}, nil
}

// Audit scores every startup against every archetype. An empty startup list
// yields an empty, calibrated report.
func (a *Auditor) Audit(startups []profile.StartupProfile) Report {
	p := a.engine.Profile()
	report := Report{
		Profile:   p.Name,
		Version:   p.Version,
		Tolerance: a.tolerance,
		Verdict:   Calibrated,
	}

	var total float64
	for _, s := range startups {
		var sum float64
		for _, arch := range a.archetypes {
			res := a.engine.Score(s, arch.Investor)
			projected := Project(res.Breakdown, arch.Weights, p)
			row := Row{
				StartupID:  s.ID,
				Archetype:  arch.Name,
				Production: res.Score,
				Projected:  projected,
				Gap:        res.Score - projected,
			}
			report.Rows = append(report.Rows, row)
			sum += float64(row.Gap)
		}
		mean := sum / float64(len(a.archetypes))
		report.Startups = append(report.Startups, StartupSummary{
			StartupID: s.ID,
			MeanGap:   mean,
			Verdict:   a.verdict(mean),
		})
		total += mean
	}

	if len(startups) > 0 {
		report.MeanGap = total / float64(len(startups))
		report.Verdict = a.verdict(report.MeanGap)
	}
	return report
}

func (a *Auditor) verdict(gap float64) Verdict {
	switch {
	case gap > a.tolerance:
		return Inflated
	case gap < -a.tolerance:
		return Deflated
	default:
		return Calibrated
	}
}

// Project maps the weighted average of the normalized sub-scores onto the
// profile bounds.
func Project(b scoring.Breakdown, w Weights, p tuning.Profile) int {
	subs := SubScores(b, p)
	weighted := w.Sector*subs.Sector +
		w.Stage*subs.Stage +
		w.Readiness*subs.Readiness +
		w.Velocity*subs.Velocity +
		w.Reputation*subs.Reputation
	unit := weighted / w.sum()

	span := float64(p.Bounds.Max - p.Bounds.Min)
	return tuning.Clamp(tuning.RoundHalfUp(float64(p.Bounds.Min)+unit*span), p.Bounds.Min, p.Bounds.Max)
}

// SubScores normalizes each breakdown component to [0, 1] against the
// profile's maximum for that component. The layout mirrors Weights.
func SubScores(b scoring.Breakdown, p tuning.Profile) Weights {
	return Weights{
		Sector:     ratio(float64(b.SectorPoints), 0, float64(p.Sector.Exact)),
		Stage:      ratio(float64(b.StagePoints), 0, float64(p.Stage.Exact)),
		Readiness:  ratio(float64(b.Readiness), float64(p.Readiness.Min), float64(p.Readiness.Max)),
		Velocity:   ratio(float64(b.VelocityBonus), float64(p.VelocityBonus.Base), float64(p.VelocityBonus.Max)),
		Reputation: ratio(float64(b.ReputationBonus), 0, float64(topPoints(p.Reputation))),
	}
}

func topPoints(steps []tuning.Step) int {
	top := 0
	for _, s := range steps {
		top = max(top, s.Points)
	}
	return top
}

func ratio(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return math.Min(1, math.Max(0, (v-lo)/(hi-lo)))
}
