// Package tuning holds every point value, threshold and rescale breakpoint used
// by the fit scoring engine, grouped into named and versioned weight profiles.
package tuning

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	ProfileLegacy       = "v1-legacy"
	ProfileQuality      = "v2-quality"
	ProfileTierAdjusted = "v3-tier-adjusted"

	DefaultProfile = ProfileLegacy
)

// Step awards Points when a value is at or above At. Ladders are evaluated
// from the highest threshold down and the first hit wins.
type Step struct {
	At     float64 `mapstructure:"at" json:"at"`
	Points int     `mapstructure:"points" json:"points"`
}

// Ladder returns the points of the first step reached by v.
func Ladder(v float64, steps []Step) int {
	if math.IsNaN(v) {
		return 0
	}
	for _, s := range steps {
		if v >= s.At {
			return s.Points
		}
	}
	return 0
}

type SectorPoints struct {
	Exact    int `mapstructure:"exact" json:"exact"`
	Adjacent int `mapstructure:"adjacent" json:"adjacent"`
	Unknown  int `mapstructure:"unknown" json:"unknown"`
	None     int `mapstructure:"none" json:"none"`
}

type StagePoints struct {
	Unknown  int `mapstructure:"unknown" json:"unknown"`
	Agnostic int `mapstructure:"agnostic" json:"agnostic"`
	Exact    int `mapstructure:"exact" json:"exact"`
	Next     int `mapstructure:"next" json:"next"`
	Off1     int `mapstructure:"off1" json:"off1"`
	Off2     int `mapstructure:"off2" json:"off2"`
	Far      int `mapstructure:"far" json:"far"`
}

type Penalties struct {
	SectorNone int `mapstructure:"sector-none" json:"sector_none"`
	StageFar   int `mapstructure:"stage-far" json:"stage_far"`
}

// Readiness describes the traction buckets. Percentages are expressed on a
// 0-100 scale.
type Readiness struct {
	Revenue        int    `mapstructure:"revenue" json:"revenue"`
	MRR            []Step `mapstructure:"mrr" json:"mrr"`
	AnyMRR         int    `mapstructure:"any-mrr" json:"any_mrr"`
	Customers      int    `mapstructure:"customers" json:"customers"`
	Launched       int    `mapstructure:"launched" json:"launched"`
	Growth         []Step `mapstructure:"growth" json:"growth"`
	CustomerGrowth []Step `mapstructure:"customer-growth" json:"customer_growth"`
	NPS            []Step `mapstructure:"nps" json:"nps"`
	Disappointed   []Step `mapstructure:"disappointed" json:"disappointed"`
	NRR            []Step `mapstructure:"nrr" json:"nrr"`
	Referral       []Step `mapstructure:"referral" json:"referral"`
	NoTraction     int    `mapstructure:"no-traction" json:"no_traction"`
	Min            int    `mapstructure:"min" json:"min"`
	Max            int    `mapstructure:"max" json:"max"`
}

type VelocityBonus struct {
	Base              int     `mapstructure:"base" json:"base"`
	FastMVPDays       float64 `mapstructure:"fast-mvp-days" json:"fast_mvp_days"`
	FastMVP           int     `mapstructure:"fast-mvp" json:"fast_mvp"`
	FastRevenueMonths float64 `mapstructure:"fast-revenue-months" json:"fast_revenue_months"`
	FastRevenue       int     `mapstructure:"fast-revenue" json:"fast_revenue"`
	FrequentDeploys   int     `mapstructure:"frequent-deploys" json:"frequent_deploys"`
	HighGrowthRate    float64 `mapstructure:"high-growth-rate" json:"high_growth_rate"`
	HighGrowth        int     `mapstructure:"high-growth" json:"high_growth"`
	FastPivotDays     float64 `mapstructure:"fast-pivot-days" json:"fast_pivot_days"`
	FastPivot         int     `mapstructure:"fast-pivot" json:"fast_pivot"`
	Max               int     `mapstructure:"max" json:"max"`
}

type Tier struct {
	Enabled       bool    `mapstructure:"enabled" json:"enabled"`
	PenaltyFactor float64 `mapstructure:"penalty-factor" json:"penalty_factor"`
}

type FundingVelocity struct {
	Enabled bool    `mapstructure:"enabled" json:"enabled"`
	Weight  float64 `mapstructure:"weight" json:"weight"`
}

// Segment maps raw totals up to Max (inclusive) onto Base + (raw-Origin)*Slope.
// The last segment of a rescale table catches everything above the previous one.
type Segment struct {
	Max    float64 `mapstructure:"max" json:"max"`
	Base   float64 `mapstructure:"base" json:"base"`
	Origin float64 `mapstructure:"origin" json:"origin"`
	Slope  float64 `mapstructure:"slope" json:"slope"`
}

type Bounds struct {
	Min int `mapstructure:"min" json:"min"`
	Max int `mapstructure:"max" json:"max"`
}

// Profile is a complete, versioned set of engine weights.
type Profile struct {
	Name            string          `mapstructure:"name" json:"name"`
	Version         string          `mapstructure:"version" json:"version"`
	Sector          SectorPoints    `mapstructure:"sector" json:"sector"`
	Stage           StagePoints     `mapstructure:"stage" json:"stage"`
	Penalties       Penalties       `mapstructure:"penalties" json:"penalties"`
	Readiness       Readiness       `mapstructure:"readiness" json:"readiness"`
	VelocityBonus   VelocityBonus   `mapstructure:"velocity-bonus" json:"velocity_bonus"`
	Reputation      []Step          `mapstructure:"reputation" json:"reputation"`
	Tier            Tier            `mapstructure:"tier" json:"tier"`
	FundingVelocity FundingVelocity `mapstructure:"funding-velocity" json:"funding_velocity"`
	Rescale         []Segment       `mapstructure:"rescale" json:"rescale"`
	Bounds          Bounds          `mapstructure:"bounds" json:"bounds"`
}

// Legacy returns the reference profile used for calibration and tests.
func Legacy() Profile {
	return Profile{
		Name:    ProfileLegacy,
		Version: "1.0.0",
		Sector:  SectorPoints{Exact: 30, Adjacent: 18, Unknown: 12, None: 5},
		Stage:   StagePoints{Unknown: 12, Agnostic: 18, Exact: 30, Next: 24, Off1: 14, Off2: 8, Far: 3},
		Penalties: Penalties{
			SectorNone: 5,
			StageFar:   5,
		},
		Readiness: Readiness{
			Revenue:        10,
			MRR:            []Step{{At: 50000, Points: 5}, {At: 10000, Points: 3}},
			AnyMRR:         1,
			Customers:      5,
			Launched:       2,
			Growth:         []Step{{At: 20, Points: 8}, {At: 10, Points: 5}, {At: 5, Points: 2}},
			CustomerGrowth: []Step{{At: 20, Points: 4}, {At: 10, Points: 2}},
			NPS:            []Step{{At: 70, Points: 6}, {At: 50, Points: 4}, {At: 30, Points: 2}},
			Disappointed:   []Step{{At: 40, Points: 6}, {At: 25, Points: 3}},
			NRR:            []Step{{At: 120, Points: 5}, {At: 100, Points: 2}},
			Referral:       []Step{{At: 30, Points: 5}, {At: 15, Points: 3}, {At: 5, Points: 1}},
			NoTraction:     -5,
			Min:            -10,
			Max:            50,
		},
		VelocityBonus: VelocityBonus{
			Base:              5,
			FastMVPDays:       90,
			FastMVP:           3,
			FastRevenueMonths: 6,
			FastRevenue:       2,
			FrequentDeploys:   2,
			HighGrowthRate:    15,
			HighGrowth:        2,
			FastPivotDays:     30,
			FastPivot:         1,
			Max:               15,
		},
		Reputation: []Step{{At: 80, Points: 8}, {At: 70, Points: 6}, {At: 60, Points: 4}, {At: 50, Points: 2}},
		Rescale: []Segment{
			{Max: 30, Base: 10, Origin: 15, Slope: 0.75},
			{Max: 60, Base: 25, Origin: 30, Slope: 1},
			{Max: 80, Base: 55, Origin: 60, Slope: 1},
			{Max: math.MaxFloat64, Base: 75, Origin: 80, Slope: 0.75},
		},
		Bounds: Bounds{Min: 10, Max: 95},
	}
}

// Quality is the investor-quality-aware profile: legacy weights plus the tier
// accessibility bonus and readiness shortfall penalty.
func Quality() Profile {
	p := Legacy()
	p.Name = ProfileQuality
	p.Version = "2.0.0"
	p.Tier = Tier{Enabled: true, PenaltyFactor: 0.5}
	return p
}

// TierAdjusted adds the funding-cadence velocity score on top of Quality.
func TierAdjusted() Profile {
	p := Quality()
	p.Name = ProfileTierAdjusted
	p.Version = "3.0.0"
	p.FundingVelocity = FundingVelocity{Enabled: true, Weight: 0.5}
	return p
}

var builtin = map[string]func() Profile{
	ProfileLegacy:       Legacy,
	ProfileQuality:      Quality,
	ProfileTierAdjusted: TierAdjusted,
}

// Names lists the built-in profile names in a stable order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a fresh copy of the named built-in profile.
func Lookup(name string) (Profile, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultProfile
	}
	build, ok := builtin[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown weight profile %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return build(), nil
}

// Validate checks that the profile can produce bounded scores.
func (p Profile) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if len(p.Rescale) == 0 {
		errs = append(errs, errors.New("rescale table must have at least one segment"))
	}
	for i := 1; i < len(p.Rescale); i++ {
		if p.Rescale[i].Max <= p.Rescale[i-1].Max {
			errs = append(errs, fmt.Errorf("rescale segment %d: max must increase", i))
		}
	}
	if p.Bounds.Min >= p.Bounds.Max {
		errs = append(errs, fmt.Errorf("bounds: min %d must be below max %d", p.Bounds.Min, p.Bounds.Max))
	}
	if p.Readiness.Min >= p.Readiness.Max {
		errs = append(errs, fmt.Errorf("readiness: min %d must be below max %d", p.Readiness.Min, p.Readiness.Max))
	}
	if p.Tier.PenaltyFactor < 0 {
		errs = append(errs, errors.New("tier penalty factor must not be negative"))
	}
	if p.FundingVelocity.Weight < 0 {
		errs = append(errs, errors.New("funding velocity weight must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("profile %q: %w", p.Name, errors.Join(errs...))
	}
	return nil
}

// RoundHalfUp rounds x to the nearest integer, sending halves toward +Inf so
// that -2.5 becomes -2 and 2.5 becomes 3.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
