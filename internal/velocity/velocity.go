// Package velocity scores how fast a startup raises primary rounds compared
// with sector benchmarks adjusted for the fundraising climate of each year.
package velocity

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/taxonomy"
	"github.com/spigell/fitmatch/internal/tuning"
)

const daysPerMonth = 30.44

type Trend string

const (
	Accelerating Trend = "accelerating"
	Consistent   Trend = "consistent"
	Decelerating Trend = "decelerating"
)

// Timing stretches benchmarks linearly from BaseFactor in BaseYear to
// MaxFactor in MaxYear. Years outside the range are clamped.
type Timing struct {
	BaseYear   int
	BaseFactor float64
	MaxYear    int
	MaxFactor  float64
}

func DefaultTiming() Timing {
	return Timing{BaseYear: 2021, BaseFactor: 1.0, MaxYear: 2025, MaxFactor: 1.8}
}

func (t Timing) Factor(year int) float64 {
	if year <= t.BaseYear || t.MaxYear <= t.BaseYear {
		return t.BaseFactor
	}
	if year >= t.MaxYear {
		return t.MaxFactor
	}
	frac := float64(year-t.BaseYear) / float64(t.MaxYear-t.BaseYear)
	return t.BaseFactor + frac*(t.MaxFactor-t.BaseFactor)
}

// Params are the scoring constants of the cadence heuristic.
type Params struct {
	IntervalSteps   []tuning.Step
	RatioMultiplier float64
	Cap             float64
	AccelerateAbove float64
	DecelerateBelow float64
	TrendBonus      map[Trend]float64
}

func DefaultParams() Params {
	return Params{
		IntervalSteps: []tuning.Step{
			{At: 1.5, Points: 10},
			{At: 1.2, Points: 8},
			{At: 1.0, Points: 6},
			{At: 0.8, Points: 4},
			{At: 0.6, Points: 2},
		},
		RatioMultiplier: 5,
		Cap:             10,
		AccelerateAbove: 1.1,
		DecelerateBelow: 0.9,
		TrendBonus:      map[Trend]float64{Accelerating: 2, Consistent: 1, Decelerating: 0},
	}
}

type Interval struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Months   float64 `json:"months"`
	Expected float64 `json:"expected_months"`
	Ratio    float64 `json:"ratio"`
	Score    int     `json:"score"`
}

// Result is either applicable with a score or not applicable with a reason.
// Callers omit a non-applicable result instead of treating it as zero.
type Result struct {
	Applicable           bool       `json:"applicable"`
	Reason               string     `json:"reason,omitempty"`
	Score                float64    `json:"score"`
	Category             Category   `json:"category,omitempty"`
	Trend                Trend      `json:"trend,omitempty"`
	AverageRatio         float64    `json:"average_ratio,omitempty"`
	AverageIntervalScore float64    `json:"average_interval_score,omitempty"`
	Intervals            []Interval `json:"intervals,omitempty"`
}

func notApplicable(reason string) Result {
	return Result{Reason: reason}
}

type Scorer struct {
	benchmarks Benchmarks
	timing     Timing
	params     Params
}

func NewScorer(benchmarks Benchmarks, timing Timing, params Params) *Scorer {
	return &Scorer{benchmarks: benchmarks, timing: timing, params: params}
}

// NewDefaultScorer uses the built-in benchmarks, timing and params.
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultBenchmarks(), DefaultTiming(), DefaultParams())
}

type datedRound struct {
	ordinal int
	date    time.Time
}

func (s *Scorer) Score(p profile.StartupProfile) Result {
	rounds := make([]datedRound, 0, len(p.FundingRounds))
	for _, r := range p.FundingRounds {
		kind := taxonomy.Clean(r.RoundType)
		if word := nonPrimary(kind); word != "" {
			return notApplicable(fmt.Sprintf("%s round is not comparable with primary rounds", word))
		}
		ordinal, ok := roundOrdinal(kind)
		if !ok {
			continue
		}
		date, ok := parseDate(r.Date)
		if !ok {
			continue
		}
		rounds = append(rounds, datedRound{ordinal: ordinal, date: date})
	}

	if len(rounds) < 2 {
		return notApplicable("fewer than two dated primary rounds")
	}

	sort.SliceStable(rounds, func(i, j int) bool { return rounds[i].date.Before(rounds[j].date) })

	category := Classify(p.Sectors, p.Description)
	intervals := make([]Interval, 0, len(rounds)-1)
	for i := 1; i < len(rounds); i++ {
		prev, cur := rounds[i-1], rounds[i]
		if cur.ordinal <= prev.ordinal {
			continue
		}

		months := cur.date.Sub(prev.date).Hours() / 24 / daysPerMonth
		if months < 1 {
			months = 1
		}
		expected := s.benchmarks.Expected(category, prev.ordinal, cur.ordinal) * s.timing.Factor(cur.date.Year())
		ratio := expected / months

		intervals = append(intervals, Interval{
			From:     roundNames[prev.ordinal],
			To:       roundNames[cur.ordinal],
			Months:   months,
			Expected: expected,
			Ratio:    ratio,
			Score:    tuning.Ladder(ratio, s.params.IntervalSteps),
		})
	}

	if len(intervals) == 0 {
		return notApplicable("no comparable round transitions")
	}

	ratios := make([]float64, len(intervals))
	scoreSum := 0
	for i, iv := range intervals {
		ratios[i] = iv.Ratio
		scoreSum += iv.Score
	}

	avgRatio := mean(ratios)
	trend := s.trend(ratios)
	score := math.Min(s.params.RatioMultiplier*avgRatio, s.params.Cap) + s.params.TrendBonus[trend]

	return Result{
		Applicable:           true,
		Score:                math.Min(score, s.params.Cap),
		Category:             category,
		Trend:                trend,
		AverageRatio:         avgRatio,
		AverageIntervalScore: float64(scoreSum) / float64(len(intervals)),
		Intervals:            intervals,
	}
}

// trend compares the mean ratio of the later half of intervals with the
// earlier half. An odd middle interval belongs to the later half.
func (s *Scorer) trend(ratios []float64) Trend {
	if len(ratios) < 2 {
		return Consistent
	}
	half := len(ratios) / 2
	first, second := mean(ratios[:half]), mean(ratios[half:])
	switch {
	case second > first*s.params.AccelerateAbove:
		return Accelerating
	case second < first*s.params.DecelerateBelow:
		return Decelerating
	default:
		return Consistent
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func nonPrimary(kind string) string {
	for _, word := range []string{"bridge", "extension", "convertible"} {
		if strings.Contains(kind, word) {
			return word
		}
	}
	return ""
}

var roundKinds = map[string]int{
	"pre seed": roundPreSeed,
	"preseed":  roundPreSeed,
	"angel":    roundPreSeed,
	"seed":     roundSeed,
	"series a": roundSeriesA,
	"seriesa":  roundSeriesA,
	"a":        roundSeriesA,
	"series b": roundSeriesB,
	"seriesb":  roundSeriesB,
	"b":        roundSeriesB,
	"series c": roundSeriesC,
	"seriesc":  roundSeriesC,
	"c":        roundSeriesC,
	"series d": roundSeriesD,
	"seriesd":  roundSeriesD,
	"series e": roundSeriesD,
	"series f": roundSeriesD,
	"growth":   roundSeriesD,
	"late":     roundSeriesD,
}

func roundOrdinal(kind string) (int, bool) {
	kind = strings.TrimSpace(strings.TrimSuffix(kind, " round"))
	ordinal, ok := roundKinds[kind]
	return ordinal, ok
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-01",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
