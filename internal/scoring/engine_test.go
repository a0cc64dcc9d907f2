package scoring

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/stage"
	"github.com/spigell/fitmatch/internal/taxonomy"
	"github.com/spigell/fitmatch/internal/tuning"
)

func newTestEngine(t *testing.T, name string) *Engine {
	t.Helper()
	e, err := NewDefault(name)
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}
	return e
}

func TestScenarios(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, tuning.ProfileLegacy)

	tests := []struct {
		name       string
		startup    profile.StartupProfile
		investor   profile.InvestorProfile
		raw        float64
		score      int
		confidence Confidence
	}{
		{
			name:       "synonym sector and exact stage",
			startup:    profile.StartupProfile{Sectors: []string{"AI"}, Stage: "2"},
			investor:   profile.InvestorProfile{Sectors: []string{"Machine Learning"}, StageFocus: []string{"seed"}},
			raw:        65,
			score:      60,
			confidence: High,
		},
		{
			name:       "next stage",
			startup:    profile.StartupProfile{Sectors: []string{"AI"}, Stage: "2"},
			investor:   profile.InvestorProfile{Sectors: []string{"Machine Learning"}, StageFocus: []string{"series a"}},
			raw:        59,
			score:      54,
			confidence: High,
		},
		{
			name:       "unrelated sector and far stage",
			startup:    profile.StartupProfile{Sectors: []string{"Gaming"}, Stage: "0"},
			investor:   profile.InvestorProfile{Sectors: []string{"Fintech"}, StageFocus: []string{"series c"}},
			raw:        3,
			score:      10,
			confidence: Low,
		},
		{
			name:       "empty pair",
			startup:    profile.StartupProfile{},
			investor:   profile.InvestorProfile{},
			raw:        29,
			score:      21,
			confidence: Medium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := e.Score(tt.startup, tt.investor)
			if got.Breakdown.Raw != tt.raw {
				t.Fatalf("expected raw %v, got %v (%+v)", tt.raw, got.Breakdown.Raw, got.Breakdown)
			}
			if got.Score != tt.score || got.Confidence != tt.confidence {
				t.Fatalf("expected %d/%s, got %d/%s", tt.score, tt.confidence, got.Score, got.Confidence)
			}
			if got.Breakdown.Tier != nil || got.Breakdown.FundingVelocity != nil {
				t.Fatalf("legacy profile must not apply tier or funding velocity: %+v", got.Breakdown)
			}
		})
	}
}

func TestUnrelatedSectorBreakdown(t *testing.T) {
	e := newTestEngine(t, tuning.ProfileLegacy)

	got := e.Score(
		profile.StartupProfile{Sectors: []string{"Gaming"}, Stage: "0"},
		profile.InvestorProfile{Sectors: []string{"Fintech"}, StageFocus: []string{"series c"}},
	)
	b := got.Breakdown
	if b.SectorFit != taxonomy.FitNone || b.SectorPoints != 5 {
		t.Fatalf("unexpected sector %s/%d", b.SectorFit, b.SectorPoints)
	}
	if b.StageFit != stage.Far || b.StagePoints != 3 {
		t.Fatalf("unexpected stage %s/%d", b.StageFit, b.StagePoints)
	}
	if b.Penalties != 10 || b.VelocityBonus != 5 {
		t.Fatalf("unexpected penalties %d or velocity bonus %d", b.Penalties, b.VelocityBonus)
	}
}

func TestReadinessContributionFromRecord(t *testing.T) {
	e := newTestEngine(t, tuning.ProfileLegacy)

	got, err := e.ScoreRecord(map[string]any{
		"sectors": []any{"AI"},
		"stage":   2,
		"metrics": map[string]any{
			"has_revenue":         true,
			"mrr":                 60000,
			"has_customers":       true,
			"is_launched":         true,
			"growth_rate_monthly": 25,
		},
	}, map[string]any{
		"sectors":     []any{"Machine Learning"},
		"stage_focus": []any{"seed"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := got.Breakdown
	if b.Readiness != 30 || b.ReadinessContribution != 15 {
		t.Fatalf("expected readiness 30 contributing 15, got %d/%d", b.Readiness, b.ReadinessContribution)
	}
	// growth of 25%/mo also earns the high growth velocity signal
	if b.VelocityBonus != 7 {
		t.Fatalf("expected velocity bonus 7, got %d", b.VelocityBonus)
	}
	if b.Raw != 30+30+7+15 {
		t.Fatalf("unexpected raw %v", b.Raw)
	}
	if got.Score != 77 {
		t.Fatalf("expected 77, got %d", got.Score)
	}
}

func TestReadinessContributionFromStruct(t *testing.T) {
	e := newTestEngine(t, tuning.ProfileLegacy)

	got := e.Score(profile.StartupProfile{
		Sectors: []string{"AI"},
		Stage:   "2",
		Metrics: profile.Metrics{HasRevenue: true, MRR: 60000, HasCustomers: true, IsLaunched: true, GrowthRateMonthly: 25},
	}, profile.InvestorProfile{
		Sectors:    []string{"Machine Learning"},
		StageFocus: []string{"seed"},
	})

	b := got.Breakdown
	if b.Readiness != 30 || b.ReadinessContribution != 15 {
		t.Fatalf("expected readiness 30 contributing 15, got %d/%d", b.Readiness, b.ReadinessContribution)
	}
	if b.Raw != 82 || got.Score != 77 {
		t.Fatalf("expected raw 82 and score 77, got %v/%d", b.Raw, got.Score)
	}
}

func TestScoreRecordRejectsNonRecords(t *testing.T) {
	e := newTestEngine(t, "")

	_, err := e.ScoreRecord("startup", profile.InvestorProfile{})
	var invalid *profile.InvalidInputError
	if !errors.As(err, &invalid) || invalid.Field != "startup" {
		t.Fatalf("expected invalid startup error, got %v", err)
	}

	_, err = e.ScoreRecord(&profile.StartupProfile{}, []int{1})
	if !errors.As(err, &invalid) || invalid.Field != "investor" {
		t.Fatalf("expected invalid investor error, got %v", err)
	}
}

func TestQualityProfileAppliesTier(t *testing.T) {
	e := newTestEngine(t, tuning.ProfileQuality)

	startup := profile.StartupProfile{Sectors: []string{"AI"}, Stage: "2"}
	elite := profile.InvestorProfile{Sectors: []string{"ai"}, StageFocus: []string{"seed"}, CheckSizeMax: 10_000_000}
	angel := profile.InvestorProfile{Sectors: []string{"ai"}, StageFocus: []string{"seed"}, CheckSizeMax: 50_000}

	eliteResult := e.Score(startup, elite)
	if eliteResult.Breakdown.Tier == nil || eliteResult.Breakdown.Tier.Tier != 1 {
		t.Fatalf("expected tier 1 adjustment, got %+v", eliteResult.Breakdown.Tier)
	}
	if eliteResult.Breakdown.Tier.ShortfallPenalty != 15 || eliteResult.Breakdown.Raw != 50 || eliteResult.Score != 45 {
		t.Fatalf("unexpected elite result %+v", eliteResult)
	}

	angelResult := e.Score(startup, angel)
	if angelResult.Breakdown.Tier.Bonus != 6 || angelResult.Breakdown.Raw != 71 || angelResult.Score != 66 {
		t.Fatalf("unexpected angel result %+v", angelResult)
	}
	if angelResult.Profile != tuning.ProfileQuality || angelResult.ProfileVersion != "2.0.0" {
		t.Fatalf("unexpected profile %s@%s", angelResult.Profile, angelResult.ProfileVersion)
	}
}

func TestTierAdjustedProfileAddsFundingVelocity(t *testing.T) {
	e := newTestEngine(t, tuning.ProfileTierAdjusted)

	investor := profile.InvestorProfile{Sectors: []string{"ai"}, StageFocus: []string{"seed"}, CheckSizeMax: 50_000}
	startup := profile.StartupProfile{
		Sectors: []string{"AI"},
		Stage:   "2",
		FundingRounds: []profile.FundingRound{
			{RoundType: "seed", Date: "2021-01-01"},
			{RoundType: "series a", Date: "2022-07-01"},
		},
	}

	got := e.Score(startup, investor)
	fv := got.Breakdown.FundingVelocity
	if fv == nil || fv.Contribution != 4 {
		t.Fatalf("expected funding velocity contribution 4, got %+v", fv)
	}
	if got.Breakdown.Raw != 75 || got.Score != 70 {
		t.Fatalf("expected raw 75 and score 70, got %v/%d", got.Breakdown.Raw, got.Score)
	}

	startup.FundingRounds = append(startup.FundingRounds, profile.FundingRound{RoundType: "bridge", Date: "2023-01-01"})
	got = e.Score(startup, investor)
	if got.Breakdown.FundingVelocity != nil {
		t.Fatal("not applicable funding velocity must be omitted")
	}
	if got.Breakdown.Raw != 71 {
		t.Fatalf("expected raw 71 without funding velocity, got %v", got.Breakdown.Raw)
	}
}

func TestScoreIsBounded(t *testing.T) {
	sectors := [][]string{nil, {"AI"}, {"Gaming"}, {"pet care"}, {"ai", "fintech", "saas"}}
	stages := []string{"", "0", "2", "6", "later"}
	metrics := []profile.Metrics{
		{},
		{Provided: true},
		{
			HasRevenue: true, MRR: 1e6, HasCustomers: true, IsLaunched: true, GrowthRateMonthly: 50,
			CustomerGrowthMonthly: 50, NPSScore: 90, UsersWhoWouldBeVeryDisappointed: 80, NRR: 200, OrganicReferralRate: 90,
			DaysFromIdeaToMVP: 10, TimeToFirstRevenueMonths: 1, DeploymentFrequency: "continuous", PivotSpeedDays: 3, TotalGodScore: 99,
		},
	}
	investors := []profile.InvestorProfile{
		{},
		{Sectors: []string{"machine learning"}, StageFocus: []string{"seed"}},
		{Sectors: []string{"fintech"}, StageFocus: []string{"series c"}, CheckSizeMax: 50_000_000},
		{Sectors: []string{"pet care"}, StageFocus: []string{"growth"}, Tier: 4},
	}

	for _, name := range tuning.Names() {
		e := newTestEngine(t, name)
		bounds := e.Profile().Bounds
		for _, sec := range sectors {
			for _, st := range stages {
				for _, m := range metrics {
					for _, inv := range investors {
						s := profile.StartupProfile{Sectors: sec, Stage: st, Metrics: m}
						got := e.Score(s, inv)
						if got.Score < bounds.Min || got.Score > bounds.Max {
							t.Fatalf("%s: score %d out of bounds for %+v / %+v", name, got.Score, s, inv)
						}
					}
				}
			}
		}
	}
}

func TestTopOfRangeClamps(t *testing.T) {
	e := newTestEngine(t, tuning.ProfileLegacy)

	got := e.Score(profile.StartupProfile{
		Sectors: []string{"AI"},
		Stage:   "2",
		Metrics: profile.Metrics{
			HasRevenue: true, MRR: 1e6, HasCustomers: true, IsLaunched: true, GrowthRateMonthly: 50,
			CustomerGrowthMonthly: 50, NPSScore: 90, UsersWhoWouldBeVeryDisappointed: 80, NRR: 200, OrganicReferralRate: 90,
			DaysFromIdeaToMVP: 10, TimeToFirstRevenueMonths: 1, DeploymentFrequency: "continuous", PivotSpeedDays: 3, TotalGodScore: 99,
		},
	}, profile.InvestorProfile{Sectors: []string{"ai"}, StageFocus: []string{"2"}})

	if got.Breakdown.Raw != 108 || got.Score != 95 {
		t.Fatalf("expected raw 108 clamped to 95, got %v/%d", got.Breakdown.Raw, got.Score)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	e := newTestEngine(t, tuning.ProfileTierAdjusted)

	s := profile.StartupProfile{
		ID: "s", Sectors: []string{"AI", "Robotics"}, Stage: "seed",
		Metrics: profile.Metrics{HasRevenue: true, MRR: 12000},
		FundingRounds: []profile.FundingRound{
			{RoundType: "pre-seed", Date: "2021-02-01"},
			{RoundType: "seed", Date: "2022-05-01"},
		},
	}
	inv := profile.InvestorProfile{ID: "i", Firm: "Hustle Fund", Sectors: []string{"devtools"}, StageFocus: []string{"pre-seed", "seed"}}

	first := e.Score(s, inv)
	second := e.Score(s, inv)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestConfidenceFor(t *testing.T) {
	t.Parallel()

	sectors := []taxonomy.Fit{taxonomy.FitUnknown, taxonomy.FitExact, taxonomy.FitAdjacent, taxonomy.FitNone}
	stages := []stage.Category{stage.Unknown, stage.Agnostic, stage.Exact, stage.Next, stage.Off1, stage.Off2, stage.Far}

	for _, sec := range sectors {
		for _, st := range stages {
			got := ConfidenceFor(sec, st)
			var want Confidence
			switch {
			case sec == taxonomy.FitExact && (st == stage.Exact || st == stage.Next):
				want = High
			case sec == taxonomy.FitNone || st == stage.Far:
				want = Low
			default:
				want = Medium
			}
			if got != want {
				t.Fatalf("ConfidenceFor(%s, %s) = %s, want %s", sec, st, got, want)
			}
		}
	}
}

func TestRescale(t *testing.T) {
	p := tuning.Legacy()

	cases := map[float64]int{
		-50: 10, 3: 10, 15: 10, 29: 21, 30: 21, 31: 26, 59: 54, 60: 55, 65: 60, 80: 75, 81: 76, 100: 90, 200: 95,
	}
	for raw, want := range cases {
		if got := Rescale(raw, p.Rescale, p.Bounds); got != want {
			t.Fatalf("Rescale(%v) = %d, want %d", raw, got, want)
		}
	}
}

func TestNewRejectsInvalidProfile(t *testing.T) {
	p := tuning.Legacy()
	p.Bounds = tuning.Bounds{Min: 50, Max: 50}
	if _, err := New(p, Components{}); err == nil {
		t.Fatal("expected invalid profile error")
	}
	if _, err := NewDefault("v0"); err == nil {
		t.Fatal("expected unknown profile error")
	}
}
