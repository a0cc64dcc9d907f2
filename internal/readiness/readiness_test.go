package readiness

import (
	"testing"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/tuning"
)

func TestScore(t *testing.T) {
	t.Parallel()

	cfg := tuning.Legacy().Readiness

	tests := []struct {
		name    string
		metrics profile.Metrics
		expect  int
	}{
		{
			name:    "nothing reported",
			metrics: profile.Metrics{},
			expect:  0,
		},
		{
			name:    "reported without traction",
			metrics: profile.Metrics{NPSScore: 80},
			expect:  -5,
		},
		{
			name: "strong core traction",
			metrics: profile.Metrics{
				HasRevenue: true, MRR: 60000, HasCustomers: true, IsLaunched: true, GrowthRateMonthly: 25,
			},
			expect: 30,
		},
		{
			name:    "small mrr without revenue flag",
			metrics: profile.Metrics{MRR: 500, IsLaunched: true},
			expect:  3,
		},
		{
			name:    "mid mrr tier",
			metrics: profile.Metrics{HasRevenue: true, MRR: 10000},
			expect:  13,
		},
		{
			name:    "growth only",
			metrics: profile.Metrics{GrowthRateMonthly: 6, CustomerGrowthMonthly: 11},
			expect:  4,
		},
		{
			name: "retention and organic pull",
			metrics: profile.Metrics{
				IsLaunched: true, NPSScore: 55, UsersWhoWouldBeVeryDisappointed: 41, NRR: 100, OrganicReferralRate: 16,
			},
			expect: 2 + 4 + 6 + 2 + 3,
		},
		{
			name: "everything maxed clamps to 50",
			metrics: profile.Metrics{
				HasRevenue: true, MRR: 100000, HasCustomers: true, IsLaunched: true,
				GrowthRateMonthly: 30, CustomerGrowthMonthly: 30, NPSScore: 90, UsersWhoWouldBeVeryDisappointed: 60,
				NRR: 140, OrganicReferralRate: 40,
			},
			expect: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.metrics, cfg); got != tt.expect {
				t.Fatalf("expected %d, got %d", tt.expect, got)
			}
		})
	}
}

func TestScoreStaysWithinBounds(t *testing.T) {
	cfg := tuning.Legacy().Readiness
	cfg.NoTraction = -40

	got := Score(profile.Metrics{Provided: true}, cfg)
	if got != cfg.Min {
		t.Fatalf("expected floor %d, got %d", cfg.Min, got)
	}
}

func TestContribution(t *testing.T) {
	cases := map[int]int{30: 15, 0: 0, -5: -2, 25: 13, 50: 25, -10: -5, 1: 1}
	for score, want := range cases {
		if got := Contribution(score); got != want {
			t.Fatalf("Contribution(%d) = %d, want %d", score, got, want)
		}
	}
}

func TestReputation(t *testing.T) {
	steps := tuning.Legacy().Reputation
	cases := map[float64]int{0: 0, 49.9: 0, 50: 2, 65: 4, 70: 6, 95: 8}
	for score, want := range cases {
		if got := Reputation(score, steps); got != want {
			t.Fatalf("Reputation(%v) = %d, want %d", score, got, want)
		}
	}
}

func TestVelocityBonus(t *testing.T) {
	t.Parallel()

	cfg := tuning.Legacy().VelocityBonus

	tests := []struct {
		name    string
		metrics profile.Metrics
		expect  int
	}{
		{name: "base only", metrics: profile.Metrics{}, expect: 5},
		{name: "fast mvp", metrics: profile.Metrics{DaysFromIdeaToMVP: 90}, expect: 8},
		{name: "slow mvp", metrics: profile.Metrics{DaysFromIdeaToMVP: 91}, expect: 5},
		{name: "fast revenue", metrics: profile.Metrics{TimeToFirstRevenueMonths: 4}, expect: 7},
		{name: "daily deploys", metrics: profile.Metrics{DeploymentFrequency: "Daily"}, expect: 7},
		{name: "monthly deploys", metrics: profile.Metrics{DeploymentFrequency: "monthly"}, expect: 5},
		{name: "high growth", metrics: profile.Metrics{GrowthRateMonthly: 15}, expect: 7},
		{name: "fast pivot", metrics: profile.Metrics{PivotSpeedDays: 14}, expect: 6},
		{
			name: "all signals",
			metrics: profile.Metrics{
				DaysFromIdeaToMVP: 30, TimeToFirstRevenueMonths: 2, DeploymentFrequency: "multiple-per-day",
				GrowthRateMonthly: 40, PivotSpeedDays: 7,
			},
			expect: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := VelocityBonus(tt.metrics, cfg); got != tt.expect {
				t.Fatalf("expected %d, got %d", tt.expect, got)
			}
		})
	}
}
