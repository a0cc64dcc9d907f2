// Package readiness turns a startup's traction metrics into the bounded
// product-market-fit score and the founder-speed bonus.
package readiness

import (
	"strings"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/tuning"
)

// Score sums the traction buckets and clamps the total to [cfg.Min, cfg.Max].
// Unreported metrics score zero. Reported metrics showing no revenue, no
// customers, no launch and zero growth are pinned to cfg.NoTraction.
func Score(m profile.Metrics, cfg tuning.Readiness) int {
	if !m.Reported() {
		return tuning.Clamp(0, cfg.Min, cfg.Max)
	}

	if !m.HasRevenue && !m.HasCustomers && !m.IsLaunched && m.GrowthRateMonthly == 0 {
		return tuning.Clamp(cfg.NoTraction, cfg.Min, cfg.Max)
	}

	total := core(m, cfg) + growth(m, cfg) + retention(m, cfg) + tuning.Ladder(m.OrganicReferralRate, cfg.Referral)

	return tuning.Clamp(total, cfg.Min, cfg.Max)
}

func core(m profile.Metrics, cfg tuning.Readiness) int {
	points := 0
	if m.HasRevenue {
		points += cfg.Revenue
	}
	if mrr := tuning.Ladder(m.MRR, cfg.MRR); mrr > 0 {
		points += mrr
	} else if m.MRR > 0 {
		points += cfg.AnyMRR
	}
	if m.HasCustomers {
		points += cfg.Customers
	}
	if m.IsLaunched {
		points += cfg.Launched
	}
	return points
}

func growth(m profile.Metrics, cfg tuning.Readiness) int {
	return tuning.Ladder(m.GrowthRateMonthly, cfg.Growth) + tuning.Ladder(m.CustomerGrowthMonthly, cfg.CustomerGrowth)
}

func retention(m profile.Metrics, cfg tuning.Readiness) int {
	return tuning.Ladder(m.NPSScore, cfg.NPS) +
		tuning.Ladder(m.UsersWhoWouldBeVeryDisappointed, cfg.Disappointed) +
		tuning.Ladder(m.NRR, cfg.NRR)
}

// Contribution halves a readiness score into its composite share.
func Contribution(score int) int {
	return tuning.RoundHalfUp(float64(score) / 2)
}

// Reputation awards the pedigree bonus from the aggregate god score.
func Reputation(godScore float64, steps []tuning.Step) int {
	return tuning.Ladder(godScore, steps)
}

var frequentDeploys = map[string]bool{
	"continuous":        true,
	"multiple per day":  true,
	"multiple daily":    true,
	"several per day":   true,
	"daily":             true,
	"weekly":            true,
	"multiple per week": true,
}

// VelocityBonus scores founder-speed signals on top of a fixed base. Zero
// values mean the signal was not reported and earn nothing.
func VelocityBonus(m profile.Metrics, cfg tuning.VelocityBonus) int {
	bonus := cfg.Base

	if m.DaysFromIdeaToMVP > 0 && m.DaysFromIdeaToMVP <= cfg.FastMVPDays {
		bonus += cfg.FastMVP
	}
	if m.TimeToFirstRevenueMonths > 0 && m.TimeToFirstRevenueMonths <= cfg.FastRevenueMonths {
		bonus += cfg.FastRevenue
	}
	if FrequentDeployment(m.DeploymentFrequency) {
		bonus += cfg.FrequentDeploys
	}
	if m.GrowthRateMonthly >= cfg.HighGrowthRate {
		bonus += cfg.HighGrowth
	}
	if m.PivotSpeedDays > 0 && m.PivotSpeedDays <= cfg.FastPivotDays {
		bonus += cfg.FastPivot
	}

	return tuning.Clamp(bonus, cfg.Base, cfg.Max)
}

// FrequentDeployment reports whether a deployment cadence counts as frequent.
func FrequentDeployment(cadence string) bool {
	cleaned := strings.Join(strings.Fields(strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(cadence))), " ")
	return frequentDeploys[cleaned]
}
