package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/tuning"
)

func legacyEngine(t *testing.T) *scoring.Engine {
	t.Helper()
	e, err := scoring.NewDefault(tuning.ProfileLegacy)
	require.NoError(t, err)
	return e
}

func seedInvestor() profile.InvestorProfile {
	return profile.InvestorProfile{ID: "ref", Sectors: []string{"AI"}, StageFocus: []string{"seed"}}
}

func TestAuditGapsAndVerdicts(t *testing.T) {
	archetypes := []Archetype{
		{Name: "sector-only", Weights: Weights{Sector: 1}, Investor: seedInvestor()},
		{Name: "readiness-only", Weights: Weights{Readiness: 1}, Investor: seedInvestor()},
	}
	auditor, err := NewAuditor(legacyEngine(t), archetypes, 0)
	require.NoError(t, err)

	startup := profile.StartupProfile{ID: "s1", Sectors: []string{"AI"}, Stage: "seed"}
	report := auditor.Audit([]profile.StartupProfile{startup})

	assert.Equal(t, tuning.ProfileLegacy, report.Profile)
	assert.Equal(t, DefaultTolerance, report.Tolerance)
	require.Len(t, report.Rows, 2)

	// exact sector and stage: raw 65 -> 60
	assert.Equal(t, Row{StartupID: "s1", Archetype: "sector-only", Production: 60, Projected: 95, Gap: -35}, report.Rows[0])
	// readiness 0 on [-10, 50] is 1/6 of the way: 10 + 85/6 -> 24
	assert.Equal(t, Row{StartupID: "s1", Archetype: "readiness-only", Production: 60, Projected: 24, Gap: 36}, report.Rows[1])

	require.Len(t, report.Startups, 1)
	assert.InDelta(t, 0.5, report.Startups[0].MeanGap, 1e-9)
	assert.Equal(t, Calibrated, report.Startups[0].Verdict)
	assert.InDelta(t, 0.5, report.MeanGap, 1e-9)
	assert.Equal(t, Calibrated, report.Verdict)
}

func TestAuditVerdictDirection(t *testing.T) {
	startup := profile.StartupProfile{ID: "s1", Sectors: []string{"AI"}, Stage: "seed"}

	inflated, err := NewAuditor(legacyEngine(t), []Archetype{
		{Name: "readiness-only", Weights: Weights{Readiness: 1}, Investor: seedInvestor()},
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, Inflated, inflated.Audit([]profile.StartupProfile{startup}).Verdict)

	deflated, err := NewAuditor(legacyEngine(t), []Archetype{
		{Name: "sector-only", Weights: Weights{Sector: 1}, Investor: seedInvestor()},
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, Deflated, deflated.Audit([]profile.StartupProfile{startup}).Verdict)
}

func TestAuditEmptyStartups(t *testing.T) {
	auditor, err := NewAuditor(legacyEngine(t), DefaultArchetypes(), 0)
	require.NoError(t, err)

	report := auditor.Audit(nil)
	assert.Empty(t, report.Rows)
	assert.Zero(t, report.MeanGap)
	assert.Equal(t, Calibrated, report.Verdict)
}

func TestDefaultArchetypesStayInBounds(t *testing.T) {
	for _, name := range tuning.Names() {
		t.Run(name, func(t *testing.T) {
			e, err := scoring.NewDefault(name)
			require.NoError(t, err)
			auditor, err := NewAuditor(e, DefaultArchetypes(), 0)
			require.NoError(t, err)

			startups := []profile.StartupProfile{
				{ID: "empty"},
				{ID: "ai-seed", Sectors: []string{"AI"}, Stage: "seed"},
				{
					ID:      "growth-saas",
					Sectors: []string{"SaaS"},
					Stage:   "series a",
					Metrics: profile.Metrics{
						HasRevenue: true, MRR: 80000, HasCustomers: true, IsLaunched: true,
						GrowthRateMonthly: 22, NRR: 130, TotalGodScore: 75,
					},
				},
			}
			report := auditor.Audit(startups)

			require.Len(t, report.Rows, len(startups)*len(DefaultArchetypes()))
			p := e.Profile()
			for _, row := range report.Rows {
				assert.GreaterOrEqual(t, row.Projected, p.Bounds.Min, row.Archetype)
				assert.LessOrEqual(t, row.Projected, p.Bounds.Max, row.Archetype)
				assert.Equal(t, row.Production-row.Projected, row.Gap)
			}
			assert.Len(t, report.Startups, len(startups))
		})
	}
}

func TestNewAuditorRejectsBadArchetypes(t *testing.T) {
	e := legacyEngine(t)

	_, err := NewAuditor(e, nil, 0)
	assert.Error(t, err)

	_, err = NewAuditor(e, []Archetype{{Name: "zero"}}, 0)
	assert.ErrorContains(t, err, "zero")

	_, err = NewAuditor(e, []Archetype{{Name: "negative", Weights: Weights{Sector: 1, Stage: -0.5}}}, 0)
	assert.ErrorContains(t, err, "stage weight must not be negative")

	_, err = NewAuditor(nil, DefaultArchetypes(), 0)
	assert.Error(t, err)
}

func TestSubScoresNormalize(t *testing.T) {
	p := tuning.Legacy()
	subs := SubScores(scoring.Breakdown{
		SectorPoints:    18,
		StagePoints:     30,
		Readiness:       50,
		VelocityBonus:   10,
		ReputationBonus: 4,
	}, p)

	assert.InDelta(t, 0.6, subs.Sector, 1e-9)
	assert.InDelta(t, 1.0, subs.Stage, 1e-9)
	assert.InDelta(t, 1.0, subs.Readiness, 1e-9)
	assert.InDelta(t, 0.5, subs.Velocity, 1e-9)
	assert.InDelta(t, 0.5, subs.Reputation, 1e-9)
}
