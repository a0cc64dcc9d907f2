package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/fitmatch/internal/ai"
	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/store"
)

func newMatch(startupID, investorID string, score int, confidence scoring.Confidence) *Match {
	return &Match{
		Startup:     profile.StartupProfile{ID: startupID, Name: "Startup " + startupID},
		Investor:    profile.InvestorProfile{ID: investorID, Name: "Investor " + investorID},
		Result:      scoring.MatchResult{StartupID: startupID, InvestorID: investorID, Score: score, Confidence: confidence},
		Fingerprint: "fp-" + startupID + investorID,
	}
}

func sampleMatches() *Matches {
	return &Matches{Items: []*Match{
		newMatch("s1", "i1", 80, scoring.High),
		newMatch("s1", "i2", 40, scoring.Medium),
		newMatch("s2", "i1", 65, scoring.Low),
		newMatch("s2", "i3", 20, scoring.High),
	}}
}

func keys(m *Matches) []string {
	out := make([]string, 0, m.Len())
	for _, item := range m.Items {
		out = append(out, pairLabel(item.Key()))
	}
	return out
}

func TestRunFiltersAppliesStepsInOrder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := New([]Filter{
		NewExcludedInvestors([]string{"i3"}, nil),
		NewMinimumScore(MinimumScoreConfig{Score: 50}, nil),
	}, zap.New(core))

	got, err := f.RunFilters(context.Background(), sampleMatches())
	require.NoError(t, err)
	assert.Equal(t, []string{"s1/i1", "s2/i1"}, keys(got))

	steps := logs.FilterMessage("filter step").All()
	require.Len(t, steps, 2)
	assert.Equal(t, "investors", steps[0].ContextMap()["name"])
	assert.EqualValues(t, 1, steps[0].ContextMap()["dropped"])
	assert.EqualValues(t, 1, steps[1].ContextMap()["dropped"])
}

func TestRunFiltersValidatesBeforeApplying(t *testing.T) {
	investors := NewExcludedInvestors([]string{"i1"}, nil)
	f := New([]Filter{
		investors,
		NewMinimumScore(MinimumScoreConfig{Confidence: "certain"}, nil),
	}, zaptest.NewLogger(t))

	m := sampleMatches()
	_, err := f.RunFilters(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum_score")
	assert.Equal(t, 4, m.Len(), "no step may run when validation fails")
}

func TestDisabledFilterIsSkipped(t *testing.T) {
	review := NewAIReview(&AIReviewConfig{Enabled: true}, nil)
	f := New([]Filter{review}, zaptest.NewLogger(t))
	f.DisableByName("ai_review", "no api key")

	got, err := f.RunFilters(context.Background(), sampleMatches())
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())

	statuses := f.Describe()
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Enabled)
	assert.Equal(t, "no api key", statuses[0].Reason)
}

func TestMinimumScoreWithConfidence(t *testing.T) {
	m := sampleMatches()
	_, step, err := NewMinimumScore(MinimumScoreConfig{Score: 30, Confidence: scoring.Medium}, nil).Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1/i1", "s1/i2"}, keys(m))
	assert.Equal(t, Step{Initial: 4, Dropped: 2, Left: 2}, step)
}

func TestTopPerStartup(t *testing.T) {
	m := sampleMatches()
	_, step, err := NewTopPerStartup(1, nil).Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1/i1", "s2/i1"}, keys(m))
	assert.Equal(t, 2, step.Dropped)

	all := sampleMatches()
	_, step, err = NewTopPerStartup(0, nil).Apply(context.Background(), all)
	require.NoError(t, err)
	assert.Equal(t, 0, step.Dropped)
}

func TestExcludeFileFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")

	// A missing file excludes nothing.
	m := sampleMatches()
	_, step, err := NewExcludeFile(path, nil).Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 0, step.Dropped)

	excluded := (&Matches{Items: []*Match{newMatch("s2", "i1", 65, scoring.Low)}}).ToExcluded(ExcludeActorUser, "met already")
	require.NoError(t, excluded.ToFile(path))

	loaded, err := LoadExcluded(path)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "met already", loaded.Items[0].Reason)

	m = sampleMatches()
	_, step, err = NewExcludeFile(path, nil).Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Dropped)
	assert.NotContains(t, keys(m), "s2/i1")
}

type fingerprintStub struct {
	stored map[store.Key]string
	err    error
}

func (s fingerprintStub) Fingerprints(context.Context) (map[store.Key]string, error) {
	return s.stored, s.err
}

func TestUnchangedFilter(t *testing.T) {
	src := fingerprintStub{stored: map[store.Key]string{
		{StartupID: "s1", InvestorID: "i1"}: "fp-s1i1",
		{StartupID: "s1", InvestorID: "i2"}: "stale",
	}}
	deps := &UnchangedDeps{Store: src, Logger: zaptest.NewLogger(t)}

	m := sampleMatches()
	_, step, err := NewUnchanged(&UnchangedConfig{}, deps).Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Dropped)
	assert.NotContains(t, keys(m), "s1/i1")

	forced := sampleMatches()
	_, step, err = NewUnchanged(&UnchangedConfig{Force: true}, deps).Apply(context.Background(), forced)
	require.NoError(t, err)
	assert.Equal(t, 0, step.Dropped)

	assert.Error(t, NewUnchanged(nil, &UnchangedDeps{Logger: zap.NewNop()}).Validate())

	_, _, err = NewUnchanged(nil, &UnchangedDeps{Store: fingerprintStub{err: errors.New("db down")}, Logger: zap.NewNop()}).
		Apply(context.Background(), sampleMatches())
	assert.ErrorContains(t, err, "db down")
}

type reviewerStub struct {
	reviews map[string]*ai.Review
}

func (r reviewerStub) Review(_ context.Context, s profile.StartupProfile, inv profile.InvestorProfile, _ scoring.MatchResult) (*ai.Review, error) {
	review, ok := r.reviews[s.ID+"/"+inv.ID]
	if !ok {
		return nil, errors.New("quota exhausted")
	}
	return review, nil
}

func TestAIReviewFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	reviewer := reviewerStub{reviews: map[string]*ai.Review{
		"s1/i1": {Fit: true, Score: 0.9, Reason: "thesis match"},
		"s1/i2": {Fit: false, Score: 0.2, Reason: "wrong geography"},
		"s2/i1": {Fit: true, Score: 0.7},
	}}

	filter := NewAIReview(
		&AIReviewConfig{Enabled: true, Gemini: &AIGeminiConfig{Model: "gemini-2.5-flash"}},
		&AIReviewDeps{Reviewer: reviewer, Logger: zaptest.NewLogger(t), ExcludeFile: path},
	)
	require.NoError(t, filter.Validate())

	m := sampleMatches()
	_, step, err := filter.Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, Step{Initial: 4, Dropped: 1, Left: 3}, step)
	assert.Equal(t, []string{"s1/i1", "s2/i1", "s2/i3"}, keys(m))

	// The failed review keeps the match with the error recorded.
	assert.Equal(t, "quota exhausted", m.Items[2].Review.Error)
	assert.InDelta(t, 0.9, m.Items[0].Review.Score, 1e-9)

	excluded, err := LoadExcluded(path)
	require.NoError(t, err)
	require.Len(t, excluded.Items, 1)
	assert.Equal(t, ExcludeActorAI, excluded.Items[0].Actor)
	assert.Equal(t, "wrong geography", excluded.Items[0].Reason)
	assert.Equal(t, "i2", excluded.Items[0].InvestorID)
}

func TestAIReviewValidate(t *testing.T) {
	assert.Error(t, NewAIReview(&AIReviewConfig{Enabled: true}, nil).Validate())
	assert.Error(t, NewAIReview(
		&AIReviewConfig{Enabled: true, Gemini: &AIGeminiConfig{}},
		&AIReviewDeps{Reviewer: reviewerStub{}, Logger: zap.NewNop()},
	).Validate())
}

func TestMatchesReportAndEntries(t *testing.T) {
	m := sampleMatches()
	m.SortByScore()
	assert.Equal(t, []string{"s1/i1", "s2/i1", "s1/i2", "s2/i3"}, keys(m))

	report := m.ReportByInvestor()
	assert.Len(t, report["Investor i1 (i1)"], 2)
	assert.Equal(t, "80", report["Investor i1 (i1)"][0]["score"])

	entries := m.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "fp-s1i1", entries[0].Fingerprint)

	dropped := m.Exclude(StartupIDField, []string{"s2"})
	assert.ElementsMatch(t, []string{"s2/i1", "s2/i3"}, dropped)
}
