package filtering

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spigell/fitmatch/internal/ai"
	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/store"
)

const (
	StartupIDField  = "startup_id"
	InvestorIDField = "investor_id"

	ExcludeActorUser = "user"
	ExcludeActorAI   = "ai"
)

// Match is a scored pair travelling through the filter pipeline.
type Match struct {
	Startup     profile.StartupProfile  `json:"startup"`
	Investor    profile.InvestorProfile `json:"investor"`
	Result      scoring.MatchResult     `json:"result"`
	Fingerprint string                  `json:"fingerprint,omitempty"`
	Review      *AIReview               `json:"ai_review,omitempty"`
}

// AIReview is the model opinion attached to a match by the ai_review step.
type AIReview struct {
	Fit    bool    `json:"fit"`
	Score  float64 `json:"score,omitempty"`
	Reason string  `json:"reason,omitempty"`
	Raw    string  `json:"raw,omitempty"`
	Error  string  `json:"error,omitempty"`
}

func newAIReview(r *ai.Review) *AIReview {
	return &AIReview{Fit: r.Fit, Score: r.Score, Reason: r.Reason, Raw: r.Raw}
}

func (m *Match) Key() store.Key {
	return store.Key{StartupID: m.Startup.ID, InvestorID: m.Investor.ID}
}

func (m *Match) GetStringField(name string) string {
	switch name {
	case StartupIDField:
		return m.Startup.ID
	case InvestorIDField:
		return m.Investor.ID
	default:
		return ""
	}
}

type Matches struct {
	Items []*Match `json:"items"`
}

func (m *Matches) Len() int {
	return len(m.Items)
}

// Keep retains the matches accepted by keep and returns the labels of the
// dropped ones.
func (m *Matches) Keep(keep func(*Match) bool) []string {
	kept := m.Items[:0]
	var dropped []string
	for _, item := range m.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		dropped = append(dropped, pairLabel(item.Key()))
	}
	clear(m.Items[len(kept):])
	m.Items = kept
	return dropped
}

// Exclude removes every match whose field equals one of targets.
func (m *Matches) Exclude(name string, targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return m.Keep(func(item *Match) bool {
		_, hit := set[item.GetStringField(name)]
		return !hit
	})
}

// ExcludeKeys removes the listed pairs.
func (m *Matches) ExcludeKeys(keys []store.Key) []string {
	set := make(map[store.Key]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return m.Keep(func(item *Match) bool {
		_, hit := set[item.Key()]
		return !hit
	})
}

// SortByScore orders matches best first, breaking ties by ids.
func (m *Matches) SortByScore() {
	sort.SliceStable(m.Items, func(i, j int) bool {
		a, b := m.Items[i], m.Items[j]
		if a.Result.Score != b.Result.Score {
			return a.Result.Score > b.Result.Score
		}
		if a.Startup.ID != b.Startup.ID {
			return a.Startup.ID < b.Startup.ID
		}
		return a.Investor.ID < b.Investor.ID
	})
}

func (m *Matches) Entries() []store.Entry {
	entries := make([]store.Entry, 0, len(m.Items))
	for _, item := range m.Items {
		entries = append(entries, store.Entry{Result: item.Result, Fingerprint: item.Fingerprint})
	}
	return entries
}

func (m *Matches) ReportByInvestor() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range m.Items {
		key := fmt.Sprintf("%s (%s)", item.Investor.Label(), item.Investor.ID)
		b := item.Result.Breakdown
		entry := map[string]string{
			"startup":    item.Startup.Label(),
			"score":      strconv.Itoa(item.Result.Score),
			"confidence": string(item.Result.Confidence),
			"sector_fit": string(b.SectorFit),
			"stage_fit":  string(b.StageFit),
			"readiness":  strconv.Itoa(b.Readiness),
		}
		if b.Tier != nil {
			entry["tier"] = strconv.Itoa(b.Tier.Tier)
		}
		if item.Review != nil && item.Review.Error == "" {
			entry["ai_score"] = strconv.FormatFloat(item.Review.Score, 'f', 2, 64)
		}
		if b.FundingVelocity != nil {
			entry["funding_velocity"] = strconv.FormatFloat(b.FundingVelocity.Result.Score, 'f', 2, 64)
		}
		report[key] = append(report[key], entry)
	}
	return report
}

func (m *Matches) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (m *Matches) ToExcluded(actor, reason string) *ExcludedMatches {
	excluded := &ExcludedMatches{}
	now := time.Now().UTC()
	for _, item := range m.Items {
		excluded.Items = append(excluded.Items, &ExcludedMatch{
			StartupID:  item.Startup.ID,
			InvestorID: item.Investor.ID,
			Score:      item.Result.Score,
			Actor:      actor,
			Reason:     reason,
			ExcludedAt: now,
		})
	}
	return excluded
}

type ExcludedMatches struct {
	Items []*ExcludedMatch `json:"items"`
}

type ExcludedMatch struct {
	StartupID  string    `json:"startup_id"`
	InvestorID string    `json:"investor_id"`
	Score      int       `json:"score,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// LoadExcluded reads an exclude file. A missing or empty file is an empty list.
func LoadExcluded(path string) (*ExcludedMatches, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedMatches{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return &ExcludedMatches{}, nil
	}

	var excluded ExcludedMatches
	if err := json.Unmarshal(data, &excluded); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &excluded, nil
}

func (e *ExcludedMatches) Append(s *ExcludedMatches) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedMatches) Keys() []store.Key {
	keys := make([]store.Key, 0, len(e.Items))
	for _, item := range e.Items {
		keys = append(keys, store.Key{StartupID: item.StartupID, InvestorID: item.InvestorID})
	}
	return keys
}

func (e *ExcludedMatches) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

func pairLabel(k store.Key) string {
	return k.StartupID + "/" + k.InvestorID
}
