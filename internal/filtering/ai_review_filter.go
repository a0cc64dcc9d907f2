package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/ai"
	"github.com/spigell/fitmatch/internal/logger"
)

type AIReviewDeps struct {
	Logger      *zap.Logger
	Reviewer    ai.Reviewer
	ExcludeFile string
}

type AIReviewConfig struct {
	Enabled      bool
	MinimumScore float64
	Gemini       *AIGeminiConfig
}

// AIGeminiConfig stores Gemini provider configuration.
type AIGeminiConfig struct {
	Model        string
	MaxRetries   int
	MaxLogLength int
}

type aiReviewFilter struct {
	enabled bool
	reason  string
	config  *AIReviewConfig
	deps    *AIReviewDeps
}

// NewAIReview creates the step that asks a model to confirm each match.
func NewAIReview(cfg *AIReviewConfig, deps *AIReviewDeps) Filter {
	if cfg == nil {
		cfg = &AIReviewConfig{}
	}
	return &aiReviewFilter{
		enabled: cfg.Enabled,
		config:  cfg,
		deps:    deps,
	}
}

func (f *aiReviewFilter) Name() string { return "ai_review" }

func (f *aiReviewFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *aiReviewFilter) IsEnabled() bool { return f.enabled }

func (f *aiReviewFilter) Validate() error {
	if f.deps == nil || f.deps.Reviewer == nil {
		return fmt.Errorf("reviewer is not initialized: filter is not usable")
	}
	if f.deps.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if f.config.Gemini == nil {
		return fmt.Errorf("gemini configuration is required when ai review is enabled")
	}
	if strings.TrimSpace(f.config.Gemini.Model) == "" {
		return fmt.Errorf("gemini model is required when ai review is enabled")
	}
	return nil
}

func (f *aiReviewFilter) Apply(ctx context.Context, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	approved := make([]*Match, 0, initial)
	var rejected []*Match

	for _, item := range m.Items {
		if err := ctx.Err(); err != nil {
			return m, Step{}, err
		}

		log := logger.WithPair(f.deps.Logger, item.Startup.ID, item.Investor.ID)

		review, err := f.deps.Reviewer.Review(ctx, item.Startup, item.Investor, item.Result)
		if err != nil {
			// A failed review keeps the match; the deterministic score stands.
			log.Warn("AI review failed", zap.Error(err))
			item.Review = &AIReview{Error: err.Error()}
			approved = append(approved, item)
			continue
		}

		item.Review = newAIReview(review)
		if !review.Fit {
			log.Info("match rejected by AI reviewer",
				zap.Float64("ai_score", review.Score),
				zap.String("reason", review.Reason),
			)
			rejected = append(rejected, item)
			continue
		}

		log.Info("match approved by AI reviewer", zap.Float64("ai_score", review.Score))
		approved = append(approved, item)
	}

	m.Items = approved

	if err := f.appendToExcludeFile(rejected); err != nil {
		f.deps.Logger.Warn("failed to append rejected matches to exclude file", zap.Error(err))
	}

	f.deps.Logger.Info("AI review completed",
		zap.Int("initial_matches", initial),
		zap.Int("approved_matches", len(approved)),
	)

	return m, Step{Initial: initial, Dropped: initial - m.Len(), Left: m.Len()}, nil
}

func (f *aiReviewFilter) appendToExcludeFile(rejected []*Match) error {
	path := strings.TrimSpace(f.deps.ExcludeFile)
	if path == "" || len(rejected) == 0 {
		return nil
	}

	excluded, err := LoadExcluded(path)
	if err != nil {
		return fmt.Errorf("load excluded matches: %w", err)
	}

	for _, item := range rejected {
		excluded.Append((&Matches{Items: []*Match{item}}).ToExcluded(ExcludeActorAI, item.Review.Reason))
	}

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write excluded matches: %w", err)
	}

	f.deps.Logger.Info("rejected matches appended to exclude file",
		zap.Int("count", len(rejected)),
		zap.String("exclude_file", path),
	)
	return nil
}

func (f *aiReviewFilter) Status() Status {
	details := map[string]string{}
	if f.config.MinimumScore > 0 {
		details["minimum_score"] = strconv.FormatFloat(f.config.MinimumScore, 'f', 2, 64)
	}
	if f.config.Gemini != nil && f.config.Gemini.Model != "" {
		details["model"] = f.config.Gemini.Model
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
