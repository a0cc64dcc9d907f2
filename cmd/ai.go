package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/ai"
	"github.com/spigell/fitmatch/internal/ai/gemini"
	"github.com/spigell/fitmatch/internal/filtering"
	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/secrets"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

func aiEnabled(cfg *AIConfig) bool {
	if cfg == nil {
		return false
	}
	return (cfg.Enrich != nil && cfg.Enrich.Enabled) || (cfg.Review != nil && cfg.Review.Enabled)
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
}

// enrichStartups fills missing sectors and stage before scoring.
func enrichStartups(ctx context.Context, generator *gemini.Generator, engine *scoring.Engine, cfg *AIConfig, startups *[]profile.StartupProfile, logger *zap.Logger) error {
	extractor := gemini.NewExtractor(generator, engine.Normalizer(), engine.Stages(), cfg.Gemini.MaxLogLength, logger)

	count, err := ai.Enrich(ctx, logger, extractor, *startups, ai.EnrichOptions{MinConfidence: cfg.Enrich.MinConfidence})
	if err != nil {
		return err
	}

	logger.Info("startup profiles enriched", zap.Int("count", count))
	return nil
}

func prepareAIReviewFilter(generator *gemini.Generator, cfg *AIConfig, excludeFile string, logger *zap.Logger) filtering.Filter {
	if cfg == nil || cfg.Review == nil || !cfg.Review.Enabled {
		return filtering.NewAIReview(&filtering.AIReviewConfig{Enabled: false}, nil)
	}

	minScore := cfg.Review.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	filterConfig := &filtering.AIReviewConfig{Enabled: true, MinimumScore: minScore}
	maxLogLength := 0
	if cfg.Gemini != nil {
		filterConfig.Gemini = &filtering.AIGeminiConfig{
			Model:        cfg.Gemini.Model,
			MaxRetries:   cfg.Gemini.MaxRetries,
			MaxLogLength: cfg.Gemini.MaxLogLength,
		}
		maxLogLength = cfg.Gemini.MaxLogLength
	}

	deps := &filtering.AIReviewDeps{Logger: logger, ExcludeFile: excludeFile}
	if generator != nil {
		reviewer := gemini.NewReviewer(generator, minScore, maxLogLength, logger.With(
			zap.Float64("minimum_fit_score", minScore),
		))
		reviewer.SetPromptOverrides(gemini.PromptOverrides{
			ExtraCriteria:    cfg.Review.ExtraCriteria,
			DealBreakers:     cfg.Review.DealBreakers,
			UserInstructions: cfg.Review.UserInstructions,
		})
		deps.Reviewer = reviewer
	}

	return filtering.NewAIReview(filterConfig, deps)
}
