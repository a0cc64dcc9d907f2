package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/ai"
	"github.com/spigell/fitmatch/internal/logger"
	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/utils"
)

//go:embed review_prompt.md
var reviewTemplate string

// Reviewer asks the model for a second opinion on a scored pair.
type Reviewer struct {
	generator contentGenerator
	minScore  float64
	maxLogLen int
	overrides PromptOverrides
	logger    *zap.Logger
}

func NewReviewer(generator contentGenerator, minScore float64, maxLogLength int, log *zap.Logger) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Reviewer{
		generator: generator,
		minScore:  minScore,
		maxLogLen: maxLogLength,
		logger:    logger.WithFields(log),
	}
}

func (r *Reviewer) SetPromptOverrides(o PromptOverrides) {
	r.overrides = o
}

func (r *Reviewer) systemPrompt() string {
	template := reviewTemplate
	if strings.TrimSpace(template) == "" {
		template = "Judge the startup and investor fit.\n- User instructions:\n{{USER_INSTRUCTIONS}}\nReply with JSON {\"fit\": bool, \"score\": number, \"reason\": string}."
	}
	return render(template, map[string]string{
		"EXTRA_CRITERIA":    singleLineOr(r.overrides.ExtraCriteria, "none"),
		"DEAL_BREAKERS":     singleLineOr(r.overrides.DealBreakers, "none"),
		"USER_INSTRUCTIONS": instructionBlock(r.overrides.UserInstructions),
	})
}

func (r *Reviewer) Review(ctx context.Context, s profile.StartupProfile, inv profile.InvestorProfile, res scoring.MatchResult) (*ai.Review, error) {
	payload, err := json.MarshalIndent(map[string]any{
		"startup":  s,
		"investor": inv,
		"result":   res,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal review payload: %w", err)
	}
	message := "[Inputs]\n" + string(payload)

	log := logger.WithPair(r.logger, s.ID, inv.ID)
	log.Debug("gemini review request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, r.systemPrompt(), message)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini review response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	review := &ai.Review{
		Fit:    coerceBool(data["fit"]),
		Score:  coerceUnit(data["score"]),
		Reason: coerceString(data["reason"]),
		Raw:    raw,
	}

	if r.minScore > 0 && review.Fit && review.Score < r.minScore {
		log.Debug("set fit to false by score threshold",
			zap.Float64("score", review.Score),
			zap.Float64("threshold", r.minScore),
		)
		review.Fit = false
	}

	return review, nil
}
