package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/logger"
	"github.com/spigell/fitmatch/internal/profile"
)

type EnrichOptions struct {
	// MinConfidence drops extractions the model is less sure about.
	MinConfidence float64
}

// Enrich fills empty sectors and stage of startups that carry a description.
// Fields already set are never overwritten. Extraction failures are logged
// and skipped; only a done ctx aborts the run.
func Enrich(ctx context.Context, log *zap.Logger, extractor Extractor, startups []profile.StartupProfile, opts EnrichOptions) (int, error) {
	log = logger.WithFields(log)

	enriched := 0
	for i := range startups {
		s := &startups[i]
		if !needsEnrichment(*s) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return enriched, err
		}

		fields := logger.PairFields(s.ID, "")

		extraction, err := extractor.Extract(ctx, *s)
		if err != nil {
			if ctx.Err() != nil {
				return enriched, ctx.Err()
			}
			log.Warn("profile extraction failed", append(fields, zap.Error(err))...)
			continue
		}

		if extraction.Confidence < opts.MinConfidence {
			log.Info("profile extraction below confidence threshold",
				append(fields,
					zap.Float64("confidence", extraction.Confidence),
					zap.Float64("threshold", opts.MinConfidence),
				)...,
			)
			continue
		}

		changed := false
		if len(s.Sectors) == 0 && len(extraction.Sectors) > 0 {
			s.Sectors = append([]string(nil), extraction.Sectors...)
			changed = true
		}
		if strings.TrimSpace(s.Stage) == "" && extraction.Stage != "" {
			s.Stage = extraction.Stage
			changed = true
		}

		if changed {
			enriched++
			log.Info("profile enriched",
				append(fields,
					zap.Strings("sectors", s.Sectors),
					zap.String("stage", s.Stage),
					zap.Float64("confidence", extraction.Confidence),
				)...,
			)
		}
	}

	return enriched, nil
}

func needsEnrichment(s profile.StartupProfile) bool {
	if strings.TrimSpace(s.Description) == "" {
		return false
	}
	return len(s.Sectors) == 0 || strings.TrimSpace(s.Stage) == ""
}
