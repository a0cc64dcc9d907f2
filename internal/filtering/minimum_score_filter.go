package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/scoring"
)

var confidenceRank = map[scoring.Confidence]int{
	scoring.Low:    0,
	scoring.Medium: 1,
	scoring.High:   2,
}

type MinimumScoreConfig struct {
	Score int `mapstructure:"score"`
	// Confidence is the lowest accepted confidence, empty for any.
	Confidence scoring.Confidence `mapstructure:"confidence"`
}

type minimumScoreFilter struct {
	cfg    MinimumScoreConfig
	logger *zap.Logger
}

// NewMinimumScore creates a filter that removes matches below a score or confidence floor.
func NewMinimumScore(cfg MinimumScoreConfig, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &minimumScoreFilter{cfg: cfg, logger: logger}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(string) {}

func (f *minimumScoreFilter) IsEnabled() bool { return true }

func (f *minimumScoreFilter) Validate() error {
	if f.cfg.Confidence == "" {
		return nil
	}
	if _, ok := confidenceRank[f.cfg.Confidence]; !ok {
		return fmt.Errorf("unknown confidence %q (expected low, medium or high)", f.cfg.Confidence)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	minRank := confidenceRank[f.cfg.Confidence]

	dropped := m.Keep(func(item *Match) bool {
		return item.Result.Score >= f.cfg.Score && confidenceRank[item.Result.Confidence] >= minRank
	})
	if len(dropped) > 0 {
		f.logger.Debug("excluding matches below the minimum score",
			zap.Int("minimum_score", f.cfg.Score),
			zap.String("minimum_confidence", string(f.cfg.Confidence)),
			zap.Strings("excluded_matches", dropped),
		)
	}

	return m, Step{Initial: initial, Dropped: len(dropped), Left: m.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	details := map[string]string{"score": strconv.Itoa(f.cfg.Score)}
	if f.cfg.Confidence != "" {
		details["confidence"] = string(f.cfg.Confidence)
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
