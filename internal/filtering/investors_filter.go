package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type investorsFilter struct {
	investors []string
	logger    *zap.Logger
}

// NewExcludedInvestors creates a filter that removes matches with investors listed in the config.
func NewExcludedInvestors(investors []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &investorsFilter{
		investors: investors,
		logger:    logger,
	}
}

func (f *investorsFilter) Name() string { return "investors" }

func (f *investorsFilter) Disable(string) {}

func (f *investorsFilter) IsEnabled() bool { return true }

func (f *investorsFilter) Validate() error { return nil }

func (f *investorsFilter) Apply(_ context.Context, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if len(f.investors) == 0 {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded := m.Exclude(InvestorIDField, f.investors)
	if len(excluded) > 0 {
		f.logger.Info("excluding matches by investors",
			zap.Strings("excluded_investors", f.investors),
			zap.Strings("excluded_matches", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *investorsFilter) Status() Status {
	details := map[string]string{}
	if len(f.investors) > 0 {
		details["investors"] = strings.Join(f.investors, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
