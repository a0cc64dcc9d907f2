package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

type topPerStartupFilter struct {
	limit  int
	logger *zap.Logger
}

// NewTopPerStartup keeps the best limit matches of every startup. A limit of zero keeps all.
func NewTopPerStartup(limit int, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &topPerStartupFilter{limit: limit, logger: logger}
}

func (f *topPerStartupFilter) Name() string { return "top_per_startup" }

func (f *topPerStartupFilter) Disable(string) {}

func (f *topPerStartupFilter) IsEnabled() bool { return true }

func (f *topPerStartupFilter) Validate() error { return nil }

func (f *topPerStartupFilter) Apply(_ context.Context, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if f.limit <= 0 {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	m.SortByScore()
	seen := make(map[string]int)
	dropped := m.Keep(func(item *Match) bool {
		seen[item.Startup.ID]++
		return seen[item.Startup.ID] <= f.limit
	})
	if len(dropped) > 0 {
		f.logger.Debug("excluding matches beyond the per startup limit",
			zap.Int("limit", f.limit),
			zap.Strings("excluded_matches", dropped),
		)
	}

	return m, Step{Initial: initial, Dropped: len(dropped), Left: m.Len()}, nil
}

func (f *topPerStartupFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{"limit": strconv.Itoa(f.limit)}}
}
