package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type excludeFileFilter struct {
	path   string
	logger *zap.Logger
}

// NewExcludeFile creates a filter that removes pairs listed in an exclude file.
func NewExcludeFile(path string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &excludeFileFilter{
		path:   path,
		logger: logger,
	}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if f.path == "" {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded, err := LoadExcluded(f.path)
	if err != nil {
		return m, Step{}, fmt.Errorf("getting excluded matches from file: %w", err)
	}

	removed := m.ExcludeKeys(excluded.Keys())
	if len(removed) > 0 {
		f.logger.Info("excluding matches based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_matches", removed),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(removed), Left: m.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
