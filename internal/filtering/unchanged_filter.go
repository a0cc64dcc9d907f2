package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/store"
)

const forceFlagSetMsg = "force flag is set"

// FingerprintSource returns the stored input fingerprint of every pair.
type FingerprintSource interface {
	Fingerprints(ctx context.Context) (map[store.Key]string, error)
}

type UnchangedDeps struct {
	Store  FingerprintSource
	Logger *zap.Logger
}

type UnchangedConfig struct {
	// Force keeps pairs even when their stored fingerprint is unchanged.
	Force bool
}

type unchangedFilter struct {
	deps  *UnchangedDeps
	force bool
}

// NewUnchanged creates a filter that removes pairs already stored with the same inputs.
func NewUnchanged(cfg *UnchangedConfig, deps *UnchangedDeps) Filter {
	force := false
	if cfg != nil {
		force = cfg.Force
	}

	return &unchangedFilter{
		deps:  deps,
		force: force,
	}
}

func (f *unchangedFilter) Name() string { return "unchanged" }

func (f *unchangedFilter) Disable(string) {}

func (f *unchangedFilter) IsEnabled() bool { return true }

func (f *unchangedFilter) Validate() error {
	if f.deps == nil || f.deps.Store == nil {
		return fmt.Errorf("result store is required")
	}

	if f.deps.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	return nil
}

func (f *unchangedFilter) Apply(ctx context.Context, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if f.force {
		f.deps.Logger.Info("keeping already stored matches", zap.String("reason", forceFlagSetMsg))
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	stored, err := f.deps.Store.Fingerprints(ctx)
	if err != nil {
		return m, Step{}, fmt.Errorf("get stored fingerprints: %w", err)
	}

	excluded := m.Keep(func(item *Match) bool {
		fp, ok := stored[item.Key()]
		return !ok || item.Fingerprint == "" || fp != item.Fingerprint
	})
	if len(excluded) > 0 {
		f.deps.Logger.Info("excluding matches whose inputs did not change since the last run",
			zap.Strings("excluded_matches", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *unchangedFilter) Status() Status {
	details := map[string]string{
		"exclude_unchanged": strconv.FormatBool(!f.force),
	}
	reason := ""
	if f.force {
		reason = "skip requested via flag"
	}
	return Status{Name: f.Name(), Enabled: true, Reason: reason, Details: details}
}
