package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/ai/gemini"
	"github.com/spigell/fitmatch/internal/filtering"
	"github.com/spigell/fitmatch/internal/logger"
	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/store"
)

const (
	PromptSave              = "Save results to the store"
	PromptExit              = "Exit"
	PromptBack              = "back"
	PromptReportByInvestors = "Report by investors"
	PromptManualExclude     = "Exclude matches in manual mode"
	PromptAppendAll         = "Append all matches to exclude file"
	PromptMatchesToFile     = "Dump matches to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptSave, PromptExit, PromptReportByInvestors, PromptManualExclude, PromptMatchesToFile},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score every startup against every investor, filter the matches and store them",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("startups", "s", "", "file with startup profiles (YAML or JSON)")
	matchCmd.Flags().StringP("investors", "i", "", "file with investor profiles, defaults to the startups file")
	matchCmd.Flags().BoolP("force", "f", false, "keep matches whose inputs did not change since the last stored run")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation and save the matches")
	matchCmd.Flags().StringP("exclude-file", "e", "", "special file with matches to exclude. Default is unset.")

	viper.BindPFlag("startups", matchCmd.Flags().Lookup("startups"))
	viper.BindPFlag("investors", matchCmd.Flags().Lookup("investors"))
	viper.BindPFlag("exclude-file", matchCmd.Flags().Lookup("exclude-file"))
}

func match(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the fitmatch", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redactedConfig(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	startups, investors, err := loadProfiles(config)
	if err != nil {
		logger.Fatal("loading profiles", zap.Error(err))
	}

	logger.Info("profiles loaded",
		zap.Int("startups", len(startups)),
		zap.Int("investors", len(investors)),
	)

	if len(startups) == 0 || len(investors) == 0 {
		logger.Info("exiting", zap.String("reason", "nothing to match"))
		return
	}

	engine, err := newEngine(config.Profile)
	if err != nil {
		logger.Fatal("building the scoring engine", zap.Error(err))
	}

	logger = withProfile(logger, engine.Profile())

	results, err := store.Open(ctx, config.Store, logger)
	if err != nil {
		logger.Fatal("opening the result store", zap.Error(err))
	}
	defer results.Close()

	var generator *gemini.Generator
	if aiEnabled(config.AI) {
		generator, err = newGenerator(ctx, config.AI, logger)
		if err != nil {
			logger.Warn("AI helpers are disabled", zap.Error(err))
		}
	}

	if generator != nil && config.AI.Enrich != nil && config.AI.Enrich.Enabled {
		if err := enrichStartups(ctx, generator, engine, config.AI, &startups, logger); err != nil {
			logger.Fatal("enriching startup profiles", zap.Error(err))
		}
	}

	matches, err := scoreAll(ctx, engine, startups, investors, config.Match)
	if err != nil {
		logger.Fatal("scoring", zap.Error(err))
	}

	logger.Info("pairs scored", zap.Int("count", matches.Len()))

	filters := prepareFilters(cmd, config, results, generator, logger)

	filtered, err := filters.RunFilters(ctx, matches)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	matches = filtered
	matches.SortByScore()

	if matches.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no matches left after filters"))
		return
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	action := PromptSave
	for {
		if !autoApprove {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of matches", zap.Int("count", matches.Len()))

		if err := handleAction(ctx, action, results, logger, config, matches); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if autoApprove {
			return
		}
	}
}

func loadProfiles(config *Config) ([]profile.StartupProfile, []profile.InvestorProfile, error) {
	if config.Startups == "" {
		return nil, nil, errors.New("startups file is required (--startups or the 'startups' key)")
	}

	startups, err := profile.LoadFile(config.Startups)
	if err != nil {
		return nil, nil, err
	}

	if config.Investors == "" || config.Investors == config.Startups {
		return startups.Startups, startups.Investors, nil
	}

	investors, err := profile.LoadFile(config.Investors)
	if err != nil {
		return nil, nil, err
	}

	return startups.Startups, investors.Investors, nil
}

func scoreAll(ctx context.Context, engine *scoring.Engine, startups []profile.StartupProfile, investors []profile.InvestorProfile, cfg *MatchConfig) (*filtering.Matches, error) {
	opts := scoring.BatchOptions{}
	if cfg != nil {
		opts.Workers = cfg.Workers
		opts.ChunkSize = cfg.ChunkSize
	}

	p := engine.Profile()
	matches := &filtering.Matches{Items: make([]*filtering.Match, 0, len(startups)*len(investors))}
	err := engine.Batch(ctx, startups, investors, opts, func(pairs []scoring.Pair) error {
		for _, pair := range pairs {
			s, inv := startups[pair.StartupIndex], investors[pair.InvestorIndex]
			matches.Items = append(matches.Items, &filtering.Match{
				Startup:     s,
				Investor:    inv,
				Result:      pair.Result,
				Fingerprint: store.Fingerprint(p, s, inv),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return matches, nil
}

func prepareFilters(cmd *cobra.Command, config *Config, results *store.Store, generator *gemini.Generator, logger *zap.Logger) *filtering.Filtering {
	mc := config.Match
	if mc == nil {
		mc = &MatchConfig{}
	}

	var excludedInvestors []string
	if mc.Exclude != nil {
		excludedInvestors = mc.Exclude.Investors
	}

	force := false
	if cmd != nil {
		if flag := cmd.Flag("force"); flag != nil && strings.EqualFold(flag.Value.String(), "true") {
			force = true
		}
	}

	aiReview := prepareAIReviewFilter(generator, config.AI, config.ExcludeFile, logger)

	steps := []filtering.Filter{
		filtering.NewExcludedInvestors(excludedInvestors, logger),
		filtering.NewExcludeFile(config.ExcludeFile, logger),
		filtering.NewMinimumScore(filtering.MinimumScoreConfig{
			Score:      mc.MinimumScore,
			Confidence: scoring.Confidence(strings.ToLower(mc.MinimumConfidence)),
		}, logger),
		filtering.NewUnchanged(&filtering.UnchangedConfig{Force: force}, &filtering.UnchangedDeps{
			Store:  results,
			Logger: logger,
		}),
		filtering.NewTopPerStartup(mc.TopPerStartup, logger),
		aiReview,
	}

	f := filtering.New(steps, logger)
	if aiReview.IsEnabled() && generator == nil {
		f.DisableByName(aiReview.Name(), "gemini client is not available")
	}

	for _, status := range f.Describe() {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return f
}

func handleAction(ctx context.Context, action string, results *store.Store, logger *zap.Logger, config *Config, matches *filtering.Matches) error {
	switch action {
	case PromptSave:
		if err := results.Upsert(ctx, matches.Entries()); err != nil {
			return fmt.Errorf("save matches: %w", err)
		}
		logger.Info("matches saved", zap.Int("count", matches.Len()))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptManualExclude:
		return manualExclude(logger, config.ExcludeFile, matches)
	case PromptReportByInvestors:
		pretty, _ := json.MarshalIndent(matches.ReportByInvestor(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", matches.Len()))
		return nil
	case PromptMatchesToFile:
		filename, err := matches.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

type excludeChoice int

const (
	choiceMatch excludeChoice = iota
	choiceAppendAll
	choiceBack
)

// excludeItems lists the prompt entries: one per match in order, then the
// optional append-all entry, then back.
func excludeItems(matches *filtering.Matches, withAppendAll bool) []string {
	items := make([]string, 0, matches.Len()+2)
	for _, m := range matches.Items {
		items = append(items, fmt.Sprintf("%d %s / %s (%s / %s)",
			m.Result.Score, m.Startup.Label(), m.Investor.Label(), m.Startup.ID, m.Investor.ID,
		))
	}
	if withAppendAll {
		items = append(items, PromptAppendAll)
	}
	return append(items, PromptBack)
}

// resolveExcludeChoice maps a prompt index back to what it stands for.
func resolveExcludeChoice(idx int, matches *filtering.Matches, withAppendAll bool) (excludeChoice, *filtering.Match) {
	switch {
	case idx >= 0 && idx < matches.Len():
		return choiceMatch, matches.Items[idx]
	case withAppendAll && idx == matches.Len():
		return choiceAppendAll, nil
	default:
		return choiceBack, nil
	}
}

// removeMatch drops target from matches and returns it as a single-item list.
func removeMatch(matches *filtering.Matches, target *filtering.Match) *filtering.Matches {
	picked := &filtering.Matches{}
	matches.Keep(func(m *filtering.Match) bool {
		if m == target {
			picked.Items = append(picked.Items, m)
			return false
		}
		return true
	})
	return picked
}

func manualExclude(log *zap.Logger, excludeFile string, matches *filtering.Matches) error {
	for {
		withAppendAll := excludeFile != "" && matches.Len() != 0

		matchPrompt := promptui.Select{
			Label: "Choose a match to exclude and press ENTER",
			Items: excludeItems(matches, withAppendAll),
		}

		idx, _, err := matchPrompt.Run()
		if err != nil {
			return err
		}

		choice, target := resolveExcludeChoice(idx, matches, withAppendAll)
		switch choice {
		case choiceBack:
			return nil
		case choiceAppendAll:
			if err := appendExcluded(excludeFile, matches.ToExcluded(filtering.ExcludeActorUser, "")); err != nil {
				return err
			}
			log.Info("appended to exclude file", zap.String("filename", excludeFile))
			matches.Items = nil
		case choiceMatch:
			picked := removeMatch(matches, target)
			if excludeFile != "" {
				if err := appendExcluded(excludeFile, picked.ToExcluded(filtering.ExcludeActorUser, "")); err != nil {
					return err
				}
			}
			logger.WithPair(log, target.Startup.ID, target.Investor.ID).Info("match excluded")
		}
	}
}

func appendExcluded(path string, toAppend *filtering.ExcludedMatches) error {
	excluded, err := filtering.LoadExcluded(path)
	if err != nil {
		return err
	}
	excluded.Append(toAppend)
	return excluded.ToFile(path)
}
