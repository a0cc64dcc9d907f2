package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/logger"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results STARTUP_ID [INVESTOR_ID]",
	Short: "Print stored match results of a startup, best first",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		results(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
}

func results(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	db, err := store.Open(ctx, config.Store, logger)
	if err != nil {
		logger.Fatal("opening the result store", zap.Error(err))
	}
	defer db.Close()

	var records []store.Record
	if len(args) == 2 {
		rec, err := db.Get(ctx, args[0], args[1])
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("exiting", zap.String("reason", "no stored result for the pair"))
			return
		}
		if err != nil {
			logger.Fatal("reading the stored result", zap.Error(err))
		}
		records = append(records, *rec)
	} else {
		records, err = db.ListByStartup(ctx, args[0])
		if err != nil {
			logger.Fatal("reading stored results", zap.Error(err))
		}
	}

	out := make([]scoring.MatchResult, 0, len(records))
	for _, rec := range records {
		res, err := rec.Result()
		if err != nil {
			logger.Warn("skipping unreadable stored result", zap.Error(err))
			continue
		}
		out = append(out, res)
	}

	logger.Info("stored results", zap.Int("count", len(out)))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Fatal("writing the results", zap.Error(err))
	}
}
