package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/fitmatch/internal/logger"
)

var scoreCmd = &cobra.Command{
	Use:   "score STARTUP_FILE INVESTOR_FILE",
	Short: "Score a single startup record against a single investor record",
	Long: "Score reads one startup and one investor record (YAML or JSON) and prints the match result as JSON.\n" +
		"Records are decoded leniently: fields that cannot be read are treated as missing.",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func score(cmd *cobra.Command, startupFile, investorFile string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	engine, err := newEngine(viper.GetString("profile"))
	if err != nil {
		logger.Fatal("building the scoring engine", zap.Error(err))
	}

	startup, err := readRecord(startupFile)
	if err != nil {
		logger.Fatal("reading the startup record", zap.Error(err))
	}

	investor, err := readRecord(investorFile)
	if err != nil {
		logger.Fatal("reading the investor record", zap.Error(err))
	}

	result, err := engine.ScoreRecord(startup, investor)
	if err != nil {
		logger.Fatal("scoring", zap.Error(err))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Fatal("writing the result", zap.Error(err))
	}
}

// readRecord decodes a single YAML or JSON mapping.
func readRecord(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	var record map[string]any
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%q holds no record", path)
	}
	return record, nil
}
