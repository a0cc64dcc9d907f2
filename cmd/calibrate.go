package cmd

import (
	"encoding/json"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/calibration"
	"github.com/spigell/fitmatch/internal/logger"
	"github.com/spigell/fitmatch/internal/profile"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate STARTUPS_FILE",
	Short: "Compare engine scores with archetype projections and report score inflation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		calibrate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)

	calibrateCmd.Flags().Float64P("tolerance", "t", calibration.DefaultTolerance, "mean gap in points still considered calibrated")
	viper.BindPFlag("calibration.tolerance", calibrateCmd.Flags().Lookup("tolerance"))
}

func calibrate(cmd *cobra.Command, startupsFile string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	engine, err := newEngine(viper.GetString("profile"))
	if err != nil {
		logger.Fatal("building the scoring engine", zap.Error(err))
	}

	logger = withProfile(logger, engine.Profile())

	ds, err := profile.LoadFile(startupsFile)
	if err != nil {
		logger.Fatal("loading startups", zap.Error(err))
	}

	auditor, err := calibration.NewAuditor(engine, calibration.DefaultArchetypes(), viper.GetFloat64("calibration.tolerance"))
	if err != nil {
		logger.Fatal("building the auditor", zap.Error(err))
	}

	report := auditor.Audit(ds.Startups)

	for _, s := range report.Startups {
		if s.Verdict != calibration.Calibrated {
			logger.Warn("startup scores drift from archetype projections",
				zap.String("startup_id", s.StartupID),
				zap.Float64("mean_gap", s.MeanGap),
				zap.String("verdict", string(s.Verdict)),
			)
		}
	}

	logger.Info("calibration finished",
		zap.Int("startups", len(report.Startups)),
		zap.Float64("mean_gap", report.MeanGap),
		zap.String("verdict", string(report.Verdict)),
	)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Fatal("writing the report", zap.Error(err))
	}
}
