package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fitmatch/internal/logger"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/store"
	"github.com/spigell/fitmatch/internal/tuning"
)

const (
	app       = "fitmatch"
	envPrefix = "FITMATCH"
)

type Config struct {
	Profile     string       `mapstructure:"profile"`
	Startups    string       `mapstructure:"startups"`
	Investors   string       `mapstructure:"investors"`
	ExcludeFile string       `mapstructure:"exclude-file"`
	Store       store.Config `mapstructure:"store"`
	Match       *MatchConfig `mapstructure:"match"`
	AI          *AIConfig    `mapstructure:"ai"`
}

type MatchConfig struct {
	Workers           int            `mapstructure:"workers"`
	ChunkSize         int            `mapstructure:"chunk-size"`
	MinimumScore      int            `mapstructure:"minimum-score"`
	MinimumConfidence string         `mapstructure:"minimum-confidence"`
	TopPerStartup     int            `mapstructure:"top-per-startup"`
	Exclude           *ExcludeConfig `mapstructure:"exclude"`
}

type ExcludeConfig struct {
	Investors []string `mapstructure:"investors"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Enrich   *EnrichConfig `mapstructure:"enrich"`
	Review   *ReviewConfig `mapstructure:"review"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type EnrichConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	MinConfidence float64 `mapstructure:"min-confidence"`
}

type ReviewConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MinimumFitScore  float64 `mapstructure:"minimum-fit-score"`
	ExtraCriteria    string  `mapstructure:"extra-criteria"`
	DealBreakers     string  `mapstructure:"deal-breakers"`
	UserInstructions string  `mapstructure:"user-instructions"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "fitmatch scores how well startups fit investors and keeps the results",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is fitmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("profile", "p", tuning.ProfileLegacy, "weight profile: "+strings.Join(tuning.Names(), ", "))

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	viper.SetDefault("store.driver", store.DriverSQLite)
	viper.SetDefault("store.dsn", store.DefaultSQLitePath)
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional; flags and env are enough for score and calibrate.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

const redacted = "<redacted>"

// redactedConfig returns a copy of c that is safe to log: the inline gemini
// api key and the mysql password are masked.
func redactedConfig(c *Config) *Config {
	if c == nil {
		return nil
	}

	out := *c
	if c.AI != nil && c.AI.Gemini != nil && c.AI.Gemini.APIKey != "" {
		aiCfg := *c.AI
		gemini := *c.AI.Gemini
		gemini.APIKey = redacted
		aiCfg.Gemini = &gemini
		out.AI = &aiCfg
	}

	if c.Store.Driver == store.DriverMySQL && c.Store.DSN != "" {
		out.Store.DSN = redacted
		if dsn, err := mysql.ParseDSN(c.Store.DSN); err == nil && dsn.Passwd != "" {
			dsn.Passwd = redacted
			out.Store.DSN = dsn.FormatDSN()
		}
	}

	return &out
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// weightProfile resolves the named built-in profile and overlays the optional
// "weights" section from the config.
func weightProfile(name string) (tuning.Profile, error) {
	p, err := tuning.Lookup(name)
	if err != nil {
		return p, err
	}

	if viper.IsSet("weights") {
		if err := viper.UnmarshalKey("weights", &p); err != nil {
			return p, err
		}
		if err := p.Validate(); err != nil {
			return p, err
		}
	}

	return p, nil
}

func newEngine(name string) (*scoring.Engine, error) {
	p, err := weightProfile(name)
	if err != nil {
		return nil, err
	}
	return scoring.New(p, scoring.Components{})
}

func withProfile(l *zap.Logger, p tuning.Profile) *zap.Logger {
	return logger.WithFields(l, logger.ProfileField(p.Name, p.Version))
}
