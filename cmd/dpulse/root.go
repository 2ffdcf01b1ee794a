package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/distpulse/dpulse/internal/iofs"
	"github.com/distpulse/dpulse/internal/iologger"
	"github.com/distpulse/dpulse/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	homeDir string
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dpulse",
		Short: "DPulse analyzes district-level identity enrolment data",
		Long: `DPulse is a batch analytics pipeline for monthly identity-transaction
exports. It merges biometric, demographic and enrolment CSV files into
a district-month table in PostgreSQL, then screens the table for fraud
signals, migration patterns, child-welfare gaps and enrolment trends.

The tool provides four phases:
  - create:  create the database schema
  - etl:     load, clean and merge the monthly CSV exports
  - analyze: run the analytical modules over the merged table
  - export:  write the stored tables out as xlsx, csv, json or sqlite

Configuration precedence (highest to lowest):
  1. CLI flags (--data-dir, --format, etc.)
  2. Environment variables (DPULSE_*)
  3. Config file (~/.config/dpulse/config.yaml)
  4. Built-in defaults

Environment Variables:
  All persistent settings can be set via DPULSE_* environment variables.
  Nested fields use underscores (database.host → DPULSE_DATABASE_HOST).

  Examples:
    DPULSE_DATABASE_HOST            PostgreSQL host
    DPULSE_DATABASE_PORT            PostgreSQL port
    DPULSE_MATCH_STATE_THRESHOLD    Fuzzy match accept score (0-100)
    DPULSE_LOG_LEVEL                Log level (debug/info/warn/error)

  See 'go doc github.com/distpulse/dpulse/pkg/config' for the complete
  list.`,
		Version: fmt.Sprintf(
			"version: %s\nbuild:   %s", Version, Build,
		),
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "dpulse version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/dpulse/config.yaml)")

	// Override the version flag shorthand to -V
	rootCmd.Flags().BoolP("version", "V", false, "version for dpulse")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getEtlCmd())
	rootCmd.AddCommand(getAnalyzeCmd())
	rootCmd.AddCommand(getExportCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(
		config.LogDir(homeDir), defaultLog, false,
	); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureSourcesFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", configPath(homeDir))

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded
// configuration, appending to the log file started during bootstrap.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

// configPath returns the config file the run uses, honoring the
// --config flag.
func configPath(home string) string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigFilePath(home)
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := configPath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are
	// allowed. These match the fields included in config.ToOptions() -
	// i.e., persistent configuration that can be stored in config.yaml.
	v.SetEnvPrefix("DPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Data configuration
	v.BindEnv("data.dir", "DATA_DIR")

	// Match configuration
	v.BindEnv("match.state_threshold", "MATCH_STATE_THRESHOLD")
	v.BindEnv("match.district_threshold", "MATCH_DISTRICT_THRESHOLD")
	v.BindEnv("match.include_unmatched", "MATCH_INCLUDE_UNMATCHED")

	// Fraud configuration
	v.BindEnv("fraud.contamination", "FRAUD_CONTAMINATION")
	v.BindEnv("fraud.confidence", "FRAUD_CONFIDENCE")
	v.BindEnv("fraud.group_by", "FRAUD_GROUP_BY")
	v.BindEnv("fraud.seed", "FRAUD_SEED")
	v.BindEnv("fraud.trees", "FRAUD_TREES")
	v.BindEnv("fraud.sample_size", "FRAUD_SAMPLE_SIZE")
	v.BindEnv("fraud.min_series", "FRAUD_MIN_SERIES")

	// Forecast configuration
	v.BindEnv("forecast.horizon_months", "FORECAST_HORIZON_MONTHS")
	v.BindEnv("forecast.min_months", "FORECAST_MIN_MONTHS")

	// Welfare configuration
	v.BindEnv("welfare.critical_percentile", "WELFARE_CRITICAL_PERCENTILE")
	v.BindEnv("welfare.high_percentile", "WELFARE_HIGH_PERCENTILE")
	v.BindEnv("welfare.moderate_percentile", "WELFARE_MODERATE_PERCENTILE")
	v.BindEnv("welfare.shortfall_threshold", "WELFARE_SHORTFALL_THRESHOLD")

	// Database configuration
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.database", "DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "DATABASE_BATCH_SIZE")

	// Log configuration
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.destination", "LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "JOBS_NUMBER")

	v.AutomaticEnv()
}
