// Package config provides configuration management for dpulse.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Data: dir
//   - Match: state_threshold, district_threshold, include_unmatched
//   - Fraud: contamination, confidence, group_by, seed, trees, sample_size,
//     min_series
//   - Forecast: horizon_months, min_months
//   - Welfare: critical_percentile, high_percentile, moderate_percentile,
//     shortfall_threshold
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Etl.DryRun, Analyze.Modules, Export.Format, Export.Path (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use DPULSE_ prefix with underscores for nesting:
//
//	DPULSE_DATABASE_HOST=localhost
//	DPULSE_DATABASE_PORT=5432
//	DPULSE_MATCH_STATE_THRESHOLD=80
//	DPULSE_LOG_LEVEL=info
//	DPULSE_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete dpulse configuration.
type Config struct {
	// Data contains source-file location settings.
	Data DataConfig `mapstructure:"data" yaml:"data"`

	// Match contains place-name canonicalization settings.
	Match MatchConfig `mapstructure:"match" yaml:"match"`

	// Fraud contains fraud-detection settings (Benford screening and
	// isolation-forest outliers).
	Fraud FraudConfig `mapstructure:"fraud" yaml:"fraud"`

	// Forecast contains enrolment forecasting settings.
	Forecast ForecastConfig `mapstructure:"forecast" yaml:"forecast"`

	// Welfare contains child-welfare risk tiering settings.
	Welfare WelfareConfig `mapstructure:"welfare" yaml:"welfare"`

	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// Etl contains settings specific to the etl command.
	Etl EtlConfig `mapstructure:"etl" yaml:"etl"`

	// Analyze contains settings specific to the analyze command.
	Analyze AnalyzeConfig `mapstructure:"analyze" yaml:"analyze"`

	// Export contains settings specific to the export command.
	Export ExportConfig `mapstructure:"export" yaml:"export"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DataConfig contains source-file location settings.
type DataConfig struct {
	// Dir is the root directory for transaction CSV files. Relative
	// category directories from sources.yaml are resolved against it.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// MatchConfig contains place-name canonicalization settings.
type MatchConfig struct {
	// StateThreshold is the minimum token-sort similarity score (0-100)
	// for a raw state spelling to snap to an official state name.
	StateThreshold float64 `mapstructure:"state_threshold" yaml:"state_threshold"`

	// DistrictThreshold is the minimum token-sort similarity score (0-100)
	// for a district spelling to snap to an already-seen spelling within
	// the same state.
	DistrictThreshold float64 `mapstructure:"district_threshold" yaml:"district_threshold"`

	// IncludeUnmatched keeps rows whose state never matched under the
	// "Unmatched" bucket instead of dropping them. Dropped rows are always
	// counted in the quality report either way.
	IncludeUnmatched bool `mapstructure:"include_unmatched" yaml:"include_unmatched"`
}

// FraudConfig contains fraud-detection settings.
type FraudConfig struct {
	// Contamination is the expected fraction of outlier districts for the
	// isolation forest. Must be in (0, 0.5).
	Contamination float64 `mapstructure:"contamination" yaml:"contamination"`

	// Confidence is the chi-square confidence level for the Benford
	// screening. Must be in (0, 1).
	Confidence float64 `mapstructure:"confidence" yaml:"confidence"`

	// GroupBy selects the Benford grouping unit.
	// Valid values: "district", "state".
	GroupBy string `mapstructure:"group_by" yaml:"group_by"`

	// Seed makes isolation-forest runs reproducible.
	Seed int `mapstructure:"seed" yaml:"seed"`

	// Trees is the number of isolation trees.
	Trees int `mapstructure:"trees" yaml:"trees"`

	// SampleSize caps the subsample used to build each tree.
	SampleSize int `mapstructure:"sample_size" yaml:"sample_size"`

	// MinSeries is the minimum number of usable monthly values a group
	// needs before Benford screening applies. Groups below it are
	// excluded with a reason, never failed.
	MinSeries int `mapstructure:"min_series" yaml:"min_series"`
}

// ForecastConfig contains enrolment forecasting settings.
type ForecastConfig struct {
	// HorizonMonths is the number of months to project forward.
	HorizonMonths int `mapstructure:"horizon_months" yaml:"horizon_months"`

	// MinMonths is the minimum history length for a state to be
	// forecast. States below it are excluded with a reason. Minimum 2.
	MinMonths int `mapstructure:"min_months" yaml:"min_months"`
}

// WelfareConfig contains child-welfare risk tiering settings.
type WelfareConfig struct {
	// CriticalPercentile marks districts below it (with a large
	// shortfall) as CRITICAL RISK.
	CriticalPercentile float64 `mapstructure:"critical_percentile" yaml:"critical_percentile"`

	// HighPercentile marks districts below it as HIGH RISK.
	HighPercentile float64 `mapstructure:"high_percentile" yaml:"high_percentile"`

	// ModeratePercentile marks districts below it as MODERATE RISK.
	ModeratePercentile float64 `mapstructure:"moderate_percentile" yaml:"moderate_percentile"`

	// ShortfallThreshold is the minimum expected-update shortfall for the
	// CRITICAL RISK tier.
	ShortfallThreshold float64 `mapstructure:"shortfall_threshold" yaml:"shortfall_threshold"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records to process per batch for bulk
	// operations. Used when storing merged rows and analysis scores.
	// Larger batches are faster but use more memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// EtlConfig contains settings specific to the etl command.
type EtlConfig struct {
	// DryRun runs the pipeline and prints the quality report without
	// writing anything to the database.
	// Runtime-only field - not in ToOptions().
	DryRun bool `mapstructure:"dry_run" yaml:"dry_run"`
}

// AnalyzeConfig contains settings specific to the analyze command.
type AnalyzeConfig struct {
	// Modules limits which analytical modules run.
	// Empty slice means run all modules.
	// Runtime-only field - not in ToOptions().
	Modules []string `mapstructure:"modules" yaml:"modules"`
}

// ExportConfig contains settings specific to the export command.
type ExportConfig struct {
	// Format of the exported data.
	// Valid values: "xlsx", "csv", "json", "sqlite".
	// Runtime-only field - not in ToOptions().
	Format string `mapstructure:"format" yaml:"format"`

	// Path is the output file or directory.
	// Runtime-only field - not in ToOptions().
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Data: DataConfig{
			Dir: "data",
		},
		Match: MatchConfig{
			StateThreshold:    75,
			DistrictThreshold: 90,
			IncludeUnmatched:  false,
		},
		Fraud: FraudConfig{
			Contamination: 0.05,
			Confidence:    0.95,
			GroupBy:       "district",
			Seed:          42,
			Trees:         100,
			SampleSize:    256,
			MinSeries:     5,
		},
		Forecast: ForecastConfig{
			HorizonMonths: 6,
			MinMonths:     3,
		},
		Welfare: WelfareConfig{
			CriticalPercentile: 20,
			HighPercentile:     40,
			ModeratePercentile: 60,
			ShortfallThreshold: 100,
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "dpulse",
			SSLMode:   "disable",
			BatchSize: 50_000, // Batch size for bulk operations (etl, analyze)
		},
		Export: ExportConfig{
			Format: "xlsx",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
