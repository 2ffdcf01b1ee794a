package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDataDir sets the root directory for transaction CSV files.
func OptDataDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Data Dir", s) {
			c.Data.Dir = s
		}
	}
}

// OptMatchStateThreshold sets the minimum similarity score for a raw
// state spelling to snap to an official state name.
func OptMatchStateThreshold(f float64) Option {
	return func(c *Config) {
		if isValidScore("State Threshold", f) {
			c.Match.StateThreshold = f
		}
	}
}

// OptMatchDistrictThreshold sets the minimum similarity score for
// district spellings to snap together within a state.
func OptMatchDistrictThreshold(f float64) Option {
	return func(c *Config) {
		if isValidScore("District Threshold", f) {
			c.Match.DistrictThreshold = f
		}
	}
}

// OptMatchIncludeUnmatched keeps unmatched rows under the "Unmatched"
// bucket instead of dropping them.
func OptMatchIncludeUnmatched(b bool) Option {
	return func(c *Config) {
		c.Match.IncludeUnmatched = b
	}
}

// OptFraudContamination sets the expected outlier fraction for the
// isolation forest. Valid range: (0, 0.5).
func OptFraudContamination(f float64) Option {
	return func(c *Config) {
		if isValidFraction("Fraud Contamination", f, 0.5) {
			c.Fraud.Contamination = f
		}
	}
}

// OptFraudConfidence sets the chi-square confidence level for Benford
// screening. Valid range: (0, 1).
func OptFraudConfidence(f float64) Option {
	return func(c *Config) {
		if isValidFraction("Fraud Confidence", f, 1) {
			c.Fraud.Confidence = f
		}
	}
}

// OptFraudGroupBy sets the Benford grouping unit.
// Valid values: "district", "state".
func OptFraudGroupBy(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Fraud.GroupBy", s) {
			c.Fraud.GroupBy = s
		}
	}
}

// OptFraudSeed sets the isolation-forest random seed.
func OptFraudSeed(i int) Option {
	return func(c *Config) {
		if isValidInt("Fraud Seed", i) {
			c.Fraud.Seed = i
		}
	}
}

// OptFraudTrees sets the number of isolation trees.
func OptFraudTrees(i int) Option {
	return func(c *Config) {
		if isValidInt("Fraud Trees", i) {
			c.Fraud.Trees = i
		}
	}
}

// OptFraudSampleSize sets the per-tree subsample cap.
func OptFraudSampleSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Fraud Sample Size", i) {
			c.Fraud.SampleSize = i
		}
	}
}

// OptFraudMinSeries sets the minimum usable monthly values per Benford
// group.
func OptFraudMinSeries(i int) Option {
	return func(c *Config) {
		if isValidInt("Fraud Min Series", i) {
			c.Fraud.MinSeries = i
		}
	}
}

// OptForecastHorizonMonths sets how many months to project forward.
func OptForecastHorizonMonths(i int) Option {
	return func(c *Config) {
		if isValidInt("Forecast Horizon", i) {
			c.Forecast.HorizonMonths = i
		}
	}
}

// OptForecastMinMonths sets the minimum history length for forecasting.
// Values below 2 are rejected: a trend needs at least two points.
func OptForecastMinMonths(i int) Option {
	return func(c *Config) {
		if isValidMinMonths("Forecast Min Months", i) {
			c.Forecast.MinMonths = i
		}
	}
}

// OptWelfareCriticalPercentile sets the CRITICAL RISK percentile cutoff.
func OptWelfareCriticalPercentile(f float64) Option {
	return func(c *Config) {
		if isValidScore("Welfare Critical Percentile", f) {
			c.Welfare.CriticalPercentile = f
		}
	}
}

// OptWelfareHighPercentile sets the HIGH RISK percentile cutoff.
func OptWelfareHighPercentile(f float64) Option {
	return func(c *Config) {
		if isValidScore("Welfare High Percentile", f) {
			c.Welfare.HighPercentile = f
		}
	}
}

// OptWelfareModeratePercentile sets the MODERATE percentile cutoff.
func OptWelfareModeratePercentile(f float64) Option {
	return func(c *Config) {
		if isValidScore("Welfare Moderate Percentile", f) {
			c.Welfare.ModeratePercentile = f
		}
	}
}

// OptWelfareShortfallThreshold sets the minimum shortfall for the
// CRITICAL RISK tier.
func OptWelfareShortfallThreshold(f float64) Option {
	return func(c *Config) {
		if f >= 0 {
			c.Welfare.ShortfallThreshold = f
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records to process per batch.
// Used for bulk operations in etl and analyze phases.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptEtlDryRun runs the pipeline without writing to the database.
// Runtime-only field - not in ToOptions().
func OptEtlDryRun(b bool) Option {
	return func(c *Config) {
		c.Etl.DryRun = b
	}
}

// OptAnalyzeModules limits which analytical modules run.
// Empty slice means run all modules.
// Runtime-only field - not in ToOptions().
func OptAnalyzeModules(ss []string) Option {
	return func(c *Config) {
		if len(ss) > 0 {
			c.Analyze.Modules = ss
		}
	}
}

// OptExportFormat sets the export format.
// Valid values: "xlsx", "csv", "json", "sqlite".
// Runtime-only field - not in ToOptions().
func OptExportFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Export.Format", s) {
			c.Export.Format = s
		}
	}
}

// OptExportPath sets the export output file or directory.
// Runtime-only field - not in ToOptions().
func OptExportPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Export Path", s) {
			c.Export.Path = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel
// operations. Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
