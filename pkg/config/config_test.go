package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/distpulse/dpulse/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "dpulse"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "dpulse"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "dpulse", "logs"),
		},
		{
			msg: "sources file",
			fn:  config.SourcesFilePath,
			res: filepath.Join(tempHome, ".config", "dpulse", "sources.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Data defaults
		assert.Equal(t, "data", cfg.Data.Dir)

		// Match defaults
		assert.Equal(t, 75.0, cfg.Match.StateThreshold)
		assert.Equal(t, 90.0, cfg.Match.DistrictThreshold)
		assert.False(t, cfg.Match.IncludeUnmatched)

		// Fraud defaults
		assert.Equal(t, 0.05, cfg.Fraud.Contamination)
		assert.Equal(t, 0.95, cfg.Fraud.Confidence)
		assert.Equal(t, "district", cfg.Fraud.GroupBy)
		assert.Equal(t, 42, cfg.Fraud.Seed)
		assert.Equal(t, 100, cfg.Fraud.Trees)
		assert.Equal(t, 256, cfg.Fraud.SampleSize)
		assert.Equal(t, 5, cfg.Fraud.MinSeries)

		// Forecast defaults
		assert.Equal(t, 6, cfg.Forecast.HorizonMonths)
		assert.Equal(t, 3, cfg.Forecast.MinMonths)

		// Welfare defaults
		assert.Equal(t, 20.0, cfg.Welfare.CriticalPercentile)
		assert.Equal(t, 40.0, cfg.Welfare.HighPercentile)
		assert.Equal(t, 60.0, cfg.Welfare.ModeratePercentile)
		assert.Equal(t, 100.0, cfg.Welfare.ShortfallThreshold)

		// Database defaults
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "dpulse", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 50_000, cfg.Database.BatchSize)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		// JobsNumber defaults to CPU count
		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid host",
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  db.example.com  ",
			expected: "db.example.com",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "localhost", // Should keep default
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "localhost", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseHost(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionMatchStateThreshold(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{
			name:     "sets valid threshold",
			input:    82.5,
			expected: 82.5,
		},
		{
			name:     "accepts exact-match-only threshold",
			input:    100,
			expected: 100,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 75, // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -10,
			expected: 75, // Should keep default
		},
		{
			name:     "ignores value above scale",
			input:    120,
			expected: 75, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptMatchStateThreshold(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Match.StateThreshold)
		})
	}
}

func TestOptionFraudContamination(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{
			name:     "sets valid fraction",
			input:    0.1,
			expected: 0.1,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 0.05, // Should keep default
		},
		{
			name:     "ignores half and above",
			input:    0.5,
			expected: 0.05, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptFraudContamination(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Fraud.Contamination)
		})
	}
}

func TestOptionFraudGroupBy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets district grouping",
			input:    "district",
			expected: "district",
		},
		{
			name:     "sets state grouping",
			input:    "state",
			expected: "state",
		},
		{
			name:     "normalizes to lowercase",
			input:    "STATE",
			expected: "state",
		},
		{
			name:     "ignores invalid value",
			input:    "pincode",
			expected: "district", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptFraudGroupBy(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Fraud.GroupBy)
		})
	}
}

func TestOptionForecastMinMonths(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid history floor",
			input:    4,
			expected: 4,
		},
		{
			name:     "accepts minimum of two points",
			input:    2,
			expected: 2,
		},
		{
			name:     "ignores single point",
			input:    1,
			expected: 3, // Should keep default
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 3, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptForecastMinMonths(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Forecast.MinMonths)
		})
	}
}

func TestOptionDatabaseSSLMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid ssl mode - disable",
			input:    "disable",
			expected: "disable",
		},
		{
			name:     "sets valid ssl mode - require",
			input:    "require",
			expected: "require",
		},
		{
			name:     "normalizes to lowercase",
			input:    "REQUIRE",
			expected: "require",
		},
		{
			name:     "ignores invalid value",
			input:    "invalid",
			expected: "disable", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseSSLMode(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.SSLMode)
		})
	}
}

func TestOptionExportFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets xlsx",
			input:    "xlsx",
			expected: "xlsx",
		},
		{
			name:     "sets csv",
			input:    "csv",
			expected: "csv",
		},
		{
			name:     "sets json",
			input:    "json",
			expected: "json",
		},
		{
			name:     "sets sqlite",
			input:    "sqlite",
			expected: "sqlite",
		},
		{
			name:     "ignores invalid value",
			input:    "parquet",
			expected: "xlsx", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptExportFormat(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Export.Format)
		})
	}
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid log level - debug",
			input:    "debug",
			expected: "debug",
		},
		{
			name:     "sets valid log level - error",
			input:    "error",
			expected: "error",
		},
		{
			name:     "normalizes to lowercase",
			input:    "DEBUG",
			expected: "debug",
		},
		{
			name:     "ignores invalid value",
			input:    "trace",
			expected: "info", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogLevel(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionJobsNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid jobs number",
			input:    8,
			expected: 8,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: runtime.NumCPU(), // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -5,
			expected: runtime.NumCPU(), // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptJobsNumber(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.JobsNumber)
		})
	}
}

func TestOptionAnalyzeModules(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "sets module list",
			input:    []string{"fraud", "migration"},
			expected: []string{"fraud", "migration"},
		},
		{
			name:     "ignores empty slice",
			input:    []string{},
			expected: nil, // Should keep default (nil)
		},
		{
			name:     "ignores nil",
			input:    nil,
			expected: nil, // Should keep default (nil)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptAnalyzeModules(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Analyze.Modules)
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptDatabaseHost("custom.host.com"),
			config.OptDatabasePort(3306),
			config.OptMatchStateThreshold(80),
			config.OptLogLevel("debug"),
			config.OptJobsNumber(16),
		}

		cfg.Update(opts)

		assert.Equal(t, "custom.host.com", cfg.Database.Host)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, 80.0, cfg.Match.StateThreshold)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 16, cfg.JobsNumber)

		// Unchanged fields keep defaults
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptDatabaseHost("first.host.com"),
			config.OptDatabaseHost("second.host.com"),
		}

		cfg.Update(opts)

		assert.Equal(t, "second.host.com", cfg.Database.Host)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		// Create config with custom values
		original := config.New()
		opts := []config.Option{
			config.OptDataDir("/srv/identity/csv"),
			config.OptMatchStateThreshold(80),
			config.OptMatchDistrictThreshold(85),
			config.OptMatchIncludeUnmatched(true),
			config.OptFraudContamination(0.1),
			config.OptFraudGroupBy("state"),
			config.OptForecastHorizonMonths(12),
			config.OptWelfareCriticalPercentile(25),
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(3306),
			config.OptDatabaseUser("testuser"),
			config.OptDatabasePassword("testpass"),
			config.OptDatabaseDatabase("testdb"),
			config.OptDatabaseSSLMode("require"),
			config.OptDatabaseBatchSize(10000),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(8),
		}
		original.Update(opts)

		// Convert to options and apply to new config
		convertedOpts := original.ToOptions()
		newCfg := config.New()
		newCfg.Update(convertedOpts)

		// Verify persistent fields match
		assert.Equal(t, original.Data.Dir, newCfg.Data.Dir)
		assert.Equal(t, original.Match.StateThreshold, newCfg.Match.StateThreshold)
		assert.Equal(t, original.Match.DistrictThreshold, newCfg.Match.DistrictThreshold)
		assert.Equal(t, original.Match.IncludeUnmatched, newCfg.Match.IncludeUnmatched)
		assert.Equal(t, original.Fraud.Contamination, newCfg.Fraud.Contamination)
		assert.Equal(t, original.Fraud.GroupBy, newCfg.Fraud.GroupBy)
		assert.Equal(t, original.Forecast.HorizonMonths, newCfg.Forecast.HorizonMonths)
		assert.Equal(t, original.Welfare.CriticalPercentile, newCfg.Welfare.CriticalPercentile)
		assert.Equal(t, original.Database.Host, newCfg.Database.Host)
		assert.Equal(t, original.Database.Port, newCfg.Database.Port)
		assert.Equal(t, original.Database.User, newCfg.Database.User)
		assert.Equal(t, original.Database.Password, newCfg.Database.Password)
		assert.Equal(t, original.Database.Database, newCfg.Database.Database)
		assert.Equal(t, original.Database.SSLMode, newCfg.Database.SSLMode)
		assert.Equal(t, original.Database.BatchSize, newCfg.Database.BatchSize)
		assert.Equal(t, original.Log.Level, newCfg.Log.Level)
		assert.Equal(t, original.Log.Format, newCfg.Log.Format)
		assert.Equal(t, original.Log.Destination, newCfg.Log.Destination)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptEtlDryRun(true),
			config.OptAnalyzeModules([]string{"fraud"}),
			config.OptExportPath("/tmp/out.xlsx"),
		})

		// These fields should not be in ToOptions() output
		opts := cfg.ToOptions()
		newCfg := config.New()
		newCfg.Update(opts)

		// Runtime fields should remain at defaults in newCfg
		assert.Equal(t, "", newCfg.HomeDir)
		assert.False(t, newCfg.Etl.DryRun)
		assert.Nil(t, newCfg.Analyze.Modules)
		assert.Equal(t, "", newCfg.Export.Path)
	})
}
