package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, DryRun, Modules, Export settings).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var f float64

	s = c.Data.Dir
	if s != "" {
		res = append(res, OptDataDir(s))
	}

	f = c.Match.StateThreshold
	if f > 0 {
		res = append(res, OptMatchStateThreshold(f))
	}
	f = c.Match.DistrictThreshold
	if f > 0 {
		res = append(res, OptMatchDistrictThreshold(f))
	}
	res = append(res, OptMatchIncludeUnmatched(c.Match.IncludeUnmatched))

	f = c.Fraud.Contamination
	if f > 0 {
		res = append(res, OptFraudContamination(f))
	}
	f = c.Fraud.Confidence
	if f > 0 {
		res = append(res, OptFraudConfidence(f))
	}
	s = c.Fraud.GroupBy
	if s != "" {
		res = append(res, OptFraudGroupBy(s))
	}
	i = c.Fraud.Seed
	if i > 0 {
		res = append(res, OptFraudSeed(i))
	}
	i = c.Fraud.Trees
	if i > 0 {
		res = append(res, OptFraudTrees(i))
	}
	i = c.Fraud.SampleSize
	if i > 0 {
		res = append(res, OptFraudSampleSize(i))
	}
	i = c.Fraud.MinSeries
	if i > 0 {
		res = append(res, OptFraudMinSeries(i))
	}

	i = c.Forecast.HorizonMonths
	if i > 0 {
		res = append(res, OptForecastHorizonMonths(i))
	}
	i = c.Forecast.MinMonths
	if i > 0 {
		res = append(res, OptForecastMinMonths(i))
	}

	f = c.Welfare.CriticalPercentile
	if f > 0 {
		res = append(res, OptWelfareCriticalPercentile(f))
	}
	f = c.Welfare.HighPercentile
	if f > 0 {
		res = append(res, OptWelfareHighPercentile(f))
	}
	f = c.Welfare.ModeratePercentile
	if f > 0 {
		res = append(res, OptWelfareModeratePercentile(f))
	}
	f = c.Welfare.ShortfallThreshold
	if f > 0 {
		res = append(res, OptWelfareShortfallThreshold(f))
	}

	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

// isValidScore accepts values on the 0-100 scale used for similarity
// thresholds and percentile cutoffs.
func isValidScore(name string, f float64) bool {
	res := f > 0 && f <= 100
	if !res {
		gn.Warn("<em>%s</em> has to be in (0, 100], ignoring %v", name, f)
	}
	return res
}

// isValidFraction accepts values in the open interval (0, max).
func isValidFraction(name string, f, max float64) bool {
	res := f > 0 && f < max
	if !res {
		gn.Warn("<em>%s</em> has to be in (0, %v), ignoring %v", name, max, f)
	}
	return res
}

func isValidMinMonths(name string, i int) bool {
	res := i >= 2
	if !res {
		gn.Warn("<em>%s</em> has to be at least 2, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Fraud.GroupBy":   {"district": s, "state": s},
		"Export.Format":   {"xlsx": s, "csv": s, "json": s, "sqlite": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}

	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
