// Package sources provides configuration and validation for raw CSV sources.
//
// This package defines the schema for sources.yaml, which users provide to
// specify where the monthly category exports live on disk and how to match
// their files. It handles source configuration validation, defaulting, and
// parent directory resolution.
package sources

type Sources interface {
	Load() (*SourcesConfig, error)
}

// SourcesConfig represents the complete sources.yaml configuration file.
type SourcesConfig struct {
	// Categories is the list of record categories to load.
	Categories []CategoryConfig `yaml:"categories"`

	// Warnings holds non-fatal validation warnings (not serialized)
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category   string // Category the issue belongs to
	Field      string // Field name that has the issue
	Message    string // Description of the issue
	Suggestion string // How to fix it
}

// CategoryConfig represents configuration for a single record category.
//
// The pipeline requires all three categories:
//   - biometric (biometric update transactions)
//   - demographic (demographic update transactions)
//   - enrolment (new enrolment transactions)
//
// Each category maps to a directory of CSV exports sharing one header
// layout. Files inside the directory are read in lexicographic order.
type CategoryConfig struct {
	// Category is one of: biometric, demographic, enrolment.
	Category string `yaml:"category"`

	// Parent is the directory containing CSV files for this category.
	// Relative paths are resolved against data.dir at load time.
	// Examples:
	//   - api_data_aadhar_biometric
	//   - /srv/exports/biometric
	//   - ~/data/demographic
	Parent string `yaml:"parent"`

	// Pattern is the glob used to match files inside Parent.
	// Defaults to "*.csv".
	Pattern string `yaml:"pattern,omitempty"`
}
