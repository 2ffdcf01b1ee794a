// Package pipeline defines the lifecycle contracts of the batch system:
// loading raw sources, running the ETL, managing the database schema,
// and persisting run products. Implementations live under internal.
package pipeline

import (
	"context"

	"github.com/distpulse/dpulse/pkg/ident"
)

// Loader reads raw category rows from the configured sources.
type Loader interface {
	// Load discovers and reads the CSV files of every category,
	// recording file and row counters in the quality report. A
	// malformed file is skipped and counted; a category without any
	// readable file is a fatal error.
	Load(
		ctx context.Context,
		rep *ident.QualityReport,
	) (map[ident.Category][]ident.RawRecord, error)
}

// Runner executes the full pipeline: load, canonicalize, validate,
// aggregate, merge, report.
type Runner interface {
	// Run produces the merged table, the name mappings and the quality
	// report of one run. Persistence is the caller's concern.
	Run(ctx context.Context) (*ident.Result, error)
}

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and
// migrations. Schema management is idempotent - safe to run multiple
// times.
type SchemaManager interface {
	// Create creates the database schema using GORM AutoMigrate and
	// applies collation settings for stable place-name ordering.
	Create(ctx context.Context) error

	// Drop removes all pipeline tables. Used before re-creation when
	// the user confirms a destructive reset.
	Drop(ctx context.Context) error

	// Verify checks that the expected tables exist, returning a typed
	// error with fix guidance when the schema is missing.
	Verify(ctx context.Context) error
}

// Exporter writes the stored tables and their derived views out in
// one of the user-facing formats.
type Exporter interface {
	// Export reads the stored run products back and writes them under
	// the configured export path in the configured format.
	Export(ctx context.Context) error
}
