package pipeline

import (
	"context"

	"github.com/distpulse/dpulse/pkg/analytics"
	"github.com/distpulse/dpulse/pkg/canon"
	"github.com/distpulse/dpulse/pkg/ident"
)

// Store persists and retrieves run products.
type Store interface {
	// StoreResult upserts the merged table, the name mappings and the
	// quality report of an ETL run.
	StoreResult(ctx context.Context, res *ident.Result) error

	// LoadMergedTable reads the merged table back. An empty table is
	// a typed error telling the user to run the ETL first.
	LoadMergedTable(ctx context.Context) (*ident.MergedTable, error)

	// LoadMappings reads the place-name resolution audit trail back,
	// state entries first, then district entries per state.
	LoadMappings(ctx context.Context) ([]canon.Entry, error)

	// StoreAnalysis replaces the stored outputs of the analytical
	// modules with the given ones.
	StoreAnalysis(ctx context.Context, out *analytics.Outputs) error

	// LoadAnalysis reads all stored analysis outputs back.
	LoadAnalysis(ctx context.Context) (*analytics.Outputs, error)
}
