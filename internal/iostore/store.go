// Package iostore implements the Store interface for persisting run
// products in PostgreSQL. This is an impure I/O package that performs
// batched bulk writes and reads the stored tables back for the
// analyze and export commands.
package iostore

import (
	"context"
	"log/slog"
	"time"

	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/db"
	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/distpulse/dpulse/pkg/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// PostgreSQL allows at most 65535 parameters per statement.
const maxQueryParams = 65535

// store implements the Store interface.
type store struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates a new Store.
func New(cfg *config.Config, op db.Operator) pipeline.Store {
	return &store{cfg: cfg, operator: op}
}

// StoreResult persists the three products of an ETL run: the merged
// table, the name mappings and the quality report. Merged rows and
// mappings upsert on their natural keys, so re-running the pipeline
// refreshes the stored data instead of duplicating it.
func (s *store) StoreResult(ctx context.Context, res *ident.Result) error {
	pool := s.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	startTime := time.Now()
	slog.Info("Storing pipeline result",
		"run_id", res.Quality.RunID,
		"merged_rows", res.Merged.Len(),
		"mappings", res.Mappings.Len(),
	)

	gn.Info("(1/3) Storing merged rows...")
	upserted, err := s.insertMergedRows(ctx, res.Merged.Rows())
	if err != nil {
		return StoreResultError("merged rows", err)
	}
	gn.Message("<em>Upserted %s merged rows</em>",
		humanize.Comma(upserted))

	gn.Info("(2/3) Storing name mappings...")
	mapped, err := s.insertNameMappings(ctx, res.Mappings.Entries())
	if err != nil {
		return StoreResultError("name mappings", err)
	}
	gn.Message("<em>Upserted %s name mappings</em>",
		humanize.Comma(mapped))

	gn.Info("(3/3) Storing quality report...")
	if err = s.insertQuality(ctx, res.Quality); err != nil {
		return StoreResultError("quality report", err)
	}
	gn.Message("<em>Stored quality report for run %s</em>",
		res.Quality.RunID)

	slog.Info("Pipeline result stored",
		"run_id", res.Quality.RunID,
		"duration", gnfmt.TimeString(time.Since(startTime).Seconds()),
	)
	return nil
}

// batchRows bounds a configured batch size so one multirow INSERT
// never exceeds the PostgreSQL parameter limit.
func batchRows(configured, columns int) int {
	limit := maxQueryParams / columns
	if configured < 1 || configured > limit {
		return limit
	}
	return configured
}
