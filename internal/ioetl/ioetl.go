// Package ioetl runs the extract-transform-load pipeline that turns
// monthly category CSV exports into the merged analytical table.
// This is an impure I/O package; the transformation stages it
// orchestrates live in pkg/etl and pkg/canon and are pure.
package ioetl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/distpulse/dpulse/internal/ioload"
	"github.com/distpulse/dpulse/internal/iosources"
	"github.com/distpulse/dpulse/pkg/canon"
	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/etl"
	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/distpulse/dpulse/pkg/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// runner implements the Runner interface.
type runner struct {
	cfg *config.Config
}

// New creates a new pipeline Runner.
func New(cfg *config.Config) pipeline.Runner {
	return &runner{cfg: cfg}
}

// Run executes the pipeline phases in order: loading, place-name
// canonicalization, validation, aggregation, merge, and the quality
// report. Persistence is left to the caller.
func (r *runner) Run(ctx context.Context) (*ident.Result, error) {
	startTime := time.Now()
	slog.Info("Starting ETL pipeline",
		"data_dir", r.cfg.Data.Dir,
		"state_threshold", r.cfg.Match.StateThreshold,
		"district_threshold", r.cfg.Match.DistrictThreshold,
		"include_unmatched", r.cfg.Match.IncludeUnmatched,
	)

	// Load sources.yaml from config directory
	src := iosources.New(r.cfg)
	sourcesConfig, err := src.Load()
	if err != nil {
		return nil, err
	}
	for _, w := range sourcesConfig.Warnings {
		slog.Warn("Sources config warning",
			"category", w.Category,
			"message", w.Message,
		)
	}

	rep := ident.NewQualityReport(
		r.cfg.Match.StateThreshold, r.cfg.Match.IncludeUnmatched,
	)

	fmt.Println(strings.Repeat("─", 60))

	gn.Info("(1/6) Loading source files...")
	raw, err := ioload.New(r.cfg, sourcesConfig).Load(ctx, rep)
	if err != nil {
		return nil, err
	}

	if err = checkCancelled(ctx); err != nil {
		return nil, err
	}

	gn.Info("(2/6) Canonicalizing place names...")
	resolver, canonical := r.canonicalize(raw, rep)

	if err = checkCancelled(ctx); err != nil {
		return nil, err
	}

	gn.Info("(3/6) Validating rows...")
	clean := r.validate(canonical, rep)

	if err = checkCancelled(ctx); err != nil {
		return nil, err
	}

	gn.Info("(4/6) Aggregating by district and month...")
	frames := r.aggregate(clean)

	if err = checkCancelled(ctx); err != nil {
		return nil, err
	}

	gn.Info("(5/6) Merging categories...")
	table, err := etl.Merge(frames)
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, EmptyTableError()
	}
	gn.Message("<em>Merged %s district-month rows</em>",
		humanize.Comma(int64(table.Len())))

	gn.Info("(6/6) Building quality report...")
	rep.Finish(table)

	totalDuration := time.Since(startTime)
	slog.Info("ETL pipeline complete",
		"run_id", rep.RunID,
		"merged_rows", table.Len(),
		"states", rep.States,
		"districts", rep.Districts,
		"rows_dropped", rep.RowsDropped(),
		"duration", gnfmt.TimeString(totalDuration.Seconds()),
	)

	fmt.Println(strings.Repeat("─", 60))
	gn.Info(`ETL complete
Merged rows: %s, states: %d, districts: %d, months: %s to %s.
Elapsed time: <em>%s</em>
`,
		humanize.Comma(int64(table.Len())),
		rep.States,
		rep.Districts,
		rep.FirstMonth,
		rep.LastMonth,
		gnfmt.TimeString(totalDuration.Seconds()),
	)

	res := &ident.Result{
		Merged:   table,
		Mappings: resolver.NameMap(),
		Quality:  rep,
	}
	return res, nil
}

// canonicalize rewrites state and district names on every record.
// The resolver memoizes per raw spelling and is not goroutine-safe,
// so categories are resolved serially.
func (r *runner) canonicalize(
	raw map[ident.Category][]ident.RawRecord,
	rep *ident.QualityReport,
) (*canon.Resolver, map[ident.Category][]ident.RawRecord) {
	resolver := canon.NewResolver(
		r.cfg.Match.StateThreshold,
		r.cfg.Match.DistrictThreshold,
	)

	res := make(map[ident.Category][]ident.RawRecord, len(raw))
	for _, cat := range ident.Categories {
		res[cat] = etl.Canonicalize(
			raw[cat],
			resolver,
			r.cfg.Match.IncludeUnmatched,
			rep.Categories[cat],
		)
	}

	var unmapped int
	for _, cat := range ident.Categories {
		unmapped += rep.Categories[cat].UnmappedStateRows
	}
	if unmapped > 0 {
		gn.Warn("<em>%s</em> rows have unrecognized state names",
			humanize.Comma(int64(unmapped)))
		slog.Warn("Rows with unrecognized state names",
			"rows", unmapped,
			"include_unmatched", r.cfg.Match.IncludeUnmatched,
		)
	}

	gn.Message("<em>Resolved %s distinct place spellings</em>",
		humanize.Comma(int64(resolver.NameMap().Len())))
	slog.Info("Canonicalization complete",
		"distinct_spellings", resolver.NameMap().Len())
	return resolver, res
}

// validate deduplicates records and drops rows with bad pincodes or
// unparseable dates, counting every drop in the quality report.
func (r *runner) validate(
	canonical map[ident.Category][]ident.RawRecord,
	rep *ident.QualityReport,
) map[ident.Category][]ident.CleanRecord {
	res := make(map[ident.Category][]ident.CleanRecord, len(canonical))
	var kept, dropped int
	for _, cat := range ident.Categories {
		cq := rep.Categories[cat]
		res[cat] = etl.Validate(canonical[cat], cq)
		kept += len(res[cat])
		dropped += cq.Duplicates + cq.BadPincode + cq.BadDate
	}

	gn.Message("<em>Kept %s clean rows, dropped %s</em>",
		humanize.Comma(int64(kept)), humanize.Comma(int64(dropped)))
	slog.Info("Validation complete", "kept", kept, "dropped", dropped)
	return res
}

// aggregate folds pincode-level records into district-month groups,
// one frame per category.
func (r *runner) aggregate(
	clean map[ident.Category][]ident.CleanRecord,
) map[ident.Category]map[ident.Key][3]int64 {
	frames := make(map[ident.Category]map[ident.Key][3]int64, len(clean))
	var groups int
	for _, cat := range ident.Categories {
		frames[cat] = etl.Aggregate(clean[cat])
		groups += len(frames[cat])
	}

	gn.Message("<em>Aggregated into %s category groups</em>",
		humanize.Comma(int64(groups)))
	slog.Info("Aggregation complete", "groups", groups)
	return frames
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return CancelledError(ctx.Err())
	default:
		return nil
	}
}
