// Package ioexport writes the stored tables and their derived views
// out as an xlsx workbook, a directory of csv or json files, or a
// single-file sqlite snapshot. The database is the source of truth;
// the derived views are recomputed from the loaded tables at export
// time.
package ioexport

import (
	"context"
	"log/slog"
	"time"

	"github.com/distpulse/dpulse/pkg/analytics"
	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// exporter implements the Exporter interface.
type exporter struct {
	cfg   *config.Config
	store pipeline.Store
}

// New creates a new Exporter reading from the given store.
func New(cfg *config.Config, st pipeline.Store) pipeline.Exporter {
	return &exporter{cfg: cfg, store: st}
}

// Export reads the merged table, the name mappings and the stored
// analysis back and writes them, plus the derived views, in the
// configured format. An empty merged table is fatal. Empty analysis
// tables only mean `dpulse analyze` has not run yet; they are written
// as headers without rows.
func (e *exporter) Export(ctx context.Context) error {
	startTime := time.Now()
	format := e.cfg.Export.Format
	dir := e.outDir()
	slog.Info("Starting export", "format", format, "dir", dir)

	gn.Info("(1/2) Reading stored tables...")
	t, err := e.store.LoadMergedTable(ctx)
	if err != nil {
		return err
	}
	mappings, err := e.store.LoadMappings(ctx)
	if err != nil {
		return err
	}
	out, err := e.store.LoadAnalysis(ctx)
	if err != nil {
		return err
	}
	if analysisEmpty(out) {
		gn.Warn("<em>No analysis outputs stored yet</em>, " +
			"run 'dpulse analyze' to fill the score tables")
		slog.Warn("Exporting without analysis outputs")
	}

	tables := buildTables(t, out, mappings)
	gn.Message("<em>Prepared %d tables from %s merged rows</em>",
		len(tables), humanize.Comma(int64(t.Len())))

	gn.Info("(2/2) Writing %s export...", format)
	var dest string
	switch format {
	case "xlsx":
		dest, err = writeXLSX(dir, tables)
	case "csv":
		dest, err = writeCSV(dir, tables)
	case "json":
		dest, err = writeJSON(dir, tables)
	case "sqlite":
		dest, err = writeSQLite(ctx, dir, tables)
	default:
		return FormatError(format)
	}
	if err != nil {
		return err
	}
	gn.Message("<em>Wrote %d tables to %s</em>", len(tables), dest)

	slog.Info("Export complete",
		"format", format,
		"tables", len(tables),
		"destination", dest,
		"duration", gnfmt.TimeString(time.Since(startTime).Seconds()),
	)
	return nil
}

// outDir resolves the target directory, falling back to the exports
// directory under the user's data files.
func (e *exporter) outDir() string {
	if e.cfg.Export.Path != "" {
		return e.cfg.Export.Path
	}
	return config.ExportDir(e.cfg.HomeDir)
}

// analysisEmpty reports whether no analytical module has stored
// anything yet.
func analysisEmpty(out *analytics.Outputs) bool {
	return len(out.Benford) == 0 &&
		len(out.Anomalies) == 0 &&
		len(out.Suspects) == 0 &&
		len(out.Migration) == 0 &&
		len(out.Welfare) == 0 &&
		len(out.Forecasts) == 0 &&
		len(out.Hotspots) == 0 &&
		len(out.FutureRisks) == 0 &&
		len(out.Performance) == 0 &&
		len(out.FraudPlans) == 0 &&
		len(out.WelfarePlans) == 0 &&
		len(out.InfraPlans) == 0 &&
		len(out.Recommendations) == 0
}
