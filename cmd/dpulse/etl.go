package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/distpulse/dpulse/internal/iodb"
	"github.com/distpulse/dpulse/internal/ioetl"
	"github.com/distpulse/dpulse/internal/iostore"
	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getEtlCmd returns the etl command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getEtlCmd() *cobra.Command {
	var (
		dataDir          string
		threshold        float64
		includeUnmatched bool
		dryRun           bool
	)

	etlCmd := &cobra.Command{
		Use:   "etl",
		Short: "Load, clean and merge the monthly CSV exports",
		Long: `Run the extract-transform-load pipeline over the monthly
identity-transaction exports.

This command:
  1. Reads the biometric, demographic and enrolment CSV files
     from the configured data directory
  2. Canonicalizes state and district spellings with fuzzy matching
  3. Deduplicates rows and drops ones with bad pincodes or dates
  4. Aggregates to district-month counters and merges the categories
  5. Prints the data quality summary and stores the result

Source layout is configured in: ~/.config/dpulse/sources.yaml
Each category names a directory scanned for *.csv files.

Use --dry-run to inspect the quality summary without writing
anything to the database.

Examples:
  # Run over the configured data directory
  dpulse etl

  # Run over a one-off export
  dpulse etl --data-dir /tmp/march-export

  # Accept looser state spellings and keep what still fails to match
  dpulse etl --threshold 65 --include-unmatched

  # Check the files without touching the database
  dpulse etl --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runEtl(
				cmd, dataDir, threshold,
				includeUnmatched, dryRun,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	etlCmd.Flags().StringVarP(
		&dataDir, "data-dir", "d", "",
		"root directory for category CSV files (default: data)",
	)
	etlCmd.Flags().Float64VarP(
		&threshold, "threshold", "t", 0,
		"fuzzy state match accept score, 0-100 (default: 75)",
	)
	etlCmd.Flags().BoolVarP(
		&includeUnmatched, "include-unmatched", "u", false,
		"keep rows with unmatched states under the 'Unmatched' bucket",
	)
	etlCmd.Flags().BoolVar(
		&dryRun, "dry-run", false,
		"run the pipeline and print the quality summary without storing",
	)

	return etlCmd
}

func runEtl(
	cmd *cobra.Command,
	dataDir string,
	threshold float64,
	includeUnmatched bool,
	dryRun bool,
) error {
	ctx := context.Background()

	// Build options from explicitly set flags
	var etlOpts []config.Option

	if cmd.Flags().Changed("data-dir") {
		etlOpts = append(etlOpts, config.OptDataDir(dataDir))
	}

	if cmd.Flags().Changed("threshold") {
		etlOpts = append(
			etlOpts,
			config.OptMatchStateThreshold(threshold),
		)
	}

	if cmd.Flags().Changed("include-unmatched") {
		etlOpts = append(
			etlOpts,
			config.OptMatchIncludeUnmatched(includeUnmatched),
		)
	}

	if cmd.Flags().Changed("dry-run") {
		etlOpts = append(etlOpts, config.OptEtlDryRun(dryRun))
	}

	// Apply etl-specific options to config
	if len(etlOpts) > 0 {
		cfg.Update(etlOpts)
	}

	// Run the pipeline
	runner := ioetl.New(cfg)
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	printQualitySummary(res.Quality)

	if cfg.Etl.DryRun {
		gn.Info("Dry run, nothing was stored. Re-run without " +
			"'--dry-run' to persist the result.")
		return nil
	}

	// Create database operator
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	// Check if database has tables
	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}

	if !hasTables {
		return iodb.EmptyDatabaseError(
			cfg.Database.Host, cfg.Database.Database,
		)
	}

	st := iostore.New(cfg, op)
	if err := st.StoreResult(ctx, res); err != nil {
		return err
	}

	gn.Info(`Next steps:
	 - Run '<em>dpulse analyze</em>' to compute the analytical tables
	 - Run '<em>dpulse export</em>' to write the results out
`)

	return nil
}

// printQualitySummary prints the per-category load and validation
// counters of a finished run.
func printQualitySummary(rep *ident.QualityReport) {
	fmt.Println(strings.Repeat("─", 60))
	gn.Info("Data quality for run <em>%s</em>", rep.RunID)

	var read, kept int
	for _, cat := range ident.Categories {
		cq := rep.Categories[cat]
		read += cq.RowsRead
		kept += cq.RowsKept

		gn.Message(
			"<em>%-11s</em> %d files (%d skipped), %s rows read, %s kept",
			cat, cq.FilesFound, cq.FilesSkipped,
			humanize.Comma(int64(cq.RowsRead)),
			humanize.Comma(int64(cq.RowsKept)),
		)
		gn.Message(
			"            dropped: %s duplicate, %s bad pincode, "+
				"%s bad date; unmapped state: %s",
			humanize.Comma(int64(cq.Duplicates)),
			humanize.Comma(int64(cq.BadPincode)),
			humanize.Comma(int64(cq.BadDate)),
			humanize.Comma(int64(cq.UnmappedStateRows)),
		)
	}

	printUnmappedStates(rep)

	gn.Message(
		"<em>Total</em>: %s rows read, %s kept, months %s to %s",
		humanize.Comma(int64(read)),
		humanize.Comma(int64(kept)),
		rep.FirstMonth, rep.LastMonth,
	)
}

// printUnmappedStates lists the distinct raw state spellings that
// never matched an official name, worst offenders first.
func printUnmappedStates(rep *ident.QualityReport) {
	merged := make(map[string]int)
	for _, cat := range ident.Categories {
		for raw, n := range rep.Categories[cat].UnmappedStates {
			merged[raw] += n
		}
	}
	if len(merged) == 0 {
		return
	}

	names := make([]string, 0, len(merged))
	for raw := range merged {
		names = append(names, raw)
	}
	sort.Slice(names, func(i, j int) bool {
		if merged[names[i]] != merged[names[j]] {
			return merged[names[i]] > merged[names[j]]
		}
		return names[i] < names[j]
	})

	gn.Warn("Unrecognized state names (%d distinct):", len(names))
	for _, raw := range names {
		gn.Warn("  <em>%s</em>: %s rows",
			raw, humanize.Comma(int64(merged[raw])))
	}
}
