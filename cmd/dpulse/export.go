package main

import (
	"context"

	"github.com/distpulse/dpulse/internal/iodb"
	"github.com/distpulse/dpulse/internal/ioexport"
	"github.com/distpulse/dpulse/internal/iostore"
	"github.com/distpulse/dpulse/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getExportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored tables out in a user-facing format",
		Long: `Write the stored tables and their derived views out.

This command reads the merged table, the name mappings and the
analysis outputs back from PostgreSQL, derives the presentation
views (migration corridors, seasonal patterns, peer comparisons,
district rankings and the rest), and writes everything under the
export path.

Formats:
  xlsx    one workbook, one sheet per table (default)
  csv     a csv/ directory with one file per table
  json    a json/ directory with one document per table
  sqlite  a single self-contained database file

Score tables that have not been computed yet come out empty;
run 'dpulse analyze' to fill them.

Examples:
  # Spreadsheet under ~/.local/share/dpulse/exports
  dpulse export

  # Everything as csv files in a chosen directory
  dpulse export --format csv --out /tmp/dpulse-report

  # Snapshot for downstream tools
  dpulse export -f sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExport(cmd, format, out)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	exportCmd.Flags().StringVarP(
		&format, "format", "f", "",
		"export format: xlsx, csv, json or sqlite (default: xlsx)",
	)
	exportCmd.Flags().StringVarP(
		&out, "out", "o", "",
		"output directory (default: ~/.local/share/dpulse/exports)",
	)

	return exportCmd
}

func runExport(cmd *cobra.Command, format, out string) error {
	ctx := context.Background()

	// Build options from explicitly set flags
	var exportOpts []config.Option

	if cmd.Flags().Changed("format") {
		exportOpts = append(exportOpts, config.OptExportFormat(format))
	}

	if cmd.Flags().Changed("out") {
		exportOpts = append(exportOpts, config.OptExportPath(out))
	}

	// Apply export-specific options to config
	if len(exportOpts) > 0 {
		cfg.Update(exportOpts)
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
	exp := ioexport.New(cfg, st)

	return exp.Export(ctx)
}
