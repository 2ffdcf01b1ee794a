package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/distpulse/dpulse/internal/iodb"
	"github.com/distpulse/dpulse/internal/iostore"
	"github.com/distpulse/dpulse/pkg/analytics"
	"github.com/distpulse/dpulse/pkg/config"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

// getAnalyzeCmd returns the analyze command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getAnalyzeCmd() *cobra.Command {
	var (
		modules       []string
		jobs          int
		contamination float64
		horizon       int
	)

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the analytical modules over the merged table",
		Long: `Run the analytical modules over the stored district-month table.

This command:
  1. Connects to PostgreSQL and loads the merged table
  2. Runs the selected modules, independent ones concurrently
  3. Stores the score tables, replacing previous analysis results

Modules (default: all):
  fraud      Benford first-digit screening and isolation-forest
             outliers, combined into a suspect list
  migration  in- and out-migration pressure per district
  welfare    child biometric update coverage and risk tiers
  forecast   per-state enrolment forecasts, emerging hotspots and
             future fraud risks
  benchmark  state performance scores and rankings
  policy     intervention plans and recommendations (pulls in
             fraud, welfare and migration)

Prerequisites:
  - Database must be created (run 'dpulse create' first)
  - Merged table must be loaded (run 'dpulse etl' first)

Examples:
  # Run every module
  dpulse analyze

  # Only the fraud screen, with a stricter outlier share
  dpulse analyze --modules fraud --contamination 0.02

  # Fraud and welfare together on four workers
  dpulse analyze -m fraud,welfare --jobs 4

  # Look further ahead
  dpulse analyze -m forecast --horizon 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAnalyze(
				cmd, modules, jobs, contamination, horizon,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	analyzeCmd.Flags().StringSliceVarP(
		&modules, "modules", "m", []string{},
		"analytical modules to run (empty = all)",
	)
	analyzeCmd.Flags().IntVar(
		&jobs, "jobs", 0,
		"number of concurrent workers (default: number of CPU cores)",
	)
	analyzeCmd.Flags().Float64Var(
		&contamination, "contamination", 0,
		"expected fraction of outlier districts, 0-0.5 (default: 0.05)",
	)
	analyzeCmd.Flags().IntVar(
		&horizon, "horizon", 0,
		"months to forecast ahead (default: 6)",
	)

	return analyzeCmd
}

func runAnalyze(
	cmd *cobra.Command,
	modules []string,
	jobs int,
	contamination float64,
	horizon int,
) error {
	ctx := context.Background()

	// Build options from explicitly set flags
	var analyzeOpts []config.Option

	if cmd.Flags().Changed("modules") {
		analyzeOpts = append(
			analyzeOpts,
			config.OptAnalyzeModules(modules),
		)
	}

	if cmd.Flags().Changed("jobs") {
		analyzeOpts = append(analyzeOpts, config.OptJobsNumber(jobs))
	}

	if cmd.Flags().Changed("contamination") {
		analyzeOpts = append(
			analyzeOpts,
			config.OptFraudContamination(contamination),
		)
	}

	if cmd.Flags().Changed("horizon") {
		analyzeOpts = append(
			analyzeOpts,
			config.OptForecastHorizonMonths(horizon),
		)
	}

	// Apply analyze-specific options to config
	if len(analyzeOpts) > 0 {
		cfg.Update(analyzeOpts)
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

	table, err := st.LoadMergedTable(ctx)
	if err != nil {
		return err
	}
	gn.Message("<em>Loaded %s merged district-month rows</em>",
		humanize.Comma(int64(table.Len())))

	gn.Info("Running analytical modules...")
	out, err := analytics.Run(ctx, table, cfg, cfg.Analyze.Modules)
	if err != nil {
		return err
	}

	printAnalysisSummary(out)

	if err := st.StoreAnalysis(ctx, out); err != nil {
		return err
	}

	successMsg := gnlib.FormatMessage(`
<em>✓ Analysis complete, the score tables are stored.</em>
Run <em>dpulse export</em> to write them out as xlsx, csv, json
or sqlite.
`,
		nil,
	)
	fmt.Println(successMsg)

	return nil
}

// printAnalysisSummary prints one line per module that ran. A nil
// output slice means its module was not selected.
func printAnalysisSummary(out *analytics.Outputs) {
	fmt.Println(strings.Repeat("─", 60))
	gn.Info("Analysis summary")

	if out.Suspects != nil {
		gn.Message(
			"<em>fraud</em>: %s suspect districts from %s Benford "+
				"and %s anomaly scores",
			humanize.Comma(int64(len(out.Suspects))),
			humanize.Comma(int64(len(out.Benford))),
			humanize.Comma(int64(len(out.Anomalies))),
		)
	}

	if out.Migration != nil {
		var highIn, highOut int
		for _, r := range out.Migration {
			switch r.MigrationType {
			case analytics.MigrationHighIn:
				highIn++
			case analytics.MigrationHighOut:
				highOut++
			}
		}
		gn.Message(
			"<em>migration</em>: %s districts scored, "+
				"%d high in-migration, %d high out-migration",
			humanize.Comma(int64(len(out.Migration))),
			highIn, highOut,
		)
	}

	if out.Welfare != nil {
		var critical, high int
		for _, r := range out.Welfare {
			switch r.RiskLevel {
			case analytics.RiskCritical:
				critical++
			case analytics.RiskHigh:
				high++
			}
		}
		gn.Message(
			"<em>welfare</em>: %s districts tiered, "+
				"%d critical risk, %d high risk",
			humanize.Comma(int64(len(out.Welfare))),
			critical, high,
		)
	}

	if out.Forecasts != nil {
		gn.Message(
			"<em>forecast</em>: %d state forecasts, "+
				"%d emerging hotspots, %d future fraud risks",
			len(out.Forecasts), len(out.Hotspots),
			len(out.FutureRisks),
		)
	}

	if out.Performance != nil {
		gn.Message("<em>benchmark</em>: %d states ranked",
			len(out.Performance))
	}

	if out.Recommendations != nil {
		gn.Message(
			"<em>policy</em>: %d fraud, %d welfare and "+
				"%d infrastructure plans, %d recommendations",
			len(out.FraudPlans), len(out.WelfarePlans),
			len(out.InfraPlans), len(out.Recommendations),
		)
	}
}
