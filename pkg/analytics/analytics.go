// Package analytics implements the analytical modules that run over
// the merged district-month table: fraud screening, migration
// patterns, child-welfare coverage, enrolment forecasting, state
// benchmarking and policy impact simulation.
//
// Every module function is pure: it reads the table (and, where
// stated, other modules' outputs), never mutates its inputs, and
// returns deterministically ordered rows. Ratios use damped
// denominators (x/(y+1)) so no output ever carries a NaN or Inf.
// Concurrency is confined to Run.
package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/ident"
	"golang.org/x/sync/errgroup"
)

// Selectable module names.
const (
	ModuleFraud     = "fraud"
	ModuleMigration = "migration"
	ModuleWelfare   = "welfare"
	ModuleForecast  = "forecast"
	ModuleBenchmark = "benchmark"
	ModulePolicy    = "policy"
)

// ModuleNames lists the selectable modules in their canonical order.
var ModuleNames = []string{
	ModuleFraud,
	ModuleMigration,
	ModuleWelfare,
	ModuleForecast,
	ModuleBenchmark,
	ModulePolicy,
}

// Outputs bundles the results of one analyze run. A nil slice means
// the corresponding module did not run; a module that ran but found
// nothing produces an empty, non-nil slice.
type Outputs struct {
	Benford         []BenfordRow
	Anomalies       []AnomalyRow
	Suspects        []SuspectRow
	Migration       []MigrationRow
	Welfare         []WelfareRow
	Forecasts       []ForecastRow
	Hotspots        []HotspotRow
	FutureRisks     []FutureRiskRow
	Performance     []PerformanceRow
	FraudPlans      []FraudPlanRow
	WelfarePlans    []WelfarePlanRow
	InfraPlans      []InfraPlanRow
	Recommendations []RecommendationRow
}

// Run executes the selected modules over the table. Independent
// modules run concurrently; joins (combined fraud suspects) and the
// policy simulations run afterwards over the finished outputs. An
// empty modules slice selects everything; selecting "policy" pulls in
// the modules whose outputs it consumes.
func Run(
	ctx context.Context,
	t *ident.MergedTable,
	cfg *config.Config,
	modules []string,
) (*Outputs, error) {
	selected, err := selectModules(modules)
	if err != nil {
		return nil, err
	}

	out := &Outputs{}
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(cfg.JobsNumber)

	if selected[ModuleFraud] {
		g.Go(func() error {
			out.Benford = Benford(t, cfg.Fraud)
			return nil
		})
		g.Go(func() error {
			out.Anomalies = Anomalies(t, cfg.Fraud)
			return nil
		})
	}
	if selected[ModuleMigration] {
		g.Go(func() error {
			out.Migration = Migration(t)
			return nil
		})
	}
	if selected[ModuleWelfare] {
		g.Go(func() error {
			out.Welfare = Welfare(t, cfg.Welfare)
			return nil
		})
	}
	if selected[ModuleForecast] {
		g.Go(func() error {
			out.Forecasts = Forecasts(t, cfg.Forecast)
			return nil
		})
		g.Go(func() error {
			out.Hotspots = Hotspots(t)
			return nil
		})
		g.Go(func() error {
			out.FutureRisks = FutureRisks(t)
			return nil
		})
	}
	if selected[ModuleBenchmark] {
		g.Go(func() error {
			out.Performance = Performance(t)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if selected[ModuleFraud] {
		out.Suspects = Suspects(out.Benford, out.Anomalies)
	}
	if selected[ModulePolicy] {
		out.FraudPlans = FraudPlans(out.Suspects)
		out.WelfarePlans = WelfarePlans(out.Welfare)
		out.InfraPlans = InfraPlans(out.Migration)
		out.Recommendations = Recommendations(
			out.Suspects, out.Welfare, out.Migration,
		)
	}

	return out, nil
}

// selectModules validates the requested names and expands
// dependencies. Policy consumes fraud, welfare and migration outputs,
// so selecting it selects them.
func selectModules(modules []string) (map[string]bool, error) {
	selected := make(map[string]bool, len(ModuleNames))
	if len(modules) == 0 {
		for _, name := range ModuleNames {
			selected[name] = true
		}
		return selected, nil
	}

	valid := make(map[string]bool, len(ModuleNames))
	for _, name := range ModuleNames {
		valid[name] = true
	}
	for _, m := range modules {
		name := strings.ToLower(strings.TrimSpace(m))
		if !valid[name] {
			return nil, fmt.Errorf(
				"unknown module '%s' (valid modules: %s)",
				m, strings.Join(ModuleNames, ", "),
			)
		}
		selected[name] = true
	}

	if selected[ModulePolicy] {
		selected[ModuleFraud] = true
		selected[ModuleWelfare] = true
		selected[ModuleMigration] = true
	}
	return selected, nil
}
