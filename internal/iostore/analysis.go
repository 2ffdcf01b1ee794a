package iostore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/distpulse/dpulse/pkg/analytics"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
)

// Score table columns, minus the serial id, in insert order. The
// loaders in analysis_load.go scan in the same order.
var (
	benfordColumns = []string{
		"state", "district", "total_enrolment", "series_len",
		"chi_square", "critical", "p_value", "deviation_factor",
		"risk_level", "reason",
	}
	anomalyColumns = []string{
		"state", "district", "enrol_adult", "total_enrolment",
		"adult_enrol_ratio", "adult_per_bio_update",
		"anomaly_score", "is_anomaly",
	}
	suspectColumns = []string{
		"state", "district", "total_enrolment", "chi_square",
		"deviation_factor", "benford_risk", "anomaly_score",
		"is_anomaly", "risk_score", "dual_detection",
	}
	migrationColumns = []string{
		"state", "district", "total_enrolment", "total_demo_updates",
		"total_bio_auth", "in_score", "out_score", "net_score",
		"intensity", "migration_type",
	}
	welfareColumns = []string{
		"state", "district", "bio_child", "enrol_child", "demo_child",
		"bio_adult", "enrol_adult", "total_enrolment",
		"total_child_activity", "child_mbu_rate",
		"total_adult_activity", "adult_mbu_rate", "mbu_gap",
		"child_engagement", "expected_child_mbu", "shortfall",
		"percentile", "risk_level",
	}
	forecastColumns = []string{
		"state", "months", "current_monthly_avg", "growth_rate_pct",
		"trend", "forecasts", "forecast_total", "confidence",
		"std_error", "conf_interval", "policy", "reason",
	}
	hotspotColumns = []string{
		"state", "district", "avg_activity", "growth_rate_pct",
		"acceleration_pct", "status",
	}
	futureRiskColumns = []string{
		"state", "district", "fraud_risk_score", "predicted_risk",
		"adult_enrol_ratio", "bio_to_enrol_ratio", "demo_to_bio_ratio",
		"total_enrolment",
	}
	performanceColumns = []string{
		"state", "total_enrolment", "bio_update_rate",
		"child_bio_compliance", "demo_activity_score",
		"adult_enrol_ratio", "bio_score", "child_score", "demo_score",
		"adult_score", "composite_index", "national_rank", "tier",
		"vs_national_avg",
	}
	fraudPlanColumns = []string{
		"state", "district", "total_enrolment", "ghost_enrolments",
		"annual_savings", "audit_cost", "roi_pct", "priority",
	}
	welfarePlanColumns = []string{
		"state", "district", "children_at_risk", "children_helped",
		"welfare_value", "program_cost", "roi_pct", "priority",
	}
	infraPlanColumns = []string{
		"state", "district", "new_residents", "ration_shops",
		"health_centres", "school_seats", "total_cost", "urgency",
	}
	recommendationColumns = []string{
		"sort_order", "category", "priority", "recommendation",
		"expected_impact", "timeline", "responsible",
	}
)

// StoreAnalysis replaces the stored outputs of the analytical
// modules. All thirteen score tables are rewritten inside one
// transaction, so readers never observe a half-replaced state. Bulk
// loading uses pgx CopyFrom; the serial ids assigned in copy order
// let the loaders reproduce each module's ranking.
func (s *store) StoreAnalysis(
	ctx context.Context,
	out *analytics.Outputs,
) error {
	pool := s.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	startTime := time.Now()

	forecastRecs, err := forecastRecords(out.Forecasts)
	if err != nil {
		return StoreAnalysisError("state_forecasts", err)
	}

	batches := []struct {
		table   string
		columns []string
		records [][]any
	}{
		{"benford_scores", benfordColumns,
			benfordRecords(out.Benford)},
		{"anomaly_scores", anomalyColumns,
			anomalyRecords(out.Anomalies)},
		{"fraud_suspects", suspectColumns,
			suspectRecords(out.Suspects)},
		{"migration_scores", migrationColumns,
			migrationRecords(out.Migration)},
		{"welfare_scores", welfareColumns,
			welfareRecords(out.Welfare)},
		{"state_forecasts", forecastColumns, forecastRecs},
		{"emerging_hotspots", hotspotColumns,
			hotspotRecords(out.Hotspots)},
		{"future_fraud_risks", futureRiskColumns,
			futureRiskRecords(out.FutureRisks)},
		{"state_performance", performanceColumns,
			performanceRecords(out.Performance)},
		{"fraud_interventions", fraudPlanColumns,
			fraudPlanRecords(out.FraudPlans)},
		{"welfare_interventions", welfarePlanColumns,
			welfarePlanRecords(out.WelfarePlans)},
		{"infrastructure_plans", infraPlanColumns,
			infraPlanRecords(out.InfraPlans)},
		{"policy_recommendations", recommendationColumns,
			recommendationRecords(out.Recommendations)},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return StoreAnalysisError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	for _, b := range batches {
		if _, err = tx.Exec(ctx, "DELETE FROM "+b.table); err != nil {
			return StoreAnalysisError(b.table, err)
		}
		if len(b.records) == 0 {
			continue
		}

		n, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{b.table},
			b.columns,
			pgx.CopyFromRows(b.records),
		)
		if err != nil {
			return StoreAnalysisError(b.table, err)
		}
		total += n
	}

	if err = tx.Commit(ctx); err != nil {
		return StoreAnalysisError("commit transaction", err)
	}

	slog.Info("Analysis outputs stored",
		"rows", total,
		"tables", len(batches),
		"duration", gnfmt.TimeString(time.Since(startTime).Seconds()),
	)
	gn.Message("<em>Stored %s analysis rows across %d tables</em>",
		humanize.Comma(total), len(batches))

	return nil
}

func benfordRecords(rows []analytics.BenfordRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.TotalEnrolment, r.SeriesLen,
			r.ChiSquare, r.Critical, r.PValue, r.DeviationFactor,
			r.RiskLevel, r.Reason,
		})
	}
	return res
}

func anomalyRecords(rows []analytics.AnomalyRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.EnrolAdult, r.TotalEnrolment,
			r.AdultEnrolRatio, r.AdultPerBioUpdate,
			r.AnomalyScore, r.IsAnomaly,
		})
	}
	return res
}

func suspectRecords(rows []analytics.SuspectRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.TotalEnrolment, r.ChiSquare,
			r.DeviationFactor, r.BenfordRisk, r.AnomalyScore,
			r.IsAnomaly, r.RiskScore, r.DualDetection,
		})
	}
	return res
}

func migrationRecords(rows []analytics.MigrationRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.TotalEnrolment, r.TotalDemoUpdates,
			r.TotalBioAuth, r.InScore, r.OutScore, r.NetScore,
			r.Intensity, r.MigrationType,
		})
	}
	return res
}

func welfareRecords(rows []analytics.WelfareRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.BioChild, r.EnrolChild, r.DemoChild,
			r.BioAdult, r.EnrolAdult, r.TotalEnrolment,
			r.TotalChildActivity, r.ChildMBURate,
			r.TotalAdultActivity, r.AdultMBURate, r.MBUGap,
			r.ChildEngagement, r.ExpectedChildMBU, r.Shortfall,
			r.Percentile, r.RiskLevel,
		})
	}
	return res
}

// forecastRecords encodes the projected monthly series of every state
// as a JSON array for the jsonb column.
func forecastRecords(rows []analytics.ForecastRow) ([][]any, error) {
	enc := gnfmt.GNjson{}
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		forecasts, err := enc.Encode(r.Forecasts)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to encode forecast months: %w", err,
			)
		}
		res = append(res, []any{
			r.State, r.Months, r.CurrentMonthlyAvg, r.GrowthRatePct,
			r.Trend, string(forecasts), r.ForecastTotal, r.Confidence,
			r.StdError, r.ConfInterval, r.Policy, r.Reason,
		})
	}
	return res, nil
}

func hotspotRecords(rows []analytics.HotspotRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.AvgActivity, r.GrowthRatePct,
			r.AccelerationPct, r.Status,
		})
	}
	return res
}

func futureRiskRecords(rows []analytics.FutureRiskRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.FraudRiskScore, r.PredictedRisk,
			r.AdultEnrolRatio, r.BioToEnrolRatio, r.DemoToBioRatio,
			r.TotalEnrolment,
		})
	}
	return res
}

func performanceRecords(rows []analytics.PerformanceRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.TotalEnrolment, r.BioUpdateRate,
			r.ChildBioCompliance, r.DemoActivityScore,
			r.AdultEnrolRatio, r.BioScore, r.ChildScore, r.DemoScore,
			r.AdultScore, r.CompositeIndex, r.NationalRank, r.Tier,
			r.VsNationalAvg,
		})
	}
	return res
}

func fraudPlanRecords(rows []analytics.FraudPlanRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.TotalEnrolment, r.GhostEnrolments,
			r.AnnualSavings, r.AuditCost, r.ROIPct, r.Priority,
		})
	}
	return res
}

func welfarePlanRecords(rows []analytics.WelfarePlanRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.ChildrenAtRisk, r.ChildrenHelped,
			r.WelfareValue, r.ProgramCost, r.ROIPct, r.Priority,
		})
	}
	return res
}

func infraPlanRecords(rows []analytics.InfraPlanRow) [][]any {
	res := make([][]any, 0, len(rows))
	for _, r := range rows {
		res = append(res, []any{
			r.State, r.District, r.NewResidents, r.RationShops,
			r.HealthCentres, r.SchoolSeats, r.TotalCost, r.Urgency,
		})
	}
	return res
}

// recommendationRecords keeps the table's original order in the
// sort_order column; recommendations have no natural sort key.
func recommendationRecords(rows []analytics.RecommendationRow) [][]any {
	res := make([][]any, 0, len(rows))
	for i, r := range rows {
		res = append(res, []any{
			i, r.Category, r.Priority, r.Recommendation,
			r.ExpectedImpact, r.Timeline, r.Responsible,
		})
	}
	return res
}
