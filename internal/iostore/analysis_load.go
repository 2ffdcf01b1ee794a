package iostore

import (
	"context"
	"log/slog"

	"github.com/distpulse/dpulse/pkg/analytics"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadAnalysis reads all stored analysis outputs back. Each table is
// read in serial-id order, which reproduces the ranking its module
// produced. A module that never ran comes back as a nil slice.
func (s *store) LoadAnalysis(
	ctx context.Context,
) (*analytics.Outputs, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	out := &analytics.Outputs{}
	var err error

	if out.Benford, err = loadBenford(ctx, pool); err != nil {
		return nil, LoadAnalysisError("benford_scores", err)
	}
	if out.Anomalies, err = loadAnomalies(ctx, pool); err != nil {
		return nil, LoadAnalysisError("anomaly_scores", err)
	}
	if out.Suspects, err = loadSuspects(ctx, pool); err != nil {
		return nil, LoadAnalysisError("fraud_suspects", err)
	}
	if out.Migration, err = loadMigration(ctx, pool); err != nil {
		return nil, LoadAnalysisError("migration_scores", err)
	}
	if out.Welfare, err = loadWelfare(ctx, pool); err != nil {
		return nil, LoadAnalysisError("welfare_scores", err)
	}
	if out.Forecasts, err = loadForecasts(ctx, pool); err != nil {
		return nil, LoadAnalysisError("state_forecasts", err)
	}
	if out.Hotspots, err = loadHotspots(ctx, pool); err != nil {
		return nil, LoadAnalysisError("emerging_hotspots", err)
	}
	if out.FutureRisks, err = loadFutureRisks(ctx, pool); err != nil {
		return nil, LoadAnalysisError("future_fraud_risks", err)
	}
	if out.Performance, err = loadPerformance(ctx, pool); err != nil {
		return nil, LoadAnalysisError("state_performance", err)
	}
	if out.FraudPlans, err = loadFraudPlans(ctx, pool); err != nil {
		return nil, LoadAnalysisError("fraud_interventions", err)
	}
	if out.WelfarePlans, err = loadWelfarePlans(ctx, pool); err != nil {
		return nil, LoadAnalysisError("welfare_interventions", err)
	}
	if out.InfraPlans, err = loadInfraPlans(ctx, pool); err != nil {
		return nil, LoadAnalysisError("infrastructure_plans", err)
	}
	out.Recommendations, err = loadRecommendations(ctx, pool)
	if err != nil {
		return nil, LoadAnalysisError("policy_recommendations", err)
	}

	slog.Info("Loaded analysis outputs",
		"benford", len(out.Benford),
		"suspects", len(out.Suspects),
		"migration", len(out.Migration),
		"welfare", len(out.Welfare),
		"forecasts", len(out.Forecasts),
		"recommendations", len(out.Recommendations),
	)

	return out, nil
}

// queryRows runs a query and scans every row with scan, preserving
// row order.
func queryRows[T any](
	ctx context.Context,
	pool *pgxpool.Pool,
	query string,
	scan func(rows pgx.Rows) (T, error),
) ([]T, error) {
	dbRows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer dbRows.Close()

	var res []T
	for dbRows.Next() {
		item, err := scan(dbRows)
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, dbRows.Err()
}

func loadBenford(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.BenfordRow, error) {
	query := `
SELECT state, district, total_enrolment, series_len, chi_square,
       critical, p_value, deviation_factor, risk_level, reason
  FROM benford_scores
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.BenfordRow, error) {
			var r analytics.BenfordRow
			err := rows.Scan(
				&r.State, &r.District, &r.TotalEnrolment, &r.SeriesLen,
				&r.ChiSquare, &r.Critical, &r.PValue,
				&r.DeviationFactor, &r.RiskLevel, &r.Reason,
			)
			return r, err
		})
}

func loadAnomalies(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.AnomalyRow, error) {
	query := `
SELECT state, district, enrol_adult, total_enrolment,
       adult_enrol_ratio, adult_per_bio_update, anomaly_score,
       is_anomaly
  FROM anomaly_scores
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.AnomalyRow, error) {
			var r analytics.AnomalyRow
			err := rows.Scan(
				&r.State, &r.District, &r.EnrolAdult, &r.TotalEnrolment,
				&r.AdultEnrolRatio, &r.AdultPerBioUpdate,
				&r.AnomalyScore, &r.IsAnomaly,
			)
			return r, err
		})
}

func loadSuspects(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.SuspectRow, error) {
	query := `
SELECT state, district, total_enrolment, chi_square,
       deviation_factor, benford_risk, anomaly_score, is_anomaly,
       risk_score, dual_detection
  FROM fraud_suspects
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.SuspectRow, error) {
			var r analytics.SuspectRow
			err := rows.Scan(
				&r.State, &r.District, &r.TotalEnrolment, &r.ChiSquare,
				&r.DeviationFactor, &r.BenfordRisk, &r.AnomalyScore,
				&r.IsAnomaly, &r.RiskScore, &r.DualDetection,
			)
			return r, err
		})
}

func loadMigration(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.MigrationRow, error) {
	query := `
SELECT state, district, total_enrolment, total_demo_updates,
       total_bio_auth, in_score, out_score, net_score, intensity,
       migration_type
  FROM migration_scores
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.MigrationRow, error) {
			var r analytics.MigrationRow
			err := rows.Scan(
				&r.State, &r.District, &r.TotalEnrolment,
				&r.TotalDemoUpdates, &r.TotalBioAuth, &r.InScore,
				&r.OutScore, &r.NetScore, &r.Intensity,
				&r.MigrationType,
			)
			return r, err
		})
}

func loadWelfare(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.WelfareRow, error) {
	query := `
SELECT state, district, bio_child, enrol_child, demo_child,
       bio_adult, enrol_adult, total_enrolment, total_child_activity,
       child_mbu_rate, total_adult_activity, adult_mbu_rate, mbu_gap,
       child_engagement, expected_child_mbu, shortfall, percentile,
       risk_level
  FROM welfare_scores
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.WelfareRow, error) {
			var r analytics.WelfareRow
			err := rows.Scan(
				&r.State, &r.District, &r.BioChild, &r.EnrolChild,
				&r.DemoChild, &r.BioAdult, &r.EnrolAdult,
				&r.TotalEnrolment, &r.TotalChildActivity,
				&r.ChildMBURate, &r.TotalAdultActivity, &r.AdultMBURate,
				&r.MBUGap, &r.ChildEngagement, &r.ExpectedChildMBU,
				&r.Shortfall, &r.Percentile, &r.RiskLevel,
			)
			return r, err
		})
}

func loadForecasts(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.ForecastRow, error) {
	enc := gnfmt.GNjson{}
	query := `
SELECT state, months, current_monthly_avg, growth_rate_pct, trend,
       forecasts, forecast_total, confidence, std_error,
       conf_interval, policy, reason
  FROM state_forecasts
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.ForecastRow, error) {
			var r analytics.ForecastRow
			var forecasts []byte
			err := rows.Scan(
				&r.State, &r.Months, &r.CurrentMonthlyAvg,
				&r.GrowthRatePct, &r.Trend, &forecasts,
				&r.ForecastTotal, &r.Confidence, &r.StdError,
				&r.ConfInterval, &r.Policy, &r.Reason,
			)
			if err != nil {
				return r, err
			}
			if len(forecasts) > 0 {
				if err = enc.Decode(forecasts, &r.Forecasts); err != nil {
					return r, err
				}
			}
			return r, nil
		})
}

func loadHotspots(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.HotspotRow, error) {
	query := `
SELECT state, district, avg_activity, growth_rate_pct,
       acceleration_pct, status
  FROM emerging_hotspots
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.HotspotRow, error) {
			var r analytics.HotspotRow
			err := rows.Scan(
				&r.State, &r.District, &r.AvgActivity, &r.GrowthRatePct,
				&r.AccelerationPct, &r.Status,
			)
			return r, err
		})
}

func loadFutureRisks(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.FutureRiskRow, error) {
	query := `
SELECT state, district, fraud_risk_score, predicted_risk,
       adult_enrol_ratio, bio_to_enrol_ratio, demo_to_bio_ratio,
       total_enrolment
  FROM future_fraud_risks
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.FutureRiskRow, error) {
			var r analytics.FutureRiskRow
			err := rows.Scan(
				&r.State, &r.District, &r.FraudRiskScore,
				&r.PredictedRisk, &r.AdultEnrolRatio,
				&r.BioToEnrolRatio, &r.DemoToBioRatio,
				&r.TotalEnrolment,
			)
			return r, err
		})
}

func loadPerformance(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.PerformanceRow, error) {
	query := `
SELECT state, total_enrolment, bio_update_rate, child_bio_compliance,
       demo_activity_score, adult_enrol_ratio, bio_score, child_score,
       demo_score, adult_score, composite_index, national_rank, tier,
       vs_national_avg
  FROM state_performance
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.PerformanceRow, error) {
			var r analytics.PerformanceRow
			err := rows.Scan(
				&r.State, &r.TotalEnrolment, &r.BioUpdateRate,
				&r.ChildBioCompliance, &r.DemoActivityScore,
				&r.AdultEnrolRatio, &r.BioScore, &r.ChildScore,
				&r.DemoScore, &r.AdultScore, &r.CompositeIndex,
				&r.NationalRank, &r.Tier, &r.VsNationalAvg,
			)
			return r, err
		})
}

func loadFraudPlans(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.FraudPlanRow, error) {
	query := `
SELECT state, district, total_enrolment, ghost_enrolments,
       annual_savings, audit_cost, roi_pct, priority
  FROM fraud_interventions
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.FraudPlanRow, error) {
			var r analytics.FraudPlanRow
			err := rows.Scan(
				&r.State, &r.District, &r.TotalEnrolment,
				&r.GhostEnrolments, &r.AnnualSavings, &r.AuditCost,
				&r.ROIPct, &r.Priority,
			)
			return r, err
		})
}

func loadWelfarePlans(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.WelfarePlanRow, error) {
	query := `
SELECT state, district, children_at_risk, children_helped,
       welfare_value, program_cost, roi_pct, priority
  FROM welfare_interventions
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.WelfarePlanRow, error) {
			var r analytics.WelfarePlanRow
			err := rows.Scan(
				&r.State, &r.District, &r.ChildrenAtRisk,
				&r.ChildrenHelped, &r.WelfareValue, &r.ProgramCost,
				&r.ROIPct, &r.Priority,
			)
			return r, err
		})
}

func loadInfraPlans(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.InfraPlanRow, error) {
	query := `
SELECT state, district, new_residents, ration_shops, health_centres,
       school_seats, total_cost, urgency
  FROM infrastructure_plans
 ORDER BY id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.InfraPlanRow, error) {
			var r analytics.InfraPlanRow
			err := rows.Scan(
				&r.State, &r.District, &r.NewResidents, &r.RationShops,
				&r.HealthCentres, &r.SchoolSeats, &r.TotalCost,
				&r.Urgency,
			)
			return r, err
		})
}

func loadRecommendations(
	ctx context.Context, pool *pgxpool.Pool,
) ([]analytics.RecommendationRow, error) {
	query := `
SELECT category, priority, recommendation, expected_impact, timeline,
       responsible
  FROM policy_recommendations
 ORDER BY sort_order, id`
	return queryRows(ctx, pool, query,
		func(rows pgx.Rows) (analytics.RecommendationRow, error) {
			var r analytics.RecommendationRow
			err := rows.Scan(
				&r.Category, &r.Priority, &r.Recommendation,
				&r.ExpectedImpact, &r.Timeline, &r.Responsible,
			)
			return r, err
		})
}
