package ioexport

import (
	"strconv"
	"strings"

	"github.com/distpulse/dpulse/pkg/analytics"
	"github.com/distpulse/dpulse/pkg/canon"
	"github.com/distpulse/dpulse/pkg/ident"
)

// table is one export unit: a sheet in the xlsx workbook, a file in
// the csv and json directories, a table in the sqlite snapshot. Cell
// values are strings, ints, int64s, float64s or bools; months and
// slices are flattened to strings when the table is built.
type table struct {
	name    string
	headers []string
	rows    [][]any
}

// buildTables assembles every stored table and derived view in
// workbook order. The persisted tables keep their database column
// names; the derived views are recomputed here from the loaded data.
func buildTables(
	t *ident.MergedTable,
	out *analytics.Outputs,
	mappings []canon.Entry,
) []table {
	season := analytics.Seasonal(t)
	return []table{
		mergedTable(t),
		mappingTable(mappings),
		benfordTable(out.Benford),
		anomalyTable(out.Anomalies),
		suspectTable(out.Suspects),
		migrationTable(out.Migration),
		welfareTable(out.Welfare),
		forecastTable(out.Forecasts),
		hotspotTable(out.Hotspots),
		futureRiskTable(out.FutureRisks),
		performanceTable(out.Performance),
		fraudPlanTable(out.FraudPlans),
		welfarePlanTable(out.WelfarePlans),
		infraPlanTable(out.InfraPlans),
		recommendationTable(out.Recommendations),
		corridorTable(analytics.Corridors(out.Migration)),
		seasonalTable(season),
		seasonalSummaryTable(season),
		mobilityTable(analytics.MobilityTrend(t)),
		childTrendTable(analytics.ChildTrend(t)),
		priorityTable(analytics.WelfarePriorities(out.Welfare)),
		peerTable(out.Performance),
		rankingTable(t),
		bestPracticeTable(analytics.BestPractices(
			out.Welfare, out.Migration, out.Benford)),
		laggardTable(analytics.Laggards(
			out.Performance, out.Welfare, out.Suspects)),
	}
}

func mergedTable(t *ident.MergedTable) table {
	rows := make([][]any, 0, t.Len())
	for _, r := range t.Rows() {
		rows = append(rows, []any{
			r.State, r.District, r.Month.String(),
			r.BioChild, r.BioAdult, r.DemoChild, r.DemoAdult,
			r.EnrolBaby, r.EnrolChild, r.EnrolAdult,
			r.TotalEnrolment,
		})
	}
	return table{
		name: "merged_rows",
		headers: []string{
			"state", "district", "month", "bio_child", "bio_adult",
			"demo_child", "demo_adult", "enrol_baby", "enrol_child",
			"enrol_adult", "total_enrolment",
		},
		rows: rows,
	}
}

func mappingTable(entries []canon.Entry) table {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			string(e.Kind), e.State, e.Raw, e.Canonical, e.Score,
			string(e.Match),
		})
	}
	return table{
		name: "name_mappings",
		headers: []string{
			"kind", "state", "raw", "canonical", "score", "match",
		},
		rows: rows,
	}
}

func benfordTable(rs []analytics.BenfordRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.TotalEnrolment, r.SeriesLen,
			r.ChiSquare, r.Critical, r.PValue, r.DeviationFactor,
			r.RiskLevel, r.Reason,
		})
	}
	return table{
		name: "benford_scores",
		headers: []string{
			"state", "district", "total_enrolment", "series_len",
			"chi_square", "critical", "p_value", "deviation_factor",
			"risk_level", "reason",
		},
		rows: rows,
	}
}

func anomalyTable(rs []analytics.AnomalyRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.EnrolAdult, r.TotalEnrolment,
			r.AdultEnrolRatio, r.AdultPerBioUpdate, r.AnomalyScore,
			r.IsAnomaly,
		})
	}
	return table{
		name: "anomaly_scores",
		headers: []string{
			"state", "district", "enrol_adult", "total_enrolment",
			"adult_enrol_ratio", "adult_per_bio_update",
			"anomaly_score", "is_anomaly",
		},
		rows: rows,
	}
}

func suspectTable(rs []analytics.SuspectRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.TotalEnrolment, r.ChiSquare,
			r.DeviationFactor, r.BenfordRisk, r.AnomalyScore,
			r.IsAnomaly, r.RiskScore, r.DualDetection,
		})
	}
	return table{
		name: "fraud_suspects",
		headers: []string{
			"state", "district", "total_enrolment", "chi_square",
			"deviation_factor", "benford_risk", "anomaly_score",
			"is_anomaly", "risk_score", "dual_detection",
		},
		rows: rows,
	}
}

func migrationTable(rs []analytics.MigrationRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.TotalEnrolment, r.TotalDemoUpdates,
			r.TotalBioAuth, r.InScore, r.OutScore, r.NetScore,
			r.Intensity, r.MigrationType,
		})
	}
	return table{
		name: "migration_scores",
		headers: []string{
			"state", "district", "total_enrolment",
			"total_demo_updates", "total_bio_auth", "in_score",
			"out_score", "net_score", "intensity", "migration_type",
		},
		rows: rows,
	}
}

func welfareTable(rs []analytics.WelfareRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.BioChild, r.EnrolChild,
			r.DemoChild, r.BioAdult, r.EnrolAdult, r.TotalEnrolment,
			r.TotalChildActivity, r.ChildMBURate,
			r.TotalAdultActivity, r.AdultMBURate, r.MBUGap,
			r.ChildEngagement, r.ExpectedChildMBU, r.Shortfall,
			r.Percentile, r.RiskLevel,
		})
	}
	return table{
		name: "welfare_scores",
		headers: []string{
			"state", "district", "bio_child", "enrol_child",
			"demo_child", "bio_adult", "enrol_adult",
			"total_enrolment", "total_child_activity",
			"child_mbu_rate", "total_adult_activity",
			"adult_mbu_rate", "mbu_gap", "child_engagement",
			"expected_child_mbu", "shortfall", "percentile",
			"risk_level",
		},
		rows: rows,
	}
}

func forecastTable(rs []analytics.ForecastRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.Months, r.CurrentMonthlyAvg, r.GrowthRatePct,
			r.Trend, joinFloats(r.Forecasts), r.ForecastTotal,
			r.Confidence, r.StdError, r.ConfInterval, r.Policy,
			r.Reason,
		})
	}
	return table{
		name: "state_forecasts",
		headers: []string{
			"state", "months", "current_monthly_avg",
			"growth_rate_pct", "trend", "forecasts", "forecast_total",
			"confidence", "std_error", "conf_interval", "policy",
			"reason",
		},
		rows: rows,
	}
}

func hotspotTable(rs []analytics.HotspotRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.AvgActivity, r.GrowthRatePct,
			r.AccelerationPct, r.Status,
		})
	}
	return table{
		name: "emerging_hotspots",
		headers: []string{
			"state", "district", "avg_activity", "growth_rate_pct",
			"acceleration_pct", "status",
		},
		rows: rows,
	}
}

func futureRiskTable(rs []analytics.FutureRiskRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.FraudRiskScore, r.PredictedRisk,
			r.AdultEnrolRatio, r.BioToEnrolRatio, r.DemoToBioRatio,
			r.TotalEnrolment,
		})
	}
	return table{
		name: "future_fraud_risks",
		headers: []string{
			"state", "district", "fraud_risk_score", "predicted_risk",
			"adult_enrol_ratio", "bio_to_enrol_ratio",
			"demo_to_bio_ratio", "total_enrolment",
		},
		rows: rows,
	}
}

func performanceTable(rs []analytics.PerformanceRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.TotalEnrolment, r.BioUpdateRate,
			r.ChildBioCompliance, r.DemoActivityScore,
			r.AdultEnrolRatio, r.BioScore, r.ChildScore, r.DemoScore,
			r.AdultScore, r.CompositeIndex, r.NationalRank, r.Tier,
			r.VsNationalAvg,
		})
	}
	return table{
		name: "state_performance",
		headers: []string{
			"state", "total_enrolment", "bio_update_rate",
			"child_bio_compliance", "demo_activity_score",
			"adult_enrol_ratio", "bio_score", "child_score",
			"demo_score", "adult_score", "composite_index",
			"national_rank", "tier", "vs_national_avg",
		},
		rows: rows,
	}
}

func fraudPlanTable(rs []analytics.FraudPlanRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.TotalEnrolment, r.GhostEnrolments,
			r.AnnualSavings, r.AuditCost, r.ROIPct, r.Priority,
		})
	}
	return table{
		name: "fraud_interventions",
		headers: []string{
			"state", "district", "total_enrolment",
			"ghost_enrolments", "annual_savings", "audit_cost",
			"roi_pct", "priority",
		},
		rows: rows,
	}
}

func welfarePlanTable(rs []analytics.WelfarePlanRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.ChildrenAtRisk, r.ChildrenHelped,
			r.WelfareValue, r.ProgramCost, r.ROIPct, r.Priority,
		})
	}
	return table{
		name: "welfare_interventions",
		headers: []string{
			"state", "district", "children_at_risk",
			"children_helped", "welfare_value", "program_cost",
			"roi_pct", "priority",
		},
		rows: rows,
	}
}

func infraPlanTable(rs []analytics.InfraPlanRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, r.District, r.NewResidents, r.RationShops,
			r.HealthCentres, r.SchoolSeats, r.TotalCost, r.Urgency,
		})
	}
	return table{
		name: "infrastructure_plans",
		headers: []string{
			"state", "district", "new_residents", "ration_shops",
			"health_centres", "school_seats", "total_cost", "urgency",
		},
		rows: rows,
	}
}

func recommendationTable(rs []analytics.RecommendationRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.Category, r.Priority, r.Recommendation,
			r.ExpectedImpact, r.Timeline, r.Responsible,
		})
	}
	return table{
		name: "policy_recommendations",
		headers: []string{
			"category", "priority", "recommendation",
			"expected_impact", "timeline", "responsible",
		},
		rows: rows,
	}
}

func corridorTable(rs []analytics.CorridorRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.State, strings.Join(r.InDistricts, ", "),
			strings.Join(r.OutDistricts, ", "), r.NIn, r.NOut,
		})
	}
	return table{
		name: "migration_corridors",
		headers: []string{
			"state", "in_districts", "out_districts", "n_in", "n_out",
		},
		rows: rows,
	}
}

func seasonalTable(s *analytics.SeasonalSummary) table {
	var rows [][]any
	if s != nil {
		rows = make([][]any, 0, len(s.Rows))
		for _, r := range s.Rows {
			rows = append(rows, []any{
				r.Month.String(), r.BioAdult, r.BioChild, r.DemoAdult,
				r.DemoChild, r.TotalEnrolment, r.BioAdultMoMPct,
				r.BioChildMoMPct, r.EnrolmentMoMPct,
			})
		}
	}
	return table{
		name: "seasonal_patterns",
		headers: []string{
			"month", "bio_adult", "bio_child", "demo_adult",
			"demo_child", "total_enrolment", "bio_adult_mom_change",
			"bio_child_mom_change", "enrolment_mom_change",
		},
		rows: rows,
	}
}

func seasonalSummaryTable(s *analytics.SeasonalSummary) table {
	var rows [][]any
	if s != nil {
		rows = append(rows, []any{
			s.PeakBioMonth.String(), s.PeakBioValue,
			s.PeakEnrolmentMonth.String(), s.PeakEnrolmentValue,
			s.LowestEnrolmentMonth.String(), s.LowestEnrolmentValue,
			s.VolatilityPct,
		})
	}
	return table{
		name: "seasonal_summary",
		headers: []string{
			"peak_bio_month", "peak_bio_value",
			"peak_enrolment_month", "peak_enrolment_value",
			"lowest_enrolment_month", "lowest_enrolment_value",
			"enrolment_volatility_pct",
		},
		rows: rows,
	}
}

func mobilityTable(rs []analytics.MobilityTrendRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.Month.String(), r.AddressChanges, r.BioAuth,
			r.MobilityRatio,
		})
	}
	return table{
		name: "mobility_trend",
		headers: []string{
			"month", "total_address_changes", "total_bio_auth",
			"mobility_ratio",
		},
		rows: rows,
	}
}

func childTrendTable(rs []analytics.ChildTrendRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.Month.String(), r.BioChild, r.EnrolChild,
			r.ChildMBURate,
		})
	}
	return table{
		name: "child_mbu_trend",
		headers: []string{
			"month", "bio_child", "enrol_child", "child_mbu_rate",
		},
		rows: rows,
	}
}

func priorityTable(rs []analytics.PriorityRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.Rank, r.State, r.District, r.Priority, r.RiskLevel,
			r.Shortfall, r.Action,
		})
	}
	return table{
		name: "welfare_priorities",
		headers: []string{
			"rank", "state", "district", "intervention_priority",
			"welfare_risk", "mbu_shortfall", "recommended_action",
		},
		rows: rows,
	}
}

// peerTable concatenates the peer matrix of every state, strongest
// composite first. The target state leads each block, so the
// target_state column is what separates the blocks.
func peerTable(perf []analytics.PerformanceRow) table {
	var rows [][]any
	for _, p := range perf {
		for _, peer := range analytics.Peers(perf, p.State) {
			rows = append(rows, []any{
				p.State, peer.State, peer.CompositeIndex,
				peer.BioUpdateRate, peer.ChildBioCompliance,
				peer.DemoActivityScore, peer.Tier,
				peer.RelativePosition,
			})
		}
	}
	return table{
		name: "peer_comparison",
		headers: []string{
			"target_state", "peer_state", "composite_index",
			"bio_update_rate", "child_bio_compliance",
			"demo_activity_score", "performance_tier",
			"relative_position",
		},
		rows: rows,
	}
}

// rankingTable concatenates the within-state district rankings of
// every state in table order.
func rankingTable(t *ident.MergedTable) table {
	var rows [][]any
	for _, state := range t.States() {
		for _, r := range analytics.DistrictRankings(t, state) {
			rows = append(rows, []any{
				r.State, r.District, r.BioRate, r.ChildMBURate,
				r.DemoActivity, r.CompositeScore, r.RankInState,
			})
		}
	}
	return table{
		name: "district_rankings",
		headers: []string{
			"state", "district", "bio_rate", "child_mbu_rate",
			"demo_activity", "composite_score", "rank_in_state",
		},
		rows: rows,
	}
}

func bestPracticeTable(rs []analytics.BestPracticeRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.Category, r.State, r.District, r.MetricValue,
			r.MetricName, r.Why, r.Action,
		})
	}
	return table{
		name: "best_practices",
		headers: []string{
			"category", "state", "district", "metric_value",
			"metric_name", "why_exemplary", "replicable_action",
		},
		rows: rows,
	}
}

func laggardTable(rs []analytics.LaggardRow) table {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []any{
			r.Level, r.State, r.District, r.Issue, r.Metric, r.Value,
			r.NationalAvg, r.Gap, r.Action,
		})
	}
	return table{
		name: "laggards",
		headers: []string{
			"level", "state", "district", "issue", "metric", "value",
			"national_avg", "gap", "recommended_action",
		},
		rows: rows,
	}
}

// joinFloats renders a forecast series as one readable cell.
func joinFloats(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}
