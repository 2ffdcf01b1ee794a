package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model interface{}, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// MergedRecord DDL methods
func (mr MergedRecord) TableDDL() string {
	return generateDDL(mr, "merged_rows")
}

func (mr MergedRecord) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_merged_rows_key ON merged_rows(state, district, month);",
		"CREATE INDEX IF NOT EXISTS idx_merged_rows_month ON merged_rows(month);",
	}
}

func (mr MergedRecord) TableName() string {
	return "merged_rows"
}

// NameMapping DDL methods
func (nm NameMapping) TableDDL() string {
	return generateDDL(nm, "name_mappings")
}

func (nm NameMapping) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_name_mappings_canonical ON name_mappings(canonical);",
	}
}

func (nm NameMapping) TableName() string {
	return "name_mappings"
}

// QualityReport DDL methods
func (qr QualityReport) TableDDL() string {
	return generateDDL(qr, "quality_reports")
}

func (qr QualityReport) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_quality_reports_run ON quality_reports(run_id);",
	}
}

func (qr QualityReport) TableName() string {
	return "quality_reports"
}

// CategoryQuality DDL methods
func (cq CategoryQuality) TableDDL() string {
	return generateDDL(cq, "category_quality")
}

func (cq CategoryQuality) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_category_quality_run ON category_quality(run_id, category);",
	}
}

func (cq CategoryQuality) TableName() string {
	return "category_quality"
}

// BenfordScore DDL methods
func (bs BenfordScore) TableDDL() string {
	return generateDDL(bs, "benford_scores")
}

func (bs BenfordScore) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_benford_scores_group ON benford_scores(state, district);",
	}
}

func (bs BenfordScore) TableName() string {
	return "benford_scores"
}

// AnomalyScore DDL methods
func (a AnomalyScore) TableDDL() string {
	return generateDDL(a, "anomaly_scores")
}

func (a AnomalyScore) IndexDDL() []string {
	return []string{}
}

func (a AnomalyScore) TableName() string {
	return "anomaly_scores"
}

// FraudSuspect DDL methods
func (fs FraudSuspect) TableDDL() string {
	return generateDDL(fs, "fraud_suspects")
}

func (fs FraudSuspect) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_fraud_suspects_dual ON fraud_suspects(dual_detection);",
	}
}

func (fs FraudSuspect) TableName() string {
	return "fraud_suspects"
}

// MigrationScore DDL methods
func (ms MigrationScore) TableDDL() string {
	return generateDDL(ms, "migration_scores")
}

func (ms MigrationScore) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_migration_scores_type ON migration_scores(migration_type);",
	}
}

func (ms MigrationScore) TableName() string {
	return "migration_scores"
}

// WelfareScore DDL methods
func (ws WelfareScore) TableDDL() string {
	return generateDDL(ws, "welfare_scores")
}

func (ws WelfareScore) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_welfare_scores_risk ON welfare_scores(risk_level);",
	}
}

func (ws WelfareScore) TableName() string {
	return "welfare_scores"
}

// StateForecast DDL methods
func (sf StateForecast) TableDDL() string {
	return generateDDL(sf, "state_forecasts")
}

func (sf StateForecast) IndexDDL() []string {
	return []string{}
}

func (sf StateForecast) TableName() string {
	return "state_forecasts"
}

// EmergingHotspot DDL methods
func (eh EmergingHotspot) TableDDL() string {
	return generateDDL(eh, "emerging_hotspots")
}

func (eh EmergingHotspot) IndexDDL() []string {
	return []string{}
}

func (eh EmergingHotspot) TableName() string {
	return "emerging_hotspots"
}

// FutureFraudRisk DDL methods
func (fr FutureFraudRisk) TableDDL() string {
	return generateDDL(fr, "future_fraud_risks")
}

func (fr FutureFraudRisk) IndexDDL() []string {
	return []string{}
}

func (fr FutureFraudRisk) TableName() string {
	return "future_fraud_risks"
}

// StatePerformance DDL methods
func (sp StatePerformance) TableDDL() string {
	return generateDDL(sp, "state_performance")
}

func (sp StatePerformance) IndexDDL() []string {
	return []string{}
}

func (sp StatePerformance) TableName() string {
	return "state_performance"
}

// FraudIntervention DDL methods
func (fi FraudIntervention) TableDDL() string {
	return generateDDL(fi, "fraud_interventions")
}

func (fi FraudIntervention) IndexDDL() []string {
	return []string{}
}

func (fi FraudIntervention) TableName() string {
	return "fraud_interventions"
}

// WelfareIntervention DDL methods
func (wi WelfareIntervention) TableDDL() string {
	return generateDDL(wi, "welfare_interventions")
}

func (wi WelfareIntervention) IndexDDL() []string {
	return []string{}
}

func (wi WelfareIntervention) TableName() string {
	return "welfare_interventions"
}

// InfrastructurePlan DDL methods
func (ip InfrastructurePlan) TableDDL() string {
	return generateDDL(ip, "infrastructure_plans")
}

func (ip InfrastructurePlan) IndexDDL() []string {
	return []string{}
}

func (ip InfrastructurePlan) TableName() string {
	return "infrastructure_plans"
}

// PolicyRecommendation DDL methods
func (pr PolicyRecommendation) TableDDL() string {
	return generateDDL(pr, "policy_recommendations")
}

func (pr PolicyRecommendation) IndexDDL() []string {
	return []string{}
}

func (pr PolicyRecommendation) TableName() string {
	return "policy_recommendations"
}
