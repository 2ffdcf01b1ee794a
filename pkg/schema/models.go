// Package schema provides database schema models for dpulse.
// The ETL tables mirror the merged table and its audit artifacts; the
// score tables mirror the analytical module outputs row for row.
package schema

import (
	"time"
)

// DDLGenerator defines how Go models generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string
}

// MergedRecord is one district-month observation of the merged table.
// The (state, district, month) key is unique; re-running the ETL
// upserts on it.
type MergedRecord struct {
	ID int64 `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`

	// State is the canonical state name.
	State string `db:"state" ddl:"VARCHAR(100) NOT NULL"`

	// District is the canonical district name within the state.
	District string `db:"district" ddl:"VARCHAR(150) NOT NULL"`

	// Month is the observation month in YYYY-MM form.
	Month string `db:"month" ddl:"VARCHAR(7) NOT NULL"`

	// BioChild counts biometric updates for ages 5-17.
	BioChild int64 `db:"bio_child" ddl:"BIGINT NOT NULL DEFAULT 0"`

	// BioAdult counts biometric updates for ages 17+.
	BioAdult int64 `db:"bio_adult" ddl:"BIGINT NOT NULL DEFAULT 0"`

	// DemoChild counts demographic updates for ages 5-17.
	DemoChild int64 `db:"demo_child" ddl:"BIGINT NOT NULL DEFAULT 0"`

	// DemoAdult counts demographic updates for ages 17+.
	DemoAdult int64 `db:"demo_adult" ddl:"BIGINT NOT NULL DEFAULT 0"`

	// EnrolBaby counts new enrolments for ages 0-5.
	EnrolBaby int64 `db:"enrol_baby" ddl:"BIGINT NOT NULL DEFAULT 0"`

	// EnrolChild counts new enrolments for ages 5-17.
	EnrolChild int64 `db:"enrol_child" ddl:"BIGINT NOT NULL DEFAULT 0"`

	// EnrolAdult counts new enrolments for ages 18+.
	EnrolAdult int64 `db:"enrol_adult" ddl:"BIGINT NOT NULL DEFAULT 0"`

	// TotalEnrolment is the sum of the three enrolment bands.
	TotalEnrolment int64 `db:"total_enrolment" ddl:"BIGINT NOT NULL DEFAULT 0"`
}

// NameMapping is one raw-to-canonical place name resolution.
type NameMapping struct {
	// ID is UUID v5 generated from kind, state and raw spelling, so
	// re-running the ETL upserts instead of duplicating.
	ID string `db:"id" ddl:"UUID PRIMARY KEY"`

	// Kind is "state" or "district".
	Kind string `db:"kind" ddl:"VARCHAR(10) NOT NULL"`

	// State scopes district entries; empty for state entries.
	State string `db:"state" ddl:"VARCHAR(100)"`

	// Raw is the spelling as it appeared in the source files.
	Raw string `db:"raw" ddl:"VARCHAR(255) NOT NULL"`

	// Canonical is the name the raw spelling resolved to.
	Canonical string `db:"canonical" ddl:"VARCHAR(255) NOT NULL"`

	// Score is the similarity score of the match on a 0-100 scale.
	Score float64 `db:"score" ddl:"DOUBLE PRECISION"`

	// Match classifies the resolution: exact, fuzzy, invalid, unknown.
	Match string `db:"match" ddl:"VARCHAR(10) NOT NULL"`
}

// QualityReport is the run-level summary of one ETL execution.
type QualityReport struct {
	RunID            string    `db:"run_id" ddl:"UUID PRIMARY KEY"`
	StartedAt        time.Time `db:"started_at" ddl:"TIMESTAMP WITHOUT TIME ZONE"`
	FinishedAt       time.Time `db:"finished_at" ddl:"TIMESTAMP WITHOUT TIME ZONE"`
	StateThreshold   float64   `db:"state_threshold" ddl:"DOUBLE PRECISION"`
	IncludeUnmatched bool      `db:"include_unmatched" ddl:"BOOLEAN"`
	MergedRows       int       `db:"merged_rows" ddl:"INT"`
	States           int       `db:"states" ddl:"INT"`
	Districts        int       `db:"districts" ddl:"INT"`
	RowsDropped      int       `db:"rows_dropped" ddl:"INT"`
	FirstMonth       string    `db:"first_month" ddl:"VARCHAR(7)"`
	LastMonth        string    `db:"last_month" ddl:"VARCHAR(7)"`
}

// CategoryQuality holds per-category load and validation counters of
// one ETL run.
type CategoryQuality struct {
	RunID    string `db:"run_id" ddl:"UUID NOT NULL"`
	Category string `db:"category" ddl:"VARCHAR(12) NOT NULL"`

	FilesFound        int `db:"files_found" ddl:"INT NOT NULL DEFAULT 0"`
	FilesSkipped      int `db:"files_skipped" ddl:"INT NOT NULL DEFAULT 0"`
	RowsRead          int `db:"rows_read" ddl:"INT NOT NULL DEFAULT 0"`
	RowsKept          int `db:"rows_kept" ddl:"INT NOT NULL DEFAULT 0"`
	Duplicates        int `db:"duplicates" ddl:"INT NOT NULL DEFAULT 0"`
	BadPincode        int `db:"bad_pincode" ddl:"INT NOT NULL DEFAULT 0"`
	BadDate           int `db:"bad_date" ddl:"INT NOT NULL DEFAULT 0"`
	UnmappedStateRows int `db:"unmapped_state_rows" ddl:"INT NOT NULL DEFAULT 0"`

	// UnmappedStates is a JSON object of raw state spelling to dropped
	// row count.
	UnmappedStates string `db:"unmapped_states" ddl:"JSONB"`
}

// BenfordScore is one group's leading-digit screening result.
type BenfordScore struct {
	ID             int64  `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State          string `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District       string `db:"district" ddl:"VARCHAR(150)"`
	TotalEnrolment int64  `db:"total_enrolment" ddl:"BIGINT"`

	// SeriesLen is the number of positive monthly values tested.
	SeriesLen       int     `db:"series_len" ddl:"INT"`
	ChiSquare       float64 `db:"chi_square" ddl:"DOUBLE PRECISION"`
	Critical        float64 `db:"critical" ddl:"DOUBLE PRECISION"`
	PValue          float64 `db:"p_value" ddl:"DOUBLE PRECISION"`
	DeviationFactor float64 `db:"deviation_factor" ddl:"DOUBLE PRECISION"`
	RiskLevel       string  `db:"risk_level" ddl:"VARCHAR(20)"`
	Reason          string  `db:"reason" ddl:"TEXT"`
}

// AnomalyScore is one district's isolation-forest result.
type AnomalyScore struct {
	ID                int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State             string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District          string  `db:"district" ddl:"VARCHAR(150) NOT NULL"`
	EnrolAdult        int64   `db:"enrol_adult" ddl:"BIGINT"`
	TotalEnrolment    int64   `db:"total_enrolment" ddl:"BIGINT"`
	AdultEnrolRatio   float64 `db:"adult_enrol_ratio" ddl:"DOUBLE PRECISION"`
	AdultPerBioUpdate float64 `db:"adult_per_bio_update" ddl:"DOUBLE PRECISION"`
	AnomalyScore      float64 `db:"anomaly_score" ddl:"DOUBLE PRECISION"`
	IsAnomaly         bool    `db:"is_anomaly" ddl:"BOOLEAN"`
}

// FraudSuspect is one district joined across both fraud detectors.
type FraudSuspect struct {
	ID              int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State           string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District        string  `db:"district" ddl:"VARCHAR(150) NOT NULL"`
	TotalEnrolment  int64   `db:"total_enrolment" ddl:"BIGINT"`
	ChiSquare       float64 `db:"chi_square" ddl:"DOUBLE PRECISION"`
	DeviationFactor float64 `db:"deviation_factor" ddl:"DOUBLE PRECISION"`
	BenfordRisk     string  `db:"benford_risk" ddl:"VARCHAR(20)"`
	AnomalyScore    float64 `db:"anomaly_score" ddl:"DOUBLE PRECISION"`
	IsAnomaly       bool    `db:"is_anomaly" ddl:"BOOLEAN"`
	RiskScore       float64 `db:"risk_score" ddl:"DOUBLE PRECISION"`
	DualDetection   bool    `db:"dual_detection" ddl:"BOOLEAN"`
}

// MigrationScore is one district's migration classification.
type MigrationScore struct {
	ID               int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State            string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District         string  `db:"district" ddl:"VARCHAR(150) NOT NULL"`
	TotalEnrolment   int64   `db:"total_enrolment" ddl:"BIGINT"`
	TotalDemoUpdates int64   `db:"total_demo_updates" ddl:"BIGINT"`
	TotalBioAuth     int64   `db:"total_bio_auth" ddl:"BIGINT"`
	InScore          float64 `db:"in_score" ddl:"DOUBLE PRECISION"`
	OutScore         float64 `db:"out_score" ddl:"DOUBLE PRECISION"`
	NetScore         float64 `db:"net_score" ddl:"DOUBLE PRECISION"`
	Intensity        float64 `db:"intensity" ddl:"DOUBLE PRECISION"`
	MigrationType    string  `db:"migration_type" ddl:"VARCHAR(30)"`
}

// WelfareScore is one district's child-welfare coverage result.
type WelfareScore struct {
	ID                 int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State              string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District           string  `db:"district" ddl:"VARCHAR(150) NOT NULL"`
	BioChild           int64   `db:"bio_child" ddl:"BIGINT"`
	EnrolChild         int64   `db:"enrol_child" ddl:"BIGINT"`
	DemoChild          int64   `db:"demo_child" ddl:"BIGINT"`
	BioAdult           int64   `db:"bio_adult" ddl:"BIGINT"`
	EnrolAdult         int64   `db:"enrol_adult" ddl:"BIGINT"`
	TotalEnrolment     int64   `db:"total_enrolment" ddl:"BIGINT"`
	TotalChildActivity int64   `db:"total_child_activity" ddl:"BIGINT"`
	ChildMBURate       float64 `db:"child_mbu_rate" ddl:"DOUBLE PRECISION"`
	TotalAdultActivity int64   `db:"total_adult_activity" ddl:"BIGINT"`
	AdultMBURate       float64 `db:"adult_mbu_rate" ddl:"DOUBLE PRECISION"`
	MBUGap             float64 `db:"mbu_gap" ddl:"DOUBLE PRECISION"`
	ChildEngagement    int64   `db:"child_engagement" ddl:"BIGINT"`
	ExpectedChildMBU   float64 `db:"expected_child_mbu" ddl:"DOUBLE PRECISION"`
	Shortfall          float64 `db:"shortfall" ddl:"DOUBLE PRECISION"`
	Percentile         float64 `db:"percentile" ddl:"DOUBLE PRECISION"`
	RiskLevel          string  `db:"risk_level" ddl:"VARCHAR(20)"`
}

// StateForecast is one state's enrolment projection.
type StateForecast struct {
	ID                int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State             string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	Months            int     `db:"months" ddl:"INT"`
	CurrentMonthlyAvg int64   `db:"current_monthly_avg" ddl:"BIGINT"`
	GrowthRatePct     float64 `db:"growth_rate_pct" ddl:"DOUBLE PRECISION"`
	Trend             string  `db:"trend" ddl:"VARCHAR(20)"`

	// Forecasts is a JSON list of the projected monthly totals.
	Forecasts string `db:"forecasts" ddl:"JSONB"`

	ForecastTotal int64   `db:"forecast_total" ddl:"BIGINT"`
	Confidence    float64 `db:"confidence" ddl:"DOUBLE PRECISION"`
	StdError      float64 `db:"std_error" ddl:"DOUBLE PRECISION"`
	ConfInterval  float64 `db:"conf_interval" ddl:"DOUBLE PRECISION"`
	Policy        string  `db:"policy" ddl:"TEXT"`
	Reason        string  `db:"reason" ddl:"TEXT"`
}

// EmergingHotspot is one district with accelerating activity.
type EmergingHotspot struct {
	ID              int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State           string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District        string  `db:"district" ddl:"VARCHAR(150) NOT NULL"`
	AvgActivity     int64   `db:"avg_activity" ddl:"BIGINT"`
	GrowthRatePct   float64 `db:"growth_rate_pct" ddl:"DOUBLE PRECISION"`
	AccelerationPct float64 `db:"acceleration_pct" ddl:"DOUBLE PRECISION"`
	Status          string  `db:"status" ddl:"VARCHAR(20)"`
}

// FutureFraudRisk is one district's forward-looking fraud indicator.
type FutureFraudRisk struct {
	ID              int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State           string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District        string  `db:"district" ddl:"VARCHAR(150) NOT NULL"`
	FraudRiskScore  int     `db:"fraud_risk_score" ddl:"INT"`
	PredictedRisk   string  `db:"predicted_risk" ddl:"VARCHAR(10)"`
	AdultEnrolRatio float64 `db:"adult_enrol_ratio" ddl:"DOUBLE PRECISION"`
	BioToEnrolRatio float64 `db:"bio_to_enrol_ratio" ddl:"DOUBLE PRECISION"`
	DemoToBioRatio  float64 `db:"demo_to_bio_ratio" ddl:"DOUBLE PRECISION"`
	TotalEnrolment  int64   `db:"total_enrolment" ddl:"BIGINT"`
}

// StatePerformance is one state's benchmark scores.
type StatePerformance struct {
	ID                 int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State              string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	TotalEnrolment     int64   `db:"total_enrolment" ddl:"BIGINT"`
	BioUpdateRate      float64 `db:"bio_update_rate" ddl:"DOUBLE PRECISION"`
	ChildBioCompliance float64 `db:"child_bio_compliance" ddl:"DOUBLE PRECISION"`
	DemoActivityScore  float64 `db:"demo_activity_score" ddl:"DOUBLE PRECISION"`
	AdultEnrolRatio    float64 `db:"adult_enrol_ratio" ddl:"DOUBLE PRECISION"`
	BioScore           float64 `db:"bio_score" ddl:"DOUBLE PRECISION"`
	ChildScore         float64 `db:"child_score" ddl:"DOUBLE PRECISION"`
	DemoScore          float64 `db:"demo_score" ddl:"DOUBLE PRECISION"`
	AdultScore         float64 `db:"adult_score" ddl:"DOUBLE PRECISION"`
	CompositeIndex     float64 `db:"composite_index" ddl:"DOUBLE PRECISION"`
	NationalRank       int     `db:"national_rank" ddl:"INT"`
	Tier               string  `db:"tier" ddl:"VARCHAR(20)"`
	VsNationalAvg      float64 `db:"vs_national_avg" ddl:"DOUBLE PRECISION"`
}

// FraudIntervention is one budgeted district audit.
type FraudIntervention struct {
	ID              int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State           string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District        string  `db:"district" ddl:"VARCHAR(150) NOT NULL"`
	TotalEnrolment  int64   `db:"total_enrolment" ddl:"BIGINT"`
	GhostEnrolments int64   `db:"ghost_enrolments" ddl:"BIGINT"`
	AnnualSavings   int64   `db:"annual_savings" ddl:"BIGINT"`
	AuditCost       int64   `db:"audit_cost" ddl:"BIGINT"`
	ROIPct          float64 `db:"roi_pct" ddl:"DOUBLE PRECISION"`
	Priority        string  `db:"priority" ddl:"VARCHAR(10)"`
}

// WelfareIntervention is one budgeted child outreach campaign.
type WelfareIntervention struct {
	ID             int64   `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State          string  `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District       string  `db:"district" ddl:"VARCHAR(150) NOT NULL"`
	ChildrenAtRisk int64   `db:"children_at_risk" ddl:"BIGINT"`
	ChildrenHelped int64   `db:"children_helped" ddl:"BIGINT"`
	WelfareValue   int64   `db:"welfare_value" ddl:"BIGINT"`
	ProgramCost    int64   `db:"program_cost" ddl:"BIGINT"`
	ROIPct         float64 `db:"roi_pct" ddl:"DOUBLE PRECISION"`
	Priority       string  `db:"priority" ddl:"VARCHAR(10)"`
}

// InfrastructurePlan is one district's provisioning estimate.
type InfrastructurePlan struct {
	ID            int64  `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`
	State         string `db:"state" ddl:"VARCHAR(100) NOT NULL"`
	District      string `db:"district" ddl:"VARCHAR(150) NOT NULL"`
	NewResidents  int64  `db:"new_residents" ddl:"BIGINT"`
	RationShops   int    `db:"ration_shops" ddl:"INT"`
	HealthCentres int    `db:"health_centres" ddl:"INT"`
	SchoolSeats   int64  `db:"school_seats" ddl:"BIGINT"`
	TotalCost     int64  `db:"total_cost" ddl:"BIGINT"`
	Urgency       string `db:"urgency" ddl:"VARCHAR(10)"`
}

// PolicyRecommendation is one national policy table entry.
type PolicyRecommendation struct {
	ID int64 `db:"id" ddl:"BIGSERIAL PRIMARY KEY"`

	// SortOrder preserves the table's original ordering across reloads.
	SortOrder      int    `db:"sort_order" ddl:"INT NOT NULL DEFAULT 0"`
	Category       string `db:"category" ddl:"VARCHAR(40)"`
	Priority       string `db:"priority" ddl:"VARCHAR(10)"`
	Recommendation string `db:"recommendation" ddl:"TEXT"`
	ExpectedImpact string `db:"expected_impact" ddl:"TEXT"`
	Timeline       string `db:"timeline" ddl:"VARCHAR(20)"`
	Responsible    string `db:"responsible" ddl:"TEXT"`
}
