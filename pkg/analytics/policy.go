package analytics

import (
	"fmt"
	"math"
	"slices"
)

// Intervention priorities.
const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
)

// maxPlans bounds each intervention table.
const maxPlans = 5

// Cost and impact assumptions behind the simulations. Monetary values
// are INR per year.
const (
	fraudShare           = 0.10
	auditEffectiveness   = 0.7
	savingsPerGhost      = 1500
	auditCostPerEnrol    = 50
	expectedChildRate    = 150.0
	outreachRecovery     = 0.6
	welfareValuePerChild = 8000
	outreachCostPerChild = 100
	relocationShare      = 0.7
	childShare           = 0.25
	rationShopCost       = 500_000
	healthCentreCost     = 2_000_000
	schoolSeatCost       = 1000
)

// FraudPlanRow estimates the return of auditing one district.
type FraudPlanRow struct {
	State           string  `json:"state"`
	District        string  `json:"district"`
	TotalEnrolment  int64   `json:"total_enrolment"`
	GhostEnrolments int64   `json:"estimated_fraud_enrolments"`
	AnnualSavings   int64   `json:"projected_annual_savings_inr"`
	AuditCost       int64   `json:"audit_cost_inr"`
	ROIPct          float64 `json:"roi_percentage"`
	Priority        string  `json:"intervention_priority"`
}

// FraudPlans budgets audits for the top five dual-detection suspects.
// A tenth of enrolments in a flagged district are assumed fraudulent
// and an audit recovers 70% of the leakage. A district with no
// enrolments reports zero ROI. Sorted by projected savings descending.
func FraudPlans(suspects []SuspectRow) []FraudPlanRow {
	res := make([]FraudPlanRow, 0, maxPlans)
	for _, s := range suspects {
		if len(res) == maxPlans {
			break
		}
		if !s.DualDetection {
			continue
		}
		enrol := float64(s.TotalEnrolment)
		ghost := enrol * fraudShare
		savings := ghost * savingsPerGhost * auditEffectiveness
		cost := enrol * auditCostPerEnrol
		var roi float64
		if cost > 0 {
			roi = (savings - cost) / cost * 100
		}
		priority := PriorityMedium
		if roi > 100 {
			priority = PriorityHigh
		}
		res = append(res, FraudPlanRow{
			State:           s.State,
			District:        s.District,
			TotalEnrolment:  s.TotalEnrolment,
			GhostEnrolments: int64(ghost),
			AnnualSavings:   int64(savings),
			AuditCost:       int64(cost),
			ROIPct:          round1(roi),
			Priority:        priority,
		})
	}

	slices.SortStableFunc(res, func(a, b FraudPlanRow) int {
		switch {
		case a.AnnualSavings > b.AnnualSavings:
			return -1
		case a.AnnualSavings < b.AnnualSavings:
			return 1
		}
		return 0
	})
	return res
}

// WelfarePlanRow estimates the return of a child outreach campaign in
// one district.
type WelfarePlanRow struct {
	State          string  `json:"state"`
	District       string  `json:"district"`
	ChildrenAtRisk int64   `json:"children_at_risk"`
	ChildrenHelped int64   `json:"children_helped"`
	WelfareValue   int64   `json:"welfare_access_value_inr"`
	ProgramCost    int64   `json:"program_cost_inr"`
	ROIPct         float64 `json:"roi_percentage"`
	Priority       string  `json:"intervention_priority"`
}

// WelfarePlans budgets outreach for the top five CRITICAL RISK
// districts. The expected child update volume is 1.5 per enrolment;
// the gap below it, divided back by the rate, counts children at risk
// of losing welfare access. Outreach recovers 60% of the missing
// updates. Districts already at the expected volume report zero ROI.
// Sorted by children at risk descending.
func WelfarePlans(welfare []WelfareRow) []WelfarePlanRow {
	res := make([]WelfarePlanRow, 0, maxPlans)
	for _, w := range welfare {
		if len(res) == maxPlans {
			break
		}
		if w.RiskLevel != RiskCritical {
			continue
		}
		expected := float64(w.EnrolChild) * expectedChildRate / 100
		missing := math.Max(0, expected-float64(w.BioChild))
		atRisk := missing / (expectedChildRate / 100)
		helped := missing * outreachRecovery / (expectedChildRate / 100)
		value := helped * welfareValuePerChild
		cost := atRisk * outreachCostPerChild
		var roi float64
		if cost > 0 {
			roi = (value - cost) / cost * 100
		}
		priority := PriorityMedium
		if atRisk > 1000 {
			priority = PriorityHigh
		}
		res = append(res, WelfarePlanRow{
			State:          w.State,
			District:       w.District,
			ChildrenAtRisk: int64(atRisk),
			ChildrenHelped: int64(helped),
			WelfareValue:   int64(value),
			ProgramCost:    int64(cost),
			ROIPct:         round1(roi),
			Priority:       priority,
		})
	}

	slices.SortStableFunc(res, func(a, b WelfarePlanRow) int {
		switch {
		case a.ChildrenAtRisk > b.ChildrenAtRisk:
			return -1
		case a.ChildrenAtRisk < b.ChildrenAtRisk:
			return 1
		}
		return 0
	})
	return res
}

// InfraPlanRow sizes the infrastructure a district needs to absorb its
// arrivals.
type InfraPlanRow struct {
	State         string `json:"state"`
	District      string `json:"district"`
	NewResidents  int64  `json:"estimated_new_residents"`
	RationShops   int    `json:"ration_shops_needed"`
	HealthCentres int    `json:"healthcare_centers_needed"`
	SchoolSeats   int64  `json:"school_capacity_needed"`
	TotalCost     int64  `json:"total_infrastructure_cost_inr"`
	Urgency       string `json:"urgency"`
}

// InfraPlans sizes infrastructure for the top five HIGH IN-MIGRATION
// districts: 70% of address changes are taken as real relocations, and
// provisioning follows one ration shop per 2500 residents, one health
// centre per 5000, and school seats for the child quarter. Sorted by
// estimated new residents descending.
func InfraPlans(migration []MigrationRow) []InfraPlanRow {
	res := make([]InfraPlanRow, 0, maxPlans)
	for _, m := range migration {
		if len(res) == maxPlans {
			break
		}
		if m.MigrationType != MigrationHighIn {
			continue
		}
		residents := float64(m.TotalDemoUpdates) * relocationShare
		shops := int(math.Ceil(residents / 2500))
		centres := int(math.Ceil(residents / 5000))
		seats := int64(residents * childShare)
		urgency := PriorityMedium
		if residents > 10000 {
			urgency = PriorityHigh
		}
		res = append(res, InfraPlanRow{
			State:         m.State,
			District:      m.District,
			NewResidents:  int64(residents),
			RationShops:   shops,
			HealthCentres: centres,
			SchoolSeats:   seats,
			TotalCost: int64(shops)*rationShopCost +
				int64(centres)*healthCentreCost +
				seats*schoolSeatCost,
			Urgency: urgency,
		})
	}

	slices.SortStableFunc(res, func(a, b InfraPlanRow) int {
		switch {
		case a.NewResidents > b.NewResidents:
			return -1
		case a.NewResidents < b.NewResidents:
			return 1
		}
		return 0
	})
	return res
}

// RecommendationRow is one national policy recommendation.
type RecommendationRow struct {
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Recommendation string `json:"recommendation"`
	ExpectedImpact string `json:"expected_impact"`
	Timeline       string `json:"implementation_timeline"`
	Responsible    string `json:"responsible_ministry"`
}

// Recommendations derives the national policy table from the other
// modules' outputs. The first three entries appear only when their
// trigger counts are non-zero; the data-quality and system entries
// always apply.
func Recommendations(suspects []SuspectRow, welfare []WelfareRow, migration []MigrationRow) []RecommendationRow {
	var dual, critical, highIn int
	for _, s := range suspects {
		if s.DualDetection {
			dual++
		}
	}
	for _, w := range welfare {
		if w.RiskLevel == RiskCritical {
			critical++
		}
	}
	for _, m := range migration {
		if m.MigrationType == MigrationHighIn {
			highIn++
		}
	}

	res := make([]RecommendationRow, 0, 5)
	if dual > 0 {
		res = append(res, RecommendationRow{
			Category: "Fraud Prevention",
			Priority: PriorityCritical,
			Recommendation: fmt.Sprintf(
				"Immediate audit of %d high-risk districts showing dual anomalies", dual),
			ExpectedImpact: "Prevention of estimated ₹50-200 crore annual subsidy leakage",
			Timeline:       "3 months",
			Responsible:    "Ministry of Electronics & IT, State Revenue Departments",
		})
	}
	if critical > 0 {
		res = append(res, RecommendationRow{
			Category: "Child Welfare",
			Priority: PriorityHigh,
			Recommendation: fmt.Sprintf(
				"Launch MBU awareness campaigns in %d critical districts", critical),
			ExpectedImpact: "Restore welfare access for 50,000-200,000 children",
			Timeline:       "6 months",
			Responsible:    "Ministry of Women & Child Development, Ministry of Education",
		})
	}
	if highIn > 0 {
		res = append(res, RecommendationRow{
			Category: "Infrastructure Planning",
			Priority: PriorityHigh,
			Recommendation: fmt.Sprintf(
				"Allocate infrastructure funds to %d high in-migration districts", highIn),
			ExpectedImpact: "Prevent service delivery collapse in urban centers",
			Timeline:       "12-24 months",
			Responsible:    "Ministry of Rural Development, Ministry of Housing & Urban Affairs",
		})
	}
	res = append(res,
		RecommendationRow{
			Category:       "Data Quality",
			Priority:       PriorityMedium,
			Recommendation: "Standardize state and district naming in identity transaction logs",
			ExpectedImpact: "Improved real-time analytics accuracy by 15-20%",
			Timeline:       "6 months",
			Responsible:    "National Identity Authority, National Informatics Centre",
		},
		RecommendationRow{
			Category:       "System Improvement",
			Priority:       PriorityMedium,
			Recommendation: "Deploy real-time anomaly detection for biometric transactions",
			ExpectedImpact: "Early detection of fraud patterns within 7 days instead of 6 months",
			Timeline:       "9 months",
			Responsible:    "National Identity Authority, Ministry of Electronics & IT",
		},
	)
	return res
}
