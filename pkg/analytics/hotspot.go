package analytics

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/distpulse/dpulse/pkg/ident"
)

const HotspotEmergence = "RAPID EMERGENCE"

// maxHotspots caps the emerging-district report.
const maxHotspots = 10

// HotspotRow flags one district whose total activity is climbing.
type HotspotRow struct {
	State           string  `json:"state"`
	District        string  `json:"district"`
	AvgActivity     int64   `json:"avg_monthly_activity"`
	GrowthRatePct   float64 `json:"growth_rate_pct"`
	AccelerationPct float64 `json:"acceleration_pct"`
	Status          string  `json:"emerging_status"`
}

// Hotspots fits a linear trend to each district's monthly activity,
// the sum of every update and enrolment column, and reports the ten
// fastest growers. Acceleration compares the second half of the series
// against the first; a district is a RAPID EMERGENCE when growth tops
// 10% a month and is itself speeding up. Districts with under three
// months of history or no activity are not scored.
func Hotspots(t *ident.MergedTable) []HotspotRow {
	byPlace := t.GroupByPlace()
	res := make([]HotspotRow, 0, maxHotspots)
	for _, p := range t.Places() {
		rows := byPlace[p]
		if len(rows) < 3 {
			continue
		}
		ys := make([]float64, len(rows))
		for i, row := range rows {
			ys[i] = float64(row.BioAdult + row.BioChild +
				row.DemoAdult + row.DemoChild + row.TotalEnrolment)
		}
		mean := stat.Mean(ys, nil)
		if mean <= 0 {
			continue
		}

		_, beta := linreg(ys)
		growth := beta / mean * 100

		var accel float64
		half := len(ys) / 2
		if first := stat.Mean(ys[:half], nil); first > 0 {
			accel = (stat.Mean(ys[half:], nil) - first) / first * 100
		}

		status := TrendStable
		switch {
		case growth > 10 && accel > 20:
			status = HotspotEmergence
		case growth > 5:
			status = TrendSteadyGrowth
		}
		res = append(res, HotspotRow{
			State:           p.State,
			District:        p.District,
			AvgActivity:     int64(mean),
			GrowthRatePct:   round2(growth),
			AccelerationPct: round1(accel),
			Status:          status,
		})
	}

	slices.SortStableFunc(res, func(a, b HotspotRow) int {
		switch {
		case a.GrowthRatePct > b.GrowthRatePct:
			return -1
		case a.GrowthRatePct < b.GrowthRatePct:
			return 1
		}
		return 0
	})
	if len(res) > maxHotspots {
		res = res[:maxHotspots]
	}
	return res
}

// FutureRiskRow marks a district whose enrolment profile predicts
// fraud before the statistical screens would catch it.
type FutureRiskRow struct {
	State           string  `json:"state"`
	District        string  `json:"district"`
	FraudRiskScore  int     `json:"fraud_risk_score"`
	PredictedRisk   string  `json:"predicted_risk"`
	AdultEnrolRatio float64 `json:"adult_enrol_ratio"`
	BioToEnrolRatio float64 `json:"bio_to_enrol_ratio"`
	DemoToBioRatio  float64 `json:"demo_to_bio_ratio"`
	TotalEnrolment  int64   `json:"total_enrolment"`
}

// FutureRisks scores three leading indicators per district: an adult
// share of enrolments above 0.9 (30 points), under half a biometric
// authentication per adult enrolment (40), and near-zero demographic
// updates per authentication (30). Only districts past 60 points, the
// HIGH tier, are reported, sorted by score descending.
func FutureRisks(t *ident.MergedTable) []FutureRiskRow {
	res := make([]FutureRiskRow, 0)
	for _, p := range placeSums(t) {
		r := FutureRiskRow{
			State:           p.State,
			District:        p.District,
			AdultEnrolRatio: damped(float64(p.EnrolAdult), float64(p.TotalEnrolment)),
			BioToEnrolRatio: damped(float64(p.BioAdult), float64(p.EnrolAdult)),
			DemoToBioRatio:  damped(float64(p.DemoAdult), float64(p.BioAdult)),
			TotalEnrolment:  p.TotalEnrolment,
		}
		if r.AdultEnrolRatio > 0.9 {
			r.FraudRiskScore += 30
		}
		if r.BioToEnrolRatio < 0.5 {
			r.FraudRiskScore += 40
		}
		if r.DemoToBioRatio < 0.1 {
			r.FraudRiskScore += 30
		}
		if r.FraudRiskScore <= 60 {
			continue
		}
		r.PredictedRisk = "HIGH"
		res = append(res, r)
	}

	slices.SortStableFunc(res, func(a, b FutureRiskRow) int {
		return b.FraudRiskScore - a.FraudRiskScore
	})
	return res
}
