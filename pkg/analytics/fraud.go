package analytics

import "slices"

// maxSuspects caps the combined fraud report at the districts worth a
// manual audit.
const maxSuspects = 20

// SuspectRow joins the Benford screening with the isolation forest for
// one district. DualDetection marks districts flagged by both methods
// at once, the strongest audit signal this package produces.
type SuspectRow struct {
	State           string  `json:"state"`
	District        string  `json:"district"`
	TotalEnrolment  int64   `json:"total_enrolment"`
	ChiSquare       float64 `json:"chi_square"`
	DeviationFactor float64 `json:"deviation_factor"`
	BenfordRisk     string  `json:"benford_risk"`
	AnomalyScore    float64 `json:"anomaly_score"`
	IsAnomaly       bool    `json:"is_anomaly"`
	RiskScore       float64 `json:"risk_score"`
	DualDetection   bool    `json:"dual_detection"`
}

// Suspects inner-joins the two fraud screenings on (state, district)
// and ranks the joined districts by a composite risk score weighting
// the Benford deviation at 0.6 and the inverted forest score at 0.4.
// Benford rows excluded for insufficient data do not participate. At
// most maxSuspects rows come back, highest risk first.
func Suspects(benford []BenfordRow, anomalies []AnomalyRow) []SuspectRow {
	type key struct{ state, district string }
	byPlace := make(map[key]AnomalyRow, len(anomalies))
	for _, a := range anomalies {
		byPlace[key{a.State, a.District}] = a
	}

	res := make([]SuspectRow, 0, len(benford))
	for _, b := range benford {
		if b.RiskLevel == RiskInsufficient {
			continue
		}
		a, ok := byPlace[key{b.State, b.District}]
		if !ok {
			continue
		}
		flagged := b.RiskLevel == RiskHigh || b.RiskLevel == RiskModerate
		res = append(res, SuspectRow{
			State:           b.State,
			District:        b.District,
			TotalEnrolment:  b.TotalEnrolment,
			ChiSquare:       b.ChiSquare,
			DeviationFactor: b.DeviationFactor,
			BenfordRisk:     b.RiskLevel,
			AnomalyScore:    a.AnomalyScore,
			IsAnomaly:       a.IsAnomaly,
			RiskScore:       b.DeviationFactor*0.6 + (1-a.AnomalyScore)*0.4,
			DualDetection:   flagged && a.IsAnomaly,
		})
	}

	slices.SortStableFunc(res, func(a, b SuspectRow) int {
		switch {
		case a.RiskScore > b.RiskScore:
			return -1
		case a.RiskScore < b.RiskScore:
			return 1
		}
		return 0
	})
	if len(res) > maxSuspects {
		res = res[:maxSuspects]
	}
	return res
}
