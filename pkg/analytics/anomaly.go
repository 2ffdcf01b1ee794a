package analytics

import (
	"slices"

	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/ident"
)

// AnomalyRow is one district's enrolment profile scored by the
// isolation forest.
type AnomalyRow struct {
	State             string  `json:"state"`
	District          string  `json:"district"`
	EnrolAdult        int64   `json:"enrol_adult"`
	TotalEnrolment    int64   `json:"total_enrolment"`
	AdultEnrolRatio   float64 `json:"adult_enrol_ratio"`
	AdultPerBioUpdate float64 `json:"adult_per_bio_update"`
	AnomalyScore      float64 `json:"anomaly_score"`
	IsAnomaly         bool    `json:"is_anomaly"`
}

// Anomalies screens per-district enrolment profiles with an isolation
// forest. Each district contributes three features: its raw adult
// enrolment volume, the adult share of total enrolment, and adult
// enrolments per adult biometric update. Districts scoring below the
// contamination percentile of the score distribution are flagged.
// Rows come back sorted most anomalous first.
func Anomalies(t *ident.MergedTable, cfg config.FraudConfig) []AnomalyRow {
	places := placeSums(t)
	rows := make([]AnomalyRow, 0, len(places))
	features := make([][]float64, 0, len(places))
	for _, p := range places {
		r := AnomalyRow{
			State:             p.State,
			District:          p.District,
			EnrolAdult:        p.EnrolAdult,
			TotalEnrolment:    p.TotalEnrolment,
			AdultEnrolRatio:   damped(float64(p.EnrolAdult), float64(p.TotalEnrolment)),
			AdultPerBioUpdate: damped(float64(p.EnrolAdult), float64(p.BioAdult)),
		}
		rows = append(rows, r)
		features = append(features, []float64{
			float64(r.EnrolAdult),
			r.AdultEnrolRatio,
			r.AdultPerBioUpdate,
		})
	}
	if len(rows) == 0 {
		return rows
	}

	standardize(features)
	forest := newIsoForest(features, cfg.Trees, cfg.SampleSize, int64(cfg.Seed))
	scores := forest.scoreSamples(features)

	threshold := percentile(scores, cfg.Contamination)
	for i := range rows {
		rows[i].AnomalyScore = scores[i]
		rows[i].IsAnomaly = scores[i] < threshold
	}

	slices.SortStableFunc(rows, func(a, b AnomalyRow) int {
		switch {
		case a.AnomalyScore < b.AnomalyScore:
			return -1
		case a.AnomalyScore > b.AnomalyScore:
			return 1
		}
		return 0
	})
	return rows
}
