package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/distpulse/dpulse/pkg/ident"
)

// SeasonalRow is one month of national update and enrolment volume
// with month-over-month percent changes. The first month and any month
// following a zero-volume month report a change of 0.
type SeasonalRow struct {
	Month           ident.Month `json:"month"`
	BioAdult        int64       `json:"bio_adult"`
	BioChild        int64       `json:"bio_child"`
	DemoAdult       int64       `json:"demo_adult"`
	DemoChild       int64       `json:"demo_child"`
	TotalEnrolment  int64       `json:"total_enrolment"`
	BioAdultMoMPct  float64     `json:"bio_adult_mom_change"`
	BioChildMoMPct  float64     `json:"bio_child_mom_change"`
	EnrolmentMoMPct float64     `json:"enrolment_mom_change"`
}

// SeasonalSummary condenses the monthly series into its peaks, trough
// and volatility. Ties resolve to the earliest month.
type SeasonalSummary struct {
	Rows                 []SeasonalRow `json:"monthly_data"`
	PeakBioMonth         ident.Month   `json:"peak_bio_month"`
	PeakBioValue         int64         `json:"peak_bio_value"`
	PeakEnrolmentMonth   ident.Month   `json:"peak_enrolment_month"`
	PeakEnrolmentValue   int64         `json:"peak_enrolment_value"`
	LowestEnrolmentMonth ident.Month   `json:"lowest_enrolment_month"`
	LowestEnrolmentValue int64         `json:"lowest_enrolment_value"`
	VolatilityPct        float64       `json:"enrolment_volatility_pct"`
}

// Seasonal aggregates the whole table into national monthly volumes
// and reads seasonality out of them. Volatility is the coefficient of
// variation of monthly enrolment as a percentage. Returns nil for an
// empty table.
func Seasonal(t *ident.MergedTable) *SeasonalSummary {
	months := monthSums(t)
	if len(months) == 0 {
		return nil
	}

	s := &SeasonalSummary{Rows: make([]SeasonalRow, 0, len(months))}
	enrol := make([]float64, 0, len(months))
	for i, m := range months {
		r := SeasonalRow{
			Month:          m.Month,
			BioAdult:       m.BioAdult,
			BioChild:       m.BioChild,
			DemoAdult:      m.DemoAdult,
			DemoChild:      m.DemoChild,
			TotalEnrolment: m.TotalEnrolment,
		}
		if i > 0 {
			prev := months[i-1]
			r.BioAdultMoMPct = pctChange(prev.BioAdult, m.BioAdult)
			r.BioChildMoMPct = pctChange(prev.BioChild, m.BioChild)
			r.EnrolmentMoMPct = pctChange(prev.TotalEnrolment, m.TotalEnrolment)
		}
		s.Rows = append(s.Rows, r)
		enrol = append(enrol, float64(m.TotalEnrolment))

		if m.BioAdult > s.PeakBioValue || i == 0 {
			s.PeakBioMonth, s.PeakBioValue = m.Month, m.BioAdult
		}
		if m.TotalEnrolment > s.PeakEnrolmentValue || i == 0 {
			s.PeakEnrolmentMonth, s.PeakEnrolmentValue = m.Month, m.TotalEnrolment
		}
		if m.TotalEnrolment < s.LowestEnrolmentValue || i == 0 {
			s.LowestEnrolmentMonth, s.LowestEnrolmentValue = m.Month, m.TotalEnrolment
		}
	}

	if mean := stat.Mean(enrol, nil); mean > 0 && len(enrol) > 1 {
		s.VolatilityPct = round1(stat.StdDev(enrol, nil) / mean * 100)
	}
	return s
}

func pctChange(prev, cur int64) float64 {
	if prev == 0 {
		return 0
	}
	return float64(cur-prev) / float64(prev) * 100
}
