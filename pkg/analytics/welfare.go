package analytics

import (
	"slices"

	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/ident"
)

// Welfare tiers. RiskHigh and RiskModerate are shared with the Benford
// screening.
const (
	RiskCritical = "CRITICAL RISK"
	RiskLow      = "LOW RISK"
)

// maxPriorities caps the intervention list at the districts a field
// campaign can realistically cover in one cycle.
const maxPriorities = 15

const welfareAction = "Mobile Biometric Camp + Awareness Drive"

// WelfareRow scores one district's child biometric-update compliance
// against the national cohort.
type WelfareRow struct {
	State              string  `json:"state"`
	District           string  `json:"district"`
	BioChild           int64   `json:"bio_child"`
	EnrolChild         int64   `json:"enrol_child"`
	DemoChild          int64   `json:"demo_child"`
	BioAdult           int64   `json:"bio_adult"`
	EnrolAdult         int64   `json:"enrol_adult"`
	TotalEnrolment     int64   `json:"total_enrolment"`
	TotalChildActivity int64   `json:"total_child_activity"`
	ChildMBURate       float64 `json:"child_mbu_rate"`
	TotalAdultActivity int64   `json:"total_adult_activity"`
	AdultMBURate       float64 `json:"adult_mbu_rate"`
	MBUGap             float64 `json:"mbu_gap"`
	ChildEngagement    int64   `json:"child_engagement"`
	ExpectedChildMBU   float64 `json:"expected_child_mbu"`
	Shortfall          float64 `json:"mbu_shortfall"`
	Percentile         float64 `json:"child_mbu_percentile"`
	RiskLevel          string  `json:"welfare_risk"`
}

// Welfare measures how well each district keeps up with mandatory
// child biometric updates. The child MBU rate is the biometric share
// of all child activity; the cohort median sets the expected update
// volume, and the shortfall against it feeds both tiering and the
// intervention ranking. Districts with no child activity at all score
// rate 0 and land in the lowest percentiles rather than being dropped.
// Rows come back worst first, percentile ascending.
func Welfare(t *ident.MergedTable, cfg config.WelfareConfig) []WelfareRow {
	places := placeSums(t)
	rows := make([]WelfareRow, 0, len(places))
	rates := make([]float64, 0, len(places))
	for _, p := range places {
		r := WelfareRow{
			State:              p.State,
			District:           p.District,
			BioChild:           p.BioChild,
			EnrolChild:         p.EnrolChild,
			DemoChild:          p.DemoChild,
			BioAdult:           p.BioAdult,
			EnrolAdult:         p.EnrolAdult,
			TotalEnrolment:     p.TotalEnrolment,
			TotalChildActivity: p.BioChild + p.DemoChild + p.EnrolChild,
			TotalAdultActivity: p.BioAdult + p.EnrolAdult,
			ChildEngagement:    p.BioChild + p.DemoChild,
		}
		r.ChildMBURate = damped(float64(p.BioChild), float64(r.TotalChildActivity)) * 100
		r.AdultMBURate = damped(float64(p.BioAdult), float64(r.TotalAdultActivity)) * 100
		r.MBUGap = r.AdultMBURate - r.ChildMBURate
		rows = append(rows, r)
		rates = append(rates, r.ChildMBURate)
	}

	med := median(rates)
	for i := range rows {
		rows[i].ExpectedChildMBU = float64(rows[i].TotalChildActivity) * med / 100
		rows[i].Shortfall = rows[i].ExpectedChildMBU - float64(rows[i].BioChild)
	}

	// Rank worst performers first: lowest rate, then largest shortfall.
	slices.SortStableFunc(rows, func(a, b WelfareRow) int {
		switch {
		case a.ChildMBURate < b.ChildMBURate:
			return -1
		case a.ChildMBURate > b.ChildMBURate:
			return 1
		case a.Shortfall > b.Shortfall:
			return -1
		case a.Shortfall < b.Shortfall:
			return 1
		}
		return 0
	})
	for i := range rows {
		rows[i].Percentile = float64(i+1) / float64(len(rows)) * 100
		rows[i].RiskLevel = classifyWelfare(rows[i], cfg)
	}
	return rows
}

func classifyWelfare(r WelfareRow, cfg config.WelfareConfig) string {
	switch {
	case r.Percentile < cfg.CriticalPercentile && r.Shortfall > cfg.ShortfallThreshold:
		return RiskCritical
	case r.Percentile < cfg.HighPercentile:
		return RiskHigh
	case r.Percentile < cfg.ModeratePercentile:
		return RiskModerate
	}
	return RiskLow
}

// PriorityRow is one district in the intervention queue.
type PriorityRow struct {
	Rank      int     `json:"rank"`
	State     string  `json:"state"`
	District  string  `json:"district"`
	Priority  float64 `json:"intervention_priority"`
	RiskLevel string  `json:"welfare_risk"`
	Shortfall float64 `json:"mbu_shortfall"`
	Action    string  `json:"recommended_action"`
}

// WelfarePriorities ranks districts for field intervention, weighting
// risk severity and shortfall scale equally. When no district falls
// short of the expected volume the scale term contributes nothing.
func WelfarePriorities(rows []WelfareRow) []PriorityRow {
	var maxShort float64
	for _, r := range rows {
		if r.Shortfall > maxShort {
			maxShort = r.Shortfall
		}
	}

	res := make([]PriorityRow, 0, len(rows))
	for _, r := range rows {
		p := (100 - r.Percentile) * 0.5
		if maxShort > 0 {
			p += r.Shortfall / maxShort * 100 * 0.5
		}
		res = append(res, PriorityRow{
			State:     r.State,
			District:  r.District,
			Priority:  p,
			RiskLevel: r.RiskLevel,
			Shortfall: r.Shortfall,
			Action:    welfareAction,
		})
	}

	slices.SortStableFunc(res, func(a, b PriorityRow) int {
		switch {
		case a.Priority > b.Priority:
			return -1
		case a.Priority < b.Priority:
			return 1
		}
		return 0
	})
	if len(res) > maxPriorities {
		res = res[:maxPriorities]
	}
	for i := range res {
		res[i].Rank = i + 1
	}
	return res
}

// ChildTrendRow is one month of national child update activity.
type ChildTrendRow struct {
	Month        ident.Month `json:"month"`
	BioChild     int64       `json:"bio_child"`
	EnrolChild   int64       `json:"enrol_child"`
	ChildMBURate float64     `json:"child_mbu_rate"`
}

// ChildTrend tracks the monthly child biometric-update rate against
// new child enrolments, in chronological order.
func ChildTrend(t *ident.MergedTable) []ChildTrendRow {
	months := monthSums(t)
	res := make([]ChildTrendRow, 0, len(months))
	for _, m := range months {
		res = append(res, ChildTrendRow{
			Month:        m.Month,
			BioChild:     m.BioChild,
			EnrolChild:   m.EnrolChild,
			ChildMBURate: damped(float64(m.BioChild), float64(m.EnrolChild)) * 100,
		})
	}
	return res
}
