package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/ident"
	"gonum.org/v1/gonum/stat/distuv"
)

// Benford risk levels.
const (
	RiskHigh         = "HIGH RISK"
	RiskModerate     = "MODERATE RISK"
	RiskCompliant    = "COMPLIANT"
	RiskInsufficient = "INSUFFICIENT DATA"
)

// benfordDF is the degrees of freedom of the first-two-digits test
// (90 digit bins, 10-99).
const benfordDF = 89

// BenfordRow is one group's first-two-digits screening result. Groups
// with too short a series are included with RiskInsufficient and a
// reason instead of a score.
type BenfordRow struct {
	State          string `json:"state"`
	District       string `json:"district,omitempty"`
	TotalEnrolment int64  `json:"total_enrolment"`
	// SeriesLen is the number of positive values whose leading digits
	// entered the test.
	SeriesLen       int     `json:"series_len"`
	ChiSquare       float64 `json:"chi_square"`
	Critical        float64 `json:"critical_value"`
	PValue          float64 `json:"p_value"`
	DeviationFactor float64 `json:"deviation_factor"`
	RiskLevel       string  `json:"risk_level"`
	Reason          string  `json:"reason,omitempty"`
}

// Benford screens enrolment counts for ghost entries with the
// first-two-digits form of Benford's law. Counts are grouped per
// district (or per state with group_by "state") and the monthly values
// of total_enrolment form each group's series; values of zero or less
// carry no leading-digit information and are skipped.
func Benford(t *ident.MergedTable, cfg config.FraudConfig) []BenfordRow {
	chi := distuv.ChiSquared{K: benfordDF}
	critical := chi.Quantile(cfg.Confidence)
	expected := benfordProbs()

	groups := benfordGroups(t, cfg.GroupBy)

	scored := make([]BenfordRow, 0, len(groups))
	var excluded []BenfordRow
	for _, g := range groups {
		if g.total <= 0 {
			continue
		}

		var counts [100]int
		var n int
		for _, v := range g.series {
			if d, ok := firstTwoDigits(v); ok {
				counts[d]++
				n++
			}
		}

		row := BenfordRow{
			State:          g.state,
			District:       g.district,
			TotalEnrolment: g.total,
			SeriesLen:      n,
		}

		if n < cfg.MinSeries {
			row.RiskLevel = RiskInsufficient
			row.Reason = fmt.Sprintf(
				"only %d usable values (minimum %d)", n, cfg.MinSeries,
			)
			excluded = append(excluded, row)
			continue
		}

		var stat float64
		for d := 10; d <= 99; d++ {
			exp := expected[d] * float64(n)
			diff := float64(counts[d]) - exp
			stat += diff * diff / (exp + 1e-10)
		}

		row.ChiSquare = stat
		row.Critical = critical
		row.PValue = chi.Survival(stat)
		row.DeviationFactor = stat / critical
		switch {
		case stat > critical*1.5:
			row.RiskLevel = RiskHigh
		case stat > critical:
			row.RiskLevel = RiskModerate
		default:
			row.RiskLevel = RiskCompliant
		}
		scored = append(scored, row)
	}

	slices.SortFunc(scored, func(a, b BenfordRow) int {
		if c := cmp.Compare(b.ChiSquare, a.ChiSquare); c != 0 {
			return c
		}
		if c := cmp.Compare(a.State, b.State); c != 0 {
			return c
		}
		return cmp.Compare(a.District, b.District)
	})
	return append(scored, excluded...)
}

type benfordGroup struct {
	state    string
	district string
	series   []int64
	total    int64
}

// benfordGroups collects each group's monthly total_enrolment values
// in (state, district) order. Grouping by state pools every district
// row of the state into one series.
func benfordGroups(t *ident.MergedTable, groupBy string) []benfordGroup {
	byState := groupBy == "state"

	var res []benfordGroup
	for _, row := range t.Rows() {
		last := len(res) - 1
		if last < 0 ||
			res[last].state != row.State ||
			(!byState && res[last].district != row.District) {
			g := benfordGroup{state: row.State}
			if !byState {
				g.district = row.District
			}
			res = append(res, g)
			last++
		}
		res[last].series = append(res[last].series, row.TotalEnrolment)
		res[last].total += row.TotalEnrolment
	}
	return res
}

// benfordProbs returns the expected first-two-digits distribution,
// p(d) = log10(1 + 1/d), indexed by digit pair.
func benfordProbs() [100]float64 {
	var res [100]float64
	for d := 10; d <= 99; d++ {
		res[d] = math.Log10(1 + 1/float64(d))
	}
	return res
}

// firstTwoDigits reduces a positive count to its two leading digits;
// single-digit values are padded with a trailing zero. The second
// result is false for values without digit information.
func firstTwoDigits(v int64) (int, bool) {
	if v <= 0 {
		return 0, false
	}
	for v >= 100 {
		v /= 10
	}
	if v < 10 {
		v *= 10
	}
	return int(v), true
}
