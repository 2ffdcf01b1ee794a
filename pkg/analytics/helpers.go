package analytics

import (
	"math"
	"slices"

	"github.com/distpulse/dpulse/pkg/ident"
)

// damped divides x by (y+1), the ratio convention used throughout the
// analytical modules so a zero denominator never faults.
func damped(x, y float64) float64 {
	return x / (y + 1)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// median returns the middle value, or the mean of the two middle
// values for an even count. Zero for an empty slice.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// percentile returns the linearly interpolated percentile of xs for a
// fraction f in [0, 1]. Zero for an empty slice.
func percentile(xs []float64, f float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	if len(s) == 1 {
		return s[0]
	}
	idx := f * float64(len(s)-1)
	lo := int(math.Floor(idx))
	if lo >= len(s)-1 {
		return s[len(s)-1]
	}
	frac := idx - float64(lo)
	return s[lo] + frac*(s[lo+1]-s[lo])
}

// minmaxScale maps xs onto the 0-100 range. A zero range maps every
// value to 0.
func minmaxScale(xs []float64) []float64 {
	res := make([]float64, len(xs))
	if len(xs) == 0 {
		return res
	}
	lo, hi := slices.Min(xs), slices.Max(xs)
	if hi == lo {
		return res
	}
	for i, x := range xs {
		res[i] = (x - lo) / (hi - lo) * 100
	}
	return res
}

// minRankDesc assigns competition ranks: 1 plus the number of strictly
// greater values. Equal values share a rank.
func minRankDesc(xs []float64) []int {
	res := make([]int, len(xs))
	for i, x := range xs {
		rank := 1
		for _, y := range xs {
			if y > x {
				rank++
			}
		}
		res[i] = rank
	}
	return res
}

// placeSum holds one district's column sums across all months.
type placeSum struct {
	State          string
	District       string
	BioChild       int64
	BioAdult       int64
	DemoChild      int64
	DemoAdult      int64
	EnrolBaby      int64
	EnrolChild     int64
	EnrolAdult     int64
	TotalEnrolment int64
	Months         int
}

// placeSums folds the table into per-district totals, ordered by
// (state, district). The single pass relies on the table's sort order.
func placeSums(t *ident.MergedTable) []placeSum {
	var res []placeSum
	for _, row := range t.Rows() {
		if len(res) == 0 ||
			res[len(res)-1].State != row.State ||
			res[len(res)-1].District != row.District {
			res = append(res, placeSum{
				State:    row.State,
				District: row.District,
			})
		}
		p := &res[len(res)-1]
		p.BioChild += row.BioChild
		p.BioAdult += row.BioAdult
		p.DemoChild += row.DemoChild
		p.DemoAdult += row.DemoAdult
		p.EnrolBaby += row.EnrolBaby
		p.EnrolChild += row.EnrolChild
		p.EnrolAdult += row.EnrolAdult
		p.TotalEnrolment += row.TotalEnrolment
		p.Months++
	}
	return res
}

// stateSum holds one state's column sums across all districts and
// months.
type stateSum struct {
	State          string
	BioChild       int64
	BioAdult       int64
	DemoChild      int64
	DemoAdult      int64
	EnrolBaby      int64
	EnrolChild     int64
	EnrolAdult     int64
	TotalEnrolment int64
}

// stateSums folds the table into per-state totals in state order.
func stateSums(t *ident.MergedTable) []stateSum {
	var res []stateSum
	for _, row := range t.Rows() {
		if len(res) == 0 || res[len(res)-1].State != row.State {
			res = append(res, stateSum{State: row.State})
		}
		s := &res[len(res)-1]
		s.BioChild += row.BioChild
		s.BioAdult += row.BioAdult
		s.DemoChild += row.DemoChild
		s.DemoAdult += row.DemoAdult
		s.EnrolBaby += row.EnrolBaby
		s.EnrolChild += row.EnrolChild
		s.EnrolAdult += row.EnrolAdult
		s.TotalEnrolment += row.TotalEnrolment
	}
	return res
}

// monthSum holds national column sums for one month.
type monthSum struct {
	Month          ident.Month
	BioChild       int64
	BioAdult       int64
	DemoChild      int64
	DemoAdult      int64
	EnrolChild     int64
	TotalEnrolment int64
}

// monthSums folds the table into national monthly totals in
// chronological order.
func monthSums(t *ident.MergedTable) []monthSum {
	byMonth := t.GroupByMonth()
	months := t.Months()
	res := make([]monthSum, 0, len(months))
	for _, m := range months {
		s := monthSum{Month: m}
		for _, row := range byMonth[m] {
			s.BioChild += row.BioChild
			s.BioAdult += row.BioAdult
			s.DemoChild += row.DemoChild
			s.DemoAdult += row.DemoAdult
			s.EnrolChild += row.EnrolChild
			s.TotalEnrolment += row.TotalEnrolment
		}
		res = append(res, s)
	}
	return res
}
