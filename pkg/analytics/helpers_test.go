package analytics

import (
	"testing"
	"time"

	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mon(year int, m time.Month) ident.Month {
	return ident.Month{Year: year, Mon: m}
}

func mkTable(t *testing.T, rows []ident.MergedRow) *ident.MergedTable {
	t.Helper()
	tbl, err := ident.NewMergedTable(rows)
	require.NoError(t, err)
	return tbl
}

func TestDamped(t *testing.T) {
	assert.Equal(t, 2.0, damped(10, 4))
	assert.Equal(t, 5.0, damped(5, 0))
	assert.Equal(t, 0.0, damped(0, 9))
}

func TestRounding(t *testing.T) {
	assert.InDelta(t, 1.3, round1(1.26), 1e-9)
	assert.InDelta(t, 1.2, round1(1.24), 1e-9)
	assert.InDelta(t, -66.67, round2(-66.666666), 1e-9)
	assert.InDelta(t, 3.14, round2(3.14159), 1e-9)
	assert.InDelta(t, 0.042, round3(0.0419), 1e-9)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 0.0, median(nil))
}

func TestPercentile(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 3.0, percentile(xs, 0.5), 1e-9)
	assert.InDelta(t, 2.0, percentile(xs, 0.25), 1e-9)
	assert.InDelta(t, 1.4, percentile(xs, 0.1), 1e-9)
	assert.InDelta(t, 1.0, percentile(xs, 0), 1e-9)
	assert.InDelta(t, 5.0, percentile(xs, 1), 1e-9)

	assert.Equal(t, 7.0, percentile([]float64{7}, 0.3))
	assert.Equal(t, 0.0, percentile(nil, 0.5))

	// Input order must not matter and the input must stay untouched.
	shuffled := []float64{5, 1, 4, 2, 3}
	assert.InDelta(t, 3.0, percentile(shuffled, 0.5), 1e-9)
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, shuffled)
}

func TestMinmaxScale(t *testing.T) {
	got := minmaxScale([]float64{10, 20, 30})
	require.Len(t, got, 3)
	assert.InDelta(t, 0, got[0], 1e-9)
	assert.InDelta(t, 50, got[1], 1e-9)
	assert.InDelta(t, 100, got[2], 1e-9)

	// A zero range maps everything to the bottom of the scale.
	assert.Equal(t, []float64{0, 0}, minmaxScale([]float64{5, 5}))
	assert.Empty(t, minmaxScale(nil))
}

func TestMinRankDesc(t *testing.T) {
	assert.Equal(t, []int{4, 1, 3, 1}, minRankDesc([]float64{10, 30, 20, 30}))
	assert.Equal(t, []int{1}, minRankDesc([]float64{42}))
	assert.Empty(t, minRankDesc(nil))
}

func TestPlaceSums(t *testing.T) {
	tbl := mkTable(t, []ident.MergedRow{
		{
			State: "S", District: "A", Month: mon(2024, time.February),
			BioChild: 2, BioAdult: 4, DemoChild: 6, DemoAdult: 8,
			EnrolBaby: 10, EnrolChild: 12, EnrolAdult: 14, TotalEnrolment: 36,
		},
		{
			State: "S", District: "A", Month: mon(2024, time.January),
			BioChild: 1, BioAdult: 2, DemoChild: 3, DemoAdult: 4,
			EnrolBaby: 5, EnrolChild: 6, EnrolAdult: 7, TotalEnrolment: 18,
		},
		{
			State: "T", District: "C", Month: mon(2024, time.January),
			BioChild: 100, TotalEnrolment: 50,
		},
		{
			State: "S", District: "B", Month: mon(2024, time.January),
			BioAdult: 20, TotalEnrolment: 5,
		},
	})

	sums := placeSums(tbl)
	require.Len(t, sums, 3)

	assert.Equal(t, "S", sums[0].State)
	assert.Equal(t, "A", sums[0].District)
	assert.Equal(t, int64(3), sums[0].BioChild)
	assert.Equal(t, int64(6), sums[0].BioAdult)
	assert.Equal(t, int64(9), sums[0].DemoChild)
	assert.Equal(t, int64(12), sums[0].DemoAdult)
	assert.Equal(t, int64(15), sums[0].EnrolBaby)
	assert.Equal(t, int64(18), sums[0].EnrolChild)
	assert.Equal(t, int64(21), sums[0].EnrolAdult)
	assert.Equal(t, int64(54), sums[0].TotalEnrolment)
	assert.Equal(t, 2, sums[0].Months)

	assert.Equal(t, "B", sums[1].District)
	assert.Equal(t, int64(20), sums[1].BioAdult)
	assert.Equal(t, 1, sums[1].Months)

	assert.Equal(t, "T", sums[2].State)
	assert.Equal(t, int64(100), sums[2].BioChild)
}

func TestStateSums(t *testing.T) {
	tbl := mkTable(t, []ident.MergedRow{
		{State: "S", District: "A", Month: mon(2024, time.January), BioAdult: 10, TotalEnrolment: 100},
		{State: "S", District: "B", Month: mon(2024, time.January), BioAdult: 15, TotalEnrolment: 200},
		{State: "T", District: "C", Month: mon(2024, time.January), BioAdult: 7, TotalEnrolment: 50},
	})

	sums := stateSums(tbl)
	require.Len(t, sums, 2)
	assert.Equal(t, "S", sums[0].State)
	assert.Equal(t, int64(25), sums[0].BioAdult)
	assert.Equal(t, int64(300), sums[0].TotalEnrolment)
	assert.Equal(t, "T", sums[1].State)
	assert.Equal(t, int64(7), sums[1].BioAdult)
}

func TestMonthSums(t *testing.T) {
	tbl := mkTable(t, []ident.MergedRow{
		{State: "S", District: "A", Month: mon(2024, time.February), BioChild: 5, EnrolChild: 2, TotalEnrolment: 20},
		{State: "S", District: "A", Month: mon(2024, time.January), BioChild: 1, EnrolChild: 1, TotalEnrolment: 10},
		{State: "S", District: "B", Month: mon(2024, time.January), BioChild: 3, EnrolChild: 4, TotalEnrolment: 30},
	})

	sums := monthSums(tbl)
	require.Len(t, sums, 2)
	assert.Equal(t, mon(2024, time.January), sums[0].Month)
	assert.Equal(t, int64(4), sums[0].BioChild)
	assert.Equal(t, int64(5), sums[0].EnrolChild)
	assert.Equal(t, int64(40), sums[0].TotalEnrolment)
	assert.Equal(t, mon(2024, time.February), sums[1].Month)
	assert.Equal(t, int64(5), sums[1].BioChild)
}
