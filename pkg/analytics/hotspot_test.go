package analytics

import (
	"testing"
	"time"

	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activitySeries(district string, totals []int64) []ident.MergedRow {
	rows := make([]ident.MergedRow, len(totals))
	for i, v := range totals {
		rows[i] = ident.MergedRow{
			State:          "S",
			District:       district,
			Month:          mon(2024, time.January).AddMonths(i),
			TotalEnrolment: v,
		}
	}
	return rows
}

func TestHotspots(t *testing.T) {
	rows := activitySeries("Rapid", []int64{100, 100, 200, 300})
	rows = append(rows, activitySeries("Steady", []int64{100, 106, 112, 118})...)
	rows = append(rows, activitySeries("Flat", []int64{100, 100, 100})...)
	rows = append(rows, activitySeries("Short", []int64{500, 500})...)
	rows = append(rows, activitySeries("Idle", []int64{0, 0, 0})...)

	res := Hotspots(mkTable(t, rows))
	require.Len(t, res, 3)

	rapid := res[0]
	assert.Equal(t, "Rapid", rapid.District)
	assert.Equal(t, HotspotEmergence, rapid.Status)
	assert.InDelta(t, 40.0, rapid.GrowthRatePct, 1e-9)
	assert.InDelta(t, 150.0, rapid.AccelerationPct, 1e-9)
	assert.Equal(t, int64(175), rapid.AvgActivity)

	steady := res[1]
	assert.Equal(t, "Steady", steady.District)
	assert.Equal(t, TrendSteadyGrowth, steady.Status)
	assert.InDelta(t, 5.5, steady.GrowthRatePct, 1e-9)
	assert.InDelta(t, 11.7, steady.AccelerationPct, 1e-9)

	flat := res[2]
	assert.Equal(t, "Flat", flat.District)
	assert.Equal(t, TrendStable, flat.Status)
	assert.Zero(t, flat.GrowthRatePct)
	assert.Zero(t, flat.AccelerationPct)
}

func TestHotspots_SumsAllActivityColumns(t *testing.T) {
	// 10+20+30+40+100 = 200 per month across the five columns.
	rows := make([]ident.MergedRow, 3)
	for i := range rows {
		rows[i] = ident.MergedRow{
			State:          "S",
			District:       "D",
			Month:          mon(2024, time.January).AddMonths(i),
			BioAdult:       10,
			BioChild:       20,
			DemoAdult:      30,
			DemoChild:      40,
			TotalEnrolment: 100,
		}
	}

	res := Hotspots(mkTable(t, rows))
	require.Len(t, res, 1)
	assert.Equal(t, int64(200), res[0].AvgActivity)
}

func TestFutureRisks(t *testing.T) {
	jan := mon(2024, time.January)
	tbl := mkTable(t, []ident.MergedRow{
		// All three indicators fire.
		{
			State: "S", District: "R", Month: jan,
			EnrolAdult: 95, TotalEnrolment: 100, BioAdult: 10,
		},
		// Low biometric coverage and no demographic updates only.
		{
			State: "S", District: "T", Month: jan,
			EnrolAdult: 50, TotalEnrolment: 100, BioAdult: 10,
		},
		// Healthy district stays below the reporting bar.
		{
			State: "S", District: "OK", Month: jan,
			EnrolAdult: 95, TotalEnrolment: 100, BioAdult: 95, DemoAdult: 50,
		},
	})

	res := FutureRisks(tbl)
	require.Len(t, res, 2)

	assert.Equal(t, "R", res[0].District)
	assert.Equal(t, 100, res[0].FraudRiskScore)
	assert.Equal(t, "HIGH", res[0].PredictedRisk)
	assert.InDelta(t, 95.0/101, res[0].AdultEnrolRatio, 1e-9)
	assert.InDelta(t, 10.0/96, res[0].BioToEnrolRatio, 1e-9)
	assert.Zero(t, res[0].DemoToBioRatio)

	assert.Equal(t, "T", res[1].District)
	assert.Equal(t, 70, res[1].FraudRiskScore)
}

func TestFutureRisks_Empty(t *testing.T) {
	res := FutureRisks(mkTable(t, nil))
	assert.NotNil(t, res)
	assert.Empty(t, res)
}
