package analytics

import (
	"testing"
	"time"

	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forecastRows(state, district string, start ident.Month, totals []int64) []ident.MergedRow {
	rows := make([]ident.MergedRow, len(totals))
	for i, v := range totals {
		rows[i] = ident.MergedRow{
			State:          state,
			District:       district,
			Month:          start.AddMonths(i),
			TotalEnrolment: v,
		}
	}
	return rows
}

func TestForecasts_LinearGrowth(t *testing.T) {
	start := mon(2024, time.January)
	rows := forecastRows("Alpha", "A1", start, []int64{100, 110, 120, 130, 140, 150})
	rows = append(rows, forecastRows("Gamma", "G1", start, []int64{100, 60, 20})...)
	rows = append(rows, forecastRows("Delta", "D1", start, []int64{0, 0, 0})...)
	rows = append(rows, forecastRows("Beta", "B1", start, []int64{500, 500})...)

	res := Forecasts(mkTable(t, rows), config.New().Forecast)
	require.Len(t, res, 4)

	// Scored states by growth rate descending, excluded states last.
	assert.Equal(t, "Alpha", res[0].State)
	assert.Equal(t, "Delta", res[1].State)
	assert.Equal(t, "Gamma", res[2].State)
	assert.Equal(t, "Beta", res[3].State)

	alpha := res[0]
	assert.Equal(t, 6, alpha.Months)
	assert.Equal(t, int64(125), alpha.CurrentMonthlyAvg)
	assert.InDelta(t, 8.0, alpha.GrowthRatePct, 1e-9)
	assert.Equal(t, TrendRapidGrowth, alpha.Trend)
	require.Len(t, alpha.Forecasts, 6)
	for i, want := range []float64{160, 170, 180, 190, 200, 210} {
		assert.InDelta(t, want, alpha.Forecasts[i], 1e-6)
	}
	assert.Equal(t, int64(1110), alpha.ForecastTotal)
	assert.InDelta(t, 100.0, alpha.Confidence, 1e-9)
	assert.InDelta(t, 0.0, alpha.StdError, 1e-6)
	assert.InDelta(t, 0.0, alpha.ConfInterval, 1e-6)
	assert.Equal(t, "Scale up enrolment centers and staff immediately", alpha.Policy)
	assert.Empty(t, alpha.Reason)

	delta := res[1]
	assert.Zero(t, delta.GrowthRatePct)
	assert.Equal(t, TrendStable, delta.Trend)
	assert.Equal(t, "Maintain current capacity", delta.Policy)
	assert.InDelta(t, 100.0, delta.Confidence, 1e-9)
	assert.Equal(t, int64(0), delta.ForecastTotal)
}

func TestForecasts_DeclineFlooredAtZero(t *testing.T) {
	rows := forecastRows("Gamma", "G1", mon(2024, time.January), []int64{100, 60, 20})

	res := Forecasts(mkTable(t, rows), config.New().Forecast)
	require.Len(t, res, 1)

	g := res[0]
	assert.InDelta(t, -66.67, g.GrowthRatePct, 1e-9)
	assert.Equal(t, TrendRapidDecline, g.Trend)
	assert.Equal(t, "ALERT: Investigate system problems or demographic changes", g.Policy)
	require.Len(t, g.Forecasts, 6)
	for _, v := range g.Forecasts {
		assert.Zero(t, v)
	}
	assert.Equal(t, int64(0), g.ForecastTotal)
	assert.Equal(t, int64(60), g.CurrentMonthlyAvg)
}

func TestForecasts_InsufficientHistory(t *testing.T) {
	rows := forecastRows("Beta", "B1", mon(2024, time.January), []int64{500, 500})

	res := Forecasts(mkTable(t, rows), config.New().Forecast)
	require.Len(t, res, 1)

	b := res[0]
	assert.Equal(t, TrendInsufficient, b.Trend)
	assert.Equal(t, "only 2 months of history (minimum 3)", b.Reason)
	assert.Equal(t, 2, b.Months)
	assert.Empty(t, b.Forecasts)
	assert.Empty(t, b.Policy)
}

func TestForecasts_SumsDistrictsPerState(t *testing.T) {
	start := mon(2024, time.January)
	rows := forecastRows("S", "D1", start, []int64{50, 55, 60})
	rows = append(rows, forecastRows("S", "D2", start, []int64{50, 55, 60})...)

	res := Forecasts(mkTable(t, rows), config.New().Forecast)
	require.Len(t, res, 1)
	assert.Equal(t, int64(110), res[0].CurrentMonthlyAvg)
	assert.InDelta(t, 10.0/110*100, res[0].GrowthRatePct, 0.01)
}

func TestClassifyTrend(t *testing.T) {
	assert.Equal(t, TrendRapidGrowth, classifyTrend(2.1))
	assert.Equal(t, TrendSteadyGrowth, classifyTrend(1.0))
	assert.Equal(t, TrendStable, classifyTrend(0.0))
	assert.Equal(t, TrendDeclining, classifyTrend(-1.0))
	assert.Equal(t, TrendRapidDecline, classifyTrend(-5.0))
}
