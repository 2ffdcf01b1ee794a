package analytics

import (
	"fmt"
	"math"
	"slices"

	"github.com/distpulse/dpulse/pkg/config"
	"github.com/distpulse/dpulse/pkg/ident"
	"gonum.org/v1/gonum/stat"
)

// Trend classifications for the per-state growth rate.
const (
	TrendRapidGrowth  = "RAPID GROWTH"
	TrendSteadyGrowth = "STEADY GROWTH"
	TrendStable       = "STABLE"
	TrendDeclining    = "DECLINING"
	TrendRapidDecline = "RAPID DECLINE"
	TrendInsufficient = "INSUFFICIENT DATA"
)

// ForecastRow projects one state's enrolment volume. States with too
// little history carry only Months, Trend and Reason.
type ForecastRow struct {
	State             string    `json:"state"`
	Months            int       `json:"months"`
	CurrentMonthlyAvg int64     `json:"current_monthly_avg"`
	GrowthRatePct     float64   `json:"growth_rate_pct_per_month"`
	Trend             string    `json:"trend_direction"`
	Forecasts         []float64 `json:"forecast_months,omitempty"`
	ForecastTotal     int64     `json:"forecast_total"`
	Confidence        float64   `json:"confidence_score"`
	StdError          float64   `json:"std_error"`
	ConfInterval      float64   `json:"confidence_interval"`
	Policy            string    `json:"policy_implication,omitempty"`
	Reason            string    `json:"reason,omitempty"`
}

// Forecasts fits an ordinary least-squares trend to each state's
// monthly enrolment series and projects it cfg.HorizonMonths ahead.
// Projected values are floored at zero, a shrinking state forecasts
// no enrolments rather than negative ones. Confidence is the R² of
// the fit as a percentage; the interval is the 95% half-width from
// the residual standard deviation. States with fewer than
// cfg.MinMonths months are reported with a reason after the scored
// rows, which come back sorted by growth rate descending.
func Forecasts(t *ident.MergedTable, cfg config.ForecastConfig) []ForecastRow {
	byState := t.GroupByState()
	scored := make([]ForecastRow, 0, len(byState))
	var excluded []ForecastRow
	for _, state := range t.States() {
		ys := monthlyTotals(byState[state])
		if len(ys) < cfg.MinMonths {
			excluded = append(excluded, ForecastRow{
				State:  state,
				Months: len(ys),
				Trend:  TrendInsufficient,
				Reason: fmt.Sprintf("only %d months of history (minimum %d)",
					len(ys), cfg.MinMonths),
			})
			continue
		}

		alpha, beta := linreg(ys)
		mean := stat.Mean(ys, nil)
		var growth float64
		if mean > 0 {
			growth = beta / mean * 100
		}

		n := len(ys)
		forecasts := make([]float64, cfg.HorizonMonths)
		var total float64
		for i := range forecasts {
			forecasts[i] = math.Max(0, alpha+beta*float64(n+i))
			total += forecasts[i]
		}

		residuals := make([]float64, n)
		for i, y := range ys {
			residuals[i] = y - (alpha + beta*float64(i))
		}
		stdErr := stat.PopStdDev(residuals, nil)

		trend := classifyTrend(growth)
		scored = append(scored, ForecastRow{
			State:             state,
			Months:            n,
			CurrentMonthlyAvg: int64(mean),
			GrowthRatePct:     round2(growth),
			Trend:             trend,
			Forecasts:         forecasts,
			ForecastTotal:     int64(total),
			Confidence:        round1(rSquared(ys, alpha, beta) * 100),
			StdError:          stdErr,
			ConfInterval:      1.96 * stdErr,
			Policy:            policyImplication(trend),
		})
	}

	slices.SortStableFunc(scored, func(a, b ForecastRow) int {
		switch {
		case a.GrowthRatePct > b.GrowthRatePct:
			return -1
		case a.GrowthRatePct < b.GrowthRatePct:
			return 1
		}
		return 0
	})
	return append(scored, excluded...)
}

func classifyTrend(growth float64) string {
	switch {
	case growth > 2:
		return TrendRapidGrowth
	case growth > 0.5:
		return TrendSteadyGrowth
	case growth > -0.5:
		return TrendStable
	case growth > -2:
		return TrendDeclining
	}
	return TrendRapidDecline
}

func policyImplication(trend string) string {
	switch trend {
	case TrendRapidGrowth:
		return "Scale up enrolment centers and staff immediately"
	case TrendSteadyGrowth:
		return "Plan gradual infrastructure expansion"
	case TrendStable:
		return "Maintain current capacity"
	case TrendDeclining:
		return "Investigate causes - market saturation or service issues"
	case TrendRapidDecline:
		return "ALERT: Investigate system problems or demographic changes"
	}
	return ""
}

// monthlyTotals folds one state's rows into a chronological series of
// monthly enrolment totals.
func monthlyTotals(rows []ident.MergedRow) []float64 {
	byMonth := make(map[ident.Month]int64, len(rows))
	for _, row := range rows {
		byMonth[row.Month] += row.TotalEnrolment
	}
	months := make([]ident.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	slices.SortFunc(months, ident.Month.Compare)

	res := make([]float64, len(months))
	for i, m := range months {
		res[i] = float64(byMonth[m])
	}
	return res
}

// linreg fits ys = alpha + beta*x over x = 0..len(ys)-1.
func linreg(ys []float64) (alpha, beta float64) {
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	return stat.LinearRegression(xs, ys, nil, false)
}

// rSquared is the coefficient of determination of the fitted line. A
// constant series scores 1 when fitted exactly and 0 otherwise.
func rSquared(ys []float64, alpha, beta float64) float64 {
	est := make([]float64, len(ys))
	var ssRes float64
	for i, y := range ys {
		est[i] = alpha + beta*float64(i)
		ssRes += (y - est[i]) * (y - est[i])
	}
	if stat.Variance(ys, nil) == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(est, ys, nil)
}
