package analytics

import (
	"slices"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/distpulse/dpulse/pkg/ident"
)

// Performance tiers over the composite index.
const (
	TierNeedsImprovement = "NEEDS IMPROVEMENT"
	TierAverage          = "AVERAGE"
	TierGood             = "GOOD"
	TierExcellent        = "EXCELLENT"
)

// adultRatioOptimum is the adult enrolment share considered healthy.
// States are scored by their distance from it in either direction.
const adultRatioOptimum = 0.65

// PerformanceRow is one state's composite performance index with its
// component rates and scaled scores.
type PerformanceRow struct {
	State              string  `json:"state"`
	TotalEnrolment     int64   `json:"total_enrolment"`
	BioUpdateRate      float64 `json:"bio_update_rate"`
	ChildBioCompliance float64 `json:"child_bio_compliance"`
	DemoActivityScore  float64 `json:"demo_activity_score"`
	AdultEnrolRatio    float64 `json:"adult_enrol_ratio"`
	BioScore           float64 `json:"bio_score"`
	ChildScore         float64 `json:"child_score"`
	DemoScore          float64 `json:"demo_score"`
	AdultScore         float64 `json:"adult_score"`
	CompositeIndex     float64 `json:"composite_index"`
	NationalRank       int     `json:"national_rank"`
	Tier               string  `json:"performance_tier"`
	VsNationalAvg      float64 `json:"vs_national_avg"`
}

// Performance benchmarks every state on four dimensions: biometric
// update rate, child biometric compliance, demographic activity, and
// closeness of the adult enrolment share to the optimum. Each rate is
// min-max scaled to 0-100 across states, so scores are relative to
// the cohort, not absolute. The composite weights them 0.35, 0.30,
// 0.20 and 0.15. Ranks use competition ("min") ranking. Rows come
// back sorted by composite index descending, ties in state order.
func Performance(t *ident.MergedTable) []PerformanceRow {
	states := stateSums(t)
	n := len(states)
	rows := make([]PerformanceRow, 0, n)
	bioRates := make([]float64, n)
	childRates := make([]float64, n)
	demoRates := make([]float64, n)
	adultDevs := make([]float64, n)
	for i, s := range states {
		r := PerformanceRow{
			State:              s.State,
			TotalEnrolment:     s.TotalEnrolment,
			BioUpdateRate:      damped(float64(s.BioAdult+s.BioChild), float64(s.TotalEnrolment)) * 100,
			ChildBioCompliance: damped(float64(s.BioChild), float64(s.EnrolChild)) * 100,
			DemoActivityScore:  damped(float64(s.DemoAdult+s.DemoChild), float64(s.TotalEnrolment)) * 100,
			AdultEnrolRatio:    damped(float64(s.EnrolAdult), float64(s.TotalEnrolment)),
		}
		bioRates[i] = r.BioUpdateRate
		childRates[i] = r.ChildBioCompliance
		demoRates[i] = r.DemoActivityScore
		adultDevs[i] = abs(r.AdultEnrolRatio - adultRatioOptimum)
		rows = append(rows, r)
	}

	bioScores := minmaxScale(bioRates)
	childScores := minmaxScale(childRates)
	demoScores := minmaxScale(demoRates)
	devScores := minmaxScale(adultDevs)
	composites := make([]float64, n)
	for i := range rows {
		rows[i].BioScore = bioScores[i]
		rows[i].ChildScore = childScores[i]
		rows[i].DemoScore = demoScores[i]
		rows[i].AdultScore = 100 - devScores[i]
		rows[i].CompositeIndex = round1(rows[i].BioScore*0.35 +
			rows[i].ChildScore*0.30 +
			rows[i].DemoScore*0.20 +
			rows[i].AdultScore*0.15)
		composites[i] = rows[i].CompositeIndex
	}

	ranks := minRankDesc(composites)
	var mean float64
	if n > 0 {
		mean = stat.Mean(composites, nil)
	}
	for i := range rows {
		rows[i].NationalRank = ranks[i]
		rows[i].Tier = classifyTier(rows[i].CompositeIndex)
		rows[i].VsNationalAvg = round1(rows[i].CompositeIndex - mean)
	}

	slices.SortStableFunc(rows, func(a, b PerformanceRow) int {
		switch {
		case a.CompositeIndex > b.CompositeIndex:
			return -1
		case a.CompositeIndex < b.CompositeIndex:
			return 1
		}
		return 0
	})
	return rows
}

func classifyTier(composite float64) string {
	switch {
	case composite <= 40:
		return TierNeedsImprovement
	case composite <= 60:
		return TierAverage
	case composite <= 80:
		return TierGood
	}
	return TierExcellent
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// PeerRow is one state in a peer-comparison matrix.
type PeerRow struct {
	State              string  `json:"state"`
	CompositeIndex     float64 `json:"composite_index"`
	BioUpdateRate      float64 `json:"bio_update_rate"`
	ChildBioCompliance float64 `json:"child_bio_compliance"`
	DemoActivityScore  float64 `json:"demo_activity_score"`
	Tier               string  `json:"performance_tier"`
	RelativePosition   int     `json:"relative_position"`
}

// Peers compares a state against up to five states of similar size,
// those within 30% of its total enrolment, closest first. The target
// state leads the matrix and RelativePosition ranks composites within
// it. Returns nil when the state is not in the index or has no
// enrolments to compare by.
func Peers(perf []PerformanceRow, state string) []PeerRow {
	var target *PerformanceRow
	for i := range perf {
		if perf[i].State == state {
			target = &perf[i]
			break
		}
	}
	if target == nil || target.TotalEnrolment == 0 {
		return nil
	}

	type candidate struct {
		row  PerformanceRow
		diff float64
	}
	var cands []candidate
	for _, r := range perf {
		if r.State == state {
			continue
		}
		diff := abs(float64(r.TotalEnrolment-target.TotalEnrolment)) /
			float64(target.TotalEnrolment) * 100
		if diff < 30 {
			cands = append(cands, candidate{row: r, diff: diff})
		}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		switch {
		case a.diff < b.diff:
			return -1
		case a.diff > b.diff:
			return 1
		}
		return 0
	})
	if len(cands) > 5 {
		cands = cands[:5]
	}

	group := make([]PerformanceRow, 0, len(cands)+1)
	group = append(group, *target)
	for _, c := range cands {
		group = append(group, c.row)
	}
	composites := make([]float64, len(group))
	for i, r := range group {
		composites[i] = r.CompositeIndex
	}
	positions := minRankDesc(composites)

	res := make([]PeerRow, len(group))
	for i, r := range group {
		res[i] = PeerRow{
			State:              r.State,
			CompositeIndex:     r.CompositeIndex,
			BioUpdateRate:      r.BioUpdateRate,
			ChildBioCompliance: r.ChildBioCompliance,
			DemoActivityScore:  r.DemoActivityScore,
			Tier:               r.Tier,
			RelativePosition:   positions[i],
		}
	}
	return res
}

// DistrictRankRow ranks one district inside its state.
type DistrictRankRow struct {
	State          string  `json:"state"`
	District       string  `json:"district"`
	BioRate        float64 `json:"bio_rate"`
	ChildMBURate   float64 `json:"child_mbu_rate"`
	DemoActivity   float64 `json:"demo_activity"`
	CompositeScore float64 `json:"composite_score"`
	RankInState    int     `json:"rank_in_state"`
}

// DistrictRankings scores the districts of one state against each
// other: biometric rate and child MBU rate at 0.4 each, adult
// demographic activity at 0.2, min-max scaled within the state.
// Sorted by composite descending.
func DistrictRankings(t *ident.MergedTable, state string) []DistrictRankRow {
	var rows []DistrictRankRow
	var bioRates, childRates, demoRates []float64
	for _, p := range placeSums(t) {
		if p.State != state {
			continue
		}
		r := DistrictRankRow{
			State:        p.State,
			District:     p.District,
			BioRate:      damped(float64(p.BioAdult+p.BioChild), float64(p.TotalEnrolment)) * 100,
			ChildMBURate: damped(float64(p.BioChild), float64(p.EnrolChild)) * 100,
			DemoActivity: damped(float64(p.DemoAdult), float64(p.TotalEnrolment)) * 100,
		}
		bioRates = append(bioRates, r.BioRate)
		childRates = append(childRates, r.ChildMBURate)
		demoRates = append(demoRates, r.DemoActivity)
		rows = append(rows, r)
	}

	bioScores := minmaxScale(bioRates)
	childScores := minmaxScale(childRates)
	demoScores := minmaxScale(demoRates)
	composites := make([]float64, len(rows))
	for i := range rows {
		rows[i].CompositeScore = round1(bioScores[i]*0.4 +
			childScores[i]*0.4 +
			demoScores[i]*0.2)
		composites[i] = rows[i].CompositeScore
	}
	ranks := minRankDesc(composites)
	for i := range rows {
		rows[i].RankInState = ranks[i]
	}

	slices.SortStableFunc(rows, func(a, b DistrictRankRow) int {
		switch {
		case a.CompositeScore > b.CompositeScore:
			return -1
		case a.CompositeScore < b.CompositeScore:
			return 1
		}
		return 0
	})
	return rows
}

// BestPracticeRow is one exemplary district worth replicating.
type BestPracticeRow struct {
	Category    string  `json:"category"`
	State       string  `json:"state"`
	District    string  `json:"district"`
	MetricValue float64 `json:"metric_value"`
	MetricName  string  `json:"metric_name"`
	Why         string  `json:"why_exemplary"`
	Action      string  `json:"replicable_action"`
}

// BestPractices collects exemplars from three angles: the five
// districts with the highest child-welfare percentile, the three
// largest STABLE districts by enrolment, and the three COMPLIANT
// Benford districts with the highest p-values.
func BestPractices(welfare []WelfareRow, migration []MigrationRow, benford []BenfordRow) []BestPracticeRow {
	res := make([]BestPracticeRow, 0, 11)

	topWelfare := slices.Clone(welfare)
	slices.SortStableFunc(topWelfare, func(a, b WelfareRow) int {
		switch {
		case a.Percentile > b.Percentile:
			return -1
		case a.Percentile < b.Percentile:
			return 1
		}
		return 0
	})
	for _, r := range topWelfare[:min(5, len(topWelfare))] {
		res = append(res, BestPracticeRow{
			Category:    "Child Biometric Updates",
			State:       r.State,
			District:    r.District,
			MetricValue: round1(r.ChildMBURate),
			MetricName:  "Child MBU Rate (%)",
			Why:         "High child biometric update rates ensuring welfare access",
			Action:      "Mobile biometric update camps + school awareness programs",
		})
	}

	var stable []MigrationRow
	for _, r := range migration {
		if r.MigrationType == MigrationStable {
			stable = append(stable, r)
		}
	}
	slices.SortStableFunc(stable, func(a, b MigrationRow) int {
		switch {
		case a.TotalEnrolment > b.TotalEnrolment:
			return -1
		case a.TotalEnrolment < b.TotalEnrolment:
			return 1
		}
		return 0
	})
	for _, r := range stable[:min(3, len(stable))] {
		res = append(res, BestPracticeRow{
			Category:    "Population Stability",
			State:       r.State,
			District:    r.District,
			MetricValue: round1(r.Intensity),
			MetricName:  "Migration Intensity Score",
			Why:         "Low migration despite high population - good retention",
			Action:      "Study local economic/social factors for replication",
		})
	}

	var clean []BenfordRow
	for _, r := range benford {
		if r.RiskLevel == RiskCompliant {
			clean = append(clean, r)
		}
	}
	slices.SortStableFunc(clean, func(a, b BenfordRow) int {
		switch {
		case a.PValue > b.PValue:
			return -1
		case a.PValue < b.PValue:
			return 1
		}
		return 0
	})
	for _, r := range clean[:min(3, len(clean))] {
		res = append(res, BestPracticeRow{
			Category:    "Clean Enrolment Practices",
			State:       r.State,
			District:    r.District,
			MetricValue: round3(r.PValue),
			MetricName:  "Benford P-Value",
			Why:         "Natural enrolment patterns with no statistical anomalies",
			Action:      "Study enrolment verification processes and oversight mechanisms",
		})
	}
	return res
}

// LaggardRow is one state or district flagged for urgent intervention.
// Values are strings so a statistical gap and a boolean detection can
// share the table.
type LaggardRow struct {
	Level       string `json:"level"`
	State       string `json:"state"`
	District    string `json:"district"`
	Issue       string `json:"issue"`
	Metric      string `json:"metric"`
	Value       string `json:"value"`
	NationalAvg string `json:"national_avg"`
	Gap         string `json:"gap"`
	Action      string `json:"recommended_action"`
}

// Laggards flags the five weakest states by composite index, up to
// ten CRITICAL RISK welfare districts by child MBU rate against the
// 150% expected-rate reference, and up to ten dual-detection fraud
// suspects.
func Laggards(perf []PerformanceRow, welfare []WelfareRow, suspects []SuspectRow) []LaggardRow {
	res := make([]LaggardRow, 0, 25)

	worst := slices.Clone(perf)
	slices.SortStableFunc(worst, func(a, b PerformanceRow) int {
		switch {
		case a.CompositeIndex < b.CompositeIndex:
			return -1
		case a.CompositeIndex > b.CompositeIndex:
			return 1
		}
		return 0
	})
	composites := make([]float64, len(perf))
	for i, r := range perf {
		composites[i] = r.CompositeIndex
	}
	var mean float64
	if len(composites) > 0 {
		mean = stat.Mean(composites, nil)
	}
	for _, r := range worst[:min(5, len(worst))] {
		res = append(res, LaggardRow{
			Level:       "State",
			State:       r.State,
			District:    "All Districts",
			Issue:       "Overall Low Performance",
			Metric:      "Composite Index",
			Value:       formatScore(r.CompositeIndex),
			NationalAvg: formatScore(round1(mean)),
			Gap:         formatScore(r.VsNationalAvg),
			Action:      "Comprehensive system audit and capacity building",
		})
	}

	taken := 0
	for _, r := range welfare {
		if taken == 10 {
			break
		}
		if r.RiskLevel != RiskCritical {
			continue
		}
		taken++
		res = append(res, LaggardRow{
			Level:       "District",
			State:       r.State,
			District:    r.District,
			Issue:       "Child Welfare Risk",
			Metric:      "Child MBU Rate (%)",
			Value:       formatScore(round1(r.ChildMBURate)),
			NationalAvg: "150.0",
			Gap:         formatScore(round1(r.ChildMBURate - 150)),
			Action:      "Immediate MBU awareness campaign + mobile biometric camps",
		})
	}

	taken = 0
	for _, r := range suspects {
		if taken == 10 {
			break
		}
		if !r.DualDetection {
			continue
		}
		taken++
		res = append(res, LaggardRow{
			Level:       "District",
			State:       r.State,
			District:    r.District,
			Issue:       "Fraud Risk",
			Metric:      "Dual Anomaly Detection",
			Value:       "POSITIVE",
			NationalAvg: "NEGATIVE",
			Gap:         "N/A",
			Action:      "Urgent audit of enrolment processes and records",
		})
	}
	return res
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
