package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformance(t *testing.T) {
	jan := mon(2024, time.January)
	tbl := mkTable(t, []ident.MergedRow{
		{
			State: "A", District: "a", Month: jan,
			BioAdult: 50, BioChild: 30, DemoAdult: 10, DemoChild: 10,
			EnrolBaby: 15, EnrolChild: 20, EnrolAdult: 65, TotalEnrolment: 100,
		},
		{
			State: "B", District: "b", Month: jan,
			BioAdult: 20, BioChild: 10, DemoAdult: 5, DemoChild: 5,
			EnrolBaby: 10, EnrolChild: 50, EnrolAdult: 40, TotalEnrolment: 100,
		},
		{
			State: "C", District: "c", Month: jan,
			BioAdult: 90, BioChild: 60, DemoAdult: 30, DemoChild: 30,
			EnrolBaby: 10, EnrolChild: 30, EnrolAdult: 160, TotalEnrolment: 200,
		},
	})

	res := Performance(tbl)
	require.Len(t, res, 3)

	// Sorted by composite index descending.
	assert.Equal(t, []string{"C", "A", "B"}, []string{
		res[0].State, res[1].State, res[2].State,
	})

	c, a, b := res[0], res[1], res[2]

	assert.InDelta(t, 88.3, c.CompositeIndex, 1e-9)
	assert.Equal(t, 1, c.NationalRank)
	assert.Equal(t, TierExcellent, c.Tier)

	assert.InDelta(t, 81.2, a.CompositeIndex, 1e-9)
	assert.Equal(t, 2, a.NationalRank)
	assert.Equal(t, TierExcellent, a.Tier)
	assert.InDelta(t, 80.0/101*100, a.BioUpdateRate, 1e-9)
	assert.InDelta(t, 65.0/101, a.AdultEnrolRatio, 1e-9)

	// B trails on every scaled metric.
	assert.InDelta(t, 0.0, b.CompositeIndex, 1e-9)
	assert.Equal(t, 3, b.NationalRank)
	assert.Equal(t, TierNeedsImprovement, b.Tier)

	// Gaps against the national average of 56.5.
	assert.InDelta(t, 31.8, c.VsNationalAvg, 1e-9)
	assert.InDelta(t, 24.7, a.VsNationalAvg, 1e-9)
	assert.InDelta(t, -56.5, b.VsNationalAvg, 1e-9)
}

func TestClassifyTier(t *testing.T) {
	assert.Equal(t, TierNeedsImprovement, classifyTier(40))
	assert.Equal(t, TierAverage, classifyTier(60))
	assert.Equal(t, TierGood, classifyTier(80))
	assert.Equal(t, TierExcellent, classifyTier(80.1))
}

func TestPeers(t *testing.T) {
	perf := []PerformanceRow{
		{State: "P1", CompositeIndex: 80, TotalEnrolment: 1000},
		{State: "P2", CompositeIndex: 70, TotalEnrolment: 1100},
		{State: "P3", CompositeIndex: 90, TotalEnrolment: 1250},
		{State: "P4", CompositeIndex: 60, TotalEnrolment: 1400},
		{State: "P5", CompositeIndex: 85, TotalEnrolment: 700},
		{State: "P6", CompositeIndex: 50, TotalEnrolment: 0},
	}

	res := Peers(perf, "P1")
	require.Len(t, res, 3)

	// Target leads, then peers by size difference: P4 and P5 are 30%
	// or more away, P6 has no enrolments.
	assert.Equal(t, "P1", res[0].State)
	assert.Equal(t, "P2", res[1].State)
	assert.Equal(t, "P3", res[2].State)

	assert.Equal(t, 2, res[0].RelativePosition)
	assert.Equal(t, 3, res[1].RelativePosition)
	assert.Equal(t, 1, res[2].RelativePosition)
}

func TestPeers_CapsAtFive(t *testing.T) {
	perf := []PerformanceRow{{State: "T", CompositeIndex: 99, TotalEnrolment: 1000}}
	for i := 1; i <= 7; i++ {
		perf = append(perf, PerformanceRow{
			State:          fmt.Sprintf("N%d", i),
			CompositeIndex: float64(10 * i),
			TotalEnrolment: int64(1000 + i),
		})
	}

	res := Peers(perf, "T")
	require.Len(t, res, 6)
	assert.Equal(t, "T", res[0].State)
	assert.Equal(t, "N5", res[5].State)
	assert.Equal(t, 1, res[0].RelativePosition)
}

func TestPeers_MissingOrEmptyTarget(t *testing.T) {
	perf := []PerformanceRow{
		{State: "P1", CompositeIndex: 80, TotalEnrolment: 1000},
		{State: "P6", CompositeIndex: 50, TotalEnrolment: 0},
	}
	assert.Nil(t, Peers(perf, "nowhere"))
	assert.Nil(t, Peers(perf, "P6"))
}

func TestDistrictRankings(t *testing.T) {
	jan := mon(2024, time.January)
	tbl := mkTable(t, []ident.MergedRow{
		{
			State: "S", District: "D1", Month: jan,
			BioAdult: 50, BioChild: 30, DemoAdult: 20,
			EnrolChild: 20, TotalEnrolment: 100,
		},
		{
			State: "S", District: "D2", Month: jan,
			BioAdult: 10, BioChild: 5, DemoAdult: 5,
			EnrolChild: 40, TotalEnrolment: 100,
		},
		{
			State: "S", District: "D3", Month: jan,
			BioAdult: 30, BioChild: 20, DemoAdult: 10,
			EnrolChild: 30, TotalEnrolment: 100,
		},
		{
			State: "T", District: "E1", Month: jan,
			BioAdult: 99, TotalEnrolment: 100,
		},
	})

	res := DistrictRankings(tbl, "S")
	require.Len(t, res, 3)

	assert.Equal(t, "D1", res[0].District)
	assert.InDelta(t, 100.0, res[0].CompositeScore, 1e-9)
	assert.Equal(t, 1, res[0].RankInState)
	assert.Equal(t, "S", res[0].State)

	assert.Equal(t, "D3", res[1].District)
	assert.InDelta(t, 44.2, res[1].CompositeScore, 1e-9)
	assert.Equal(t, 2, res[1].RankInState)

	assert.Equal(t, "D2", res[2].District)
	assert.InDelta(t, 0.0, res[2].CompositeScore, 1e-9)
	assert.Equal(t, 3, res[2].RankInState)
}

func TestBestPractices(t *testing.T) {
	welfare := make([]WelfareRow, 0, 6)
	for i := range 6 {
		welfare = append(welfare, WelfareRow{
			State:        "S",
			District:     fmt.Sprintf("w%d", i),
			ChildMBURate: 90 - float64(i),
			Percentile:   100 - float64(i)*10,
		})
	}
	migration := []MigrationRow{
		{State: "S", District: "m1", MigrationType: MigrationStable, TotalEnrolment: 500, Intensity: 3.14},
		{State: "S", District: "m2", MigrationType: MigrationStable, TotalEnrolment: 900, Intensity: 2.5},
		{State: "S", District: "m3", MigrationType: MigrationStable, TotalEnrolment: 700, Intensity: 1.25},
		{State: "S", District: "m4", MigrationType: MigrationStable, TotalEnrolment: 100},
		{State: "S", District: "m5", MigrationType: MigrationHighIn, TotalEnrolment: 9000},
	}
	benford := []BenfordRow{
		{State: "S", District: "b1", RiskLevel: RiskCompliant, PValue: 0.9},
		{State: "S", District: "b2", RiskLevel: RiskCompliant, PValue: 0.5},
		{State: "S", District: "b3", RiskLevel: RiskCompliant, PValue: 0.7},
		{State: "S", District: "b4", RiskLevel: RiskCompliant, PValue: 0.2},
		{State: "S", District: "b5", RiskLevel: RiskHigh, PValue: 0.99},
		{State: "S", District: "b6", RiskLevel: RiskInsufficient},
	}

	res := BestPractices(welfare, migration, benford)
	require.Len(t, res, 11)

	// Five welfare exemplars by percentile, best first.
	for i := range 5 {
		assert.Equal(t, "Child Biometric Updates", res[i].Category)
		assert.Equal(t, fmt.Sprintf("w%d", i), res[i].District)
		assert.Equal(t, "Child MBU Rate (%)", res[i].MetricName)
	}
	assert.InDelta(t, 90.0, res[0].MetricValue, 1e-9)

	// Three largest stable districts.
	assert.Equal(t, "Population Stability", res[5].Category)
	assert.Equal(t, "m2", res[5].District)
	assert.Equal(t, "m3", res[6].District)
	assert.Equal(t, "m1", res[7].District)
	assert.InDelta(t, 3.1, res[7].MetricValue, 1e-9)
	assert.Equal(t, "Migration Intensity Score", res[5].MetricName)

	// Three cleanest Benford districts by p-value.
	assert.Equal(t, "Clean Enrolment Practices", res[8].Category)
	assert.Equal(t, "b1", res[8].District)
	assert.Equal(t, "b3", res[9].District)
	assert.Equal(t, "b2", res[10].District)
	assert.InDelta(t, 0.9, res[8].MetricValue, 1e-9)
	assert.Equal(t, "Benford P-Value", res[8].MetricName)
}

func TestBestPractices_Empty(t *testing.T) {
	res := BestPractices(nil, nil, nil)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestLaggards(t *testing.T) {
	perf := make([]PerformanceRow, 0, 7)
	for i := 1; i <= 7; i++ {
		perf = append(perf, PerformanceRow{
			State:          fmt.Sprintf("S%d", i),
			CompositeIndex: float64(10 * i),
			VsNationalAvg:  float64(10*i) - 40,
		})
	}
	welfare := []WelfareRow{
		{State: "S1", District: "w1", RiskLevel: RiskCritical, ChildMBURate: 10},
		{State: "S1", District: "w2", RiskLevel: RiskLow, ChildMBURate: 80},
		{State: "S2", District: "w3", RiskLevel: RiskCritical, ChildMBURate: 5},
	}
	suspects := []SuspectRow{
		{State: "S1", District: "f1", DualDetection: true},
		{State: "S1", District: "f2"},
	}

	res := Laggards(perf, welfare, suspects)
	require.Len(t, res, 8)

	// Five worst states by composite.
	for i := range 5 {
		assert.Equal(t, "State", res[i].Level)
		assert.Equal(t, fmt.Sprintf("S%d", i+1), res[i].State)
		assert.Equal(t, "All Districts", res[i].District)
		assert.Equal(t, "Composite Index", res[i].Metric)
	}
	assert.Equal(t, "10.0", res[0].Value)
	assert.Equal(t, "40.0", res[0].NationalAvg)
	assert.Equal(t, "-30.0", res[0].Gap)

	// Critical welfare districts in their incoming order.
	assert.Equal(t, "District", res[5].Level)
	assert.Equal(t, "w1", res[5].District)
	assert.Equal(t, "Child Welfare Risk", res[5].Issue)
	assert.Equal(t, "10.0", res[5].Value)
	assert.Equal(t, "150.0", res[5].NationalAvg)
	assert.Equal(t, "-140.0", res[5].Gap)
	assert.Equal(t, "w3", res[6].District)

	// Dual-detection fraud suspects only.
	assert.Equal(t, "f1", res[7].District)
	assert.Equal(t, "Fraud Risk", res[7].Issue)
	assert.Equal(t, "POSITIVE", res[7].Value)
	assert.Equal(t, "NEGATIVE", res[7].NationalAvg)
	assert.Equal(t, "N/A", res[7].Gap)
}
