package analytics

import (
	"testing"
	"time"

	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigration_Classification(t *testing.T) {
	jan := mon(2024, time.January)
	tbl := mkTable(t, []ident.MergedRow{
		// Many address changes against almost no authentications.
		{State: "M", District: "In", Month: jan, DemoAdult: 60, DemoChild: 40, BioAdult: 1},
		// Pure authentication traffic, nobody updates an address.
		{State: "M", District: "Out", Month: jan, BioAdult: 100},
		// Heavy two-way churn without a dominant direction.
		{State: "M", District: "Mobile", Month: jan, BioAdult: 999, DemoAdult: 12},
		// Light traffic.
		{State: "M", District: "Quiet", Month: jan, BioAdult: 4},
		{State: "M", District: "Idle", Month: jan},
	})

	res := Migration(tbl)
	require.Len(t, res, 5)

	// Sorted by intensity descending.
	assert.Equal(t, "In", res[0].District)
	assert.Equal(t, MigrationHighIn, res[0].MigrationType)
	assert.InDelta(t, 50000.0, res[0].InScore, 1e-6)
	assert.InDelta(t, 1.0/101, res[0].OutScore, 1e-9)

	assert.Equal(t, "Mobile", res[1].District)
	assert.Equal(t, MigrationMobile, res[1].MigrationType)
	assert.InDelta(t, 12.0, res[1].InScore, 1e-9)
	assert.InDelta(t, 10.0, res[1].OutScore, 1e-9)
	assert.InDelta(t, 22.0, res[1].Intensity, 1e-9)

	assert.Equal(t, "Out", res[2].District)
	assert.Equal(t, MigrationHighOut, res[2].MigrationType)
	assert.InDelta(t, 10.0, res[2].OutScore, 1e-9)
	assert.InDelta(t, -10.0, res[2].NetScore, 1e-9)

	assert.Equal(t, "Quiet", res[3].District)
	assert.Equal(t, MigrationStable, res[3].MigrationType)
	assert.Equal(t, "Idle", res[4].District)
	assert.Equal(t, MigrationStable, res[4].MigrationType)
}

func TestMigration_OutScoreClipped(t *testing.T) {
	jan := mon(2024, time.January)
	tbl := mkTable(t, []ident.MergedRow{
		{State: "M", District: "D", Month: jan, BioAdult: 100000},
	})

	res := Migration(tbl)
	require.Len(t, res, 1)
	assert.Equal(t, 10.0, res[0].OutScore)
}

func TestCorridors(t *testing.T) {
	rows := []MigrationRow{
		{State: "Y", District: "y1", MigrationType: MigrationHighIn, Intensity: 100},
		{State: "X", District: "x1", MigrationType: MigrationHighIn, Intensity: 50},
		{State: "X", District: "x2", MigrationType: MigrationStable, Intensity: 20},
		{State: "X", District: "x3", MigrationType: MigrationHighOut, Intensity: 10},
		{State: "X", District: "x4", MigrationType: MigrationHighIn, Intensity: 5},
	}

	res := Corridors(rows)
	require.Len(t, res, 1)

	// Y has gaining districts but no losing ones, so no corridor.
	assert.Equal(t, "X", res[0].State)
	assert.Equal(t, []string{"x1", "x4"}, res[0].InDistricts)
	assert.Equal(t, []string{"x3"}, res[0].OutDistricts)
	assert.Equal(t, 2, res[0].NIn)
	assert.Equal(t, 1, res[0].NOut)
}

func TestCorridors_Empty(t *testing.T) {
	res := Corridors(nil)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestMobilityTrend(t *testing.T) {
	tbl := mkTable(t, []ident.MergedRow{
		{
			State: "S", District: "D", Month: mon(2024, time.January),
			DemoAdult: 6, DemoChild: 4, BioAdult: 3, BioChild: 1,
		},
		{
			State: "S", District: "D", Month: mon(2024, time.February),
			BioAdult: 10,
		},
	})

	res := MobilityTrend(tbl)
	require.Len(t, res, 2)

	assert.Equal(t, mon(2024, time.January), res[0].Month)
	assert.Equal(t, int64(10), res[0].AddressChanges)
	assert.Equal(t, int64(4), res[0].BioAuth)
	assert.InDelta(t, 200.0, res[0].MobilityRatio, 1e-9)

	assert.Equal(t, mon(2024, time.February), res[1].Month)
	assert.Zero(t, res[1].MobilityRatio)
}
