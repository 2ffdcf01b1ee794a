package ident_test

import (
	"testing"
	"time"

	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) ident.Month {
	return ident.Month{Year: y, Mon: m}
}

func sampleRows() []ident.MergedRow {
	// Deliberately out of order
	return []ident.MergedRow{
		{
			State: "West Bengal", District: "Kolkata",
			Month:    month(2025, time.February),
			BioChild: 40, EnrolAdult: 15, TotalEnrolment: 15,
		},
		{
			State: "Kerala", District: "Kollam",
			Month:    month(2025, time.January),
			BioChild: 100, BioAdult: 200, EnrolBaby: 5,
			EnrolChild: 10, EnrolAdult: 20, TotalEnrolment: 35,
		},
		{
			State: "Kerala", District: "Ernakulam",
			Month:     month(2025, time.January),
			DemoChild: 30, DemoAdult: 60, TotalEnrolment: 0,
		},
		{
			State: "Kerala", District: "Kollam",
			Month:    month(2025, time.February),
			BioChild: 110, BioAdult: 210, TotalEnrolment: 0,
		},
	}
}

func TestNewMergedTable_SortsRows(t *testing.T) {
	table, err := ident.NewMergedTable(sampleRows())
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())

	rows := table.Rows()
	assert.Equal(t, "Ernakulam", rows[0].District)
	assert.Equal(t, "Kollam", rows[1].District)
	assert.Equal(t, month(2025, time.January), rows[1].Month)
	assert.Equal(t, month(2025, time.February), rows[2].Month)
	assert.Equal(t, "West Bengal", rows[3].State)
}

func TestNewMergedTable_DuplicateKey(t *testing.T) {
	rows := sampleRows()
	rows = append(rows, ident.MergedRow{
		State: "Kerala", District: "Kollam",
		Month: month(2025, time.January),
	})

	_, err := ident.NewMergedTable(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
	assert.Contains(t, err.Error(), "Kollam")
}

func TestNewMergedTable_Empty(t *testing.T) {
	table, err := ident.NewMergedTable(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	_, _, ok := table.MonthSpan()
	assert.False(t, ok)
}

func TestMergedTable_Get(t *testing.T) {
	table, err := ident.NewMergedTable(sampleRows())
	require.NoError(t, err)

	row, ok := table.Get(ident.Key{
		State:    "Kerala",
		District: "Kollam",
		Month:    month(2025, time.January),
	})
	require.True(t, ok)
	assert.Equal(t, int64(100), row.BioChild)
	assert.Equal(t, int64(35), row.TotalEnrolment)

	_, ok = table.Get(ident.Key{
		State:    "Kerala",
		District: "Kollam",
		Month:    month(2025, time.March),
	})
	assert.False(t, ok)
}

func TestMergedTable_States(t *testing.T) {
	table, err := ident.NewMergedTable(sampleRows())
	require.NoError(t, err)

	assert.Equal(t, []string{"Kerala", "West Bengal"}, table.States())
}

func TestMergedTable_Places(t *testing.T) {
	table, err := ident.NewMergedTable(sampleRows())
	require.NoError(t, err)

	want := []ident.Place{
		{State: "Kerala", District: "Ernakulam"},
		{State: "Kerala", District: "Kollam"},
		{State: "West Bengal", District: "Kolkata"},
	}
	assert.Equal(t, want, table.Places())
}

func TestMergedTable_Months(t *testing.T) {
	table, err := ident.NewMergedTable(sampleRows())
	require.NoError(t, err)

	want := []ident.Month{
		month(2025, time.January),
		month(2025, time.February),
	}
	assert.Equal(t, want, table.Months())

	first, last, ok := table.MonthSpan()
	require.True(t, ok)
	assert.Equal(t, want[0], first)
	assert.Equal(t, want[1], last)
}

func TestMergedTable_GroupByPlace(t *testing.T) {
	table, err := ident.NewMergedTable(sampleRows())
	require.NoError(t, err)

	groups := table.GroupByPlace()
	require.Len(t, groups, 3)

	kollam := groups[ident.Place{State: "Kerala", District: "Kollam"}]
	require.Len(t, kollam, 2)
	// Chronological inside the group
	assert.True(t, kollam[0].Month.Before(kollam[1].Month))
}

func TestMergedTable_GroupByState(t *testing.T) {
	table, err := ident.NewMergedTable(sampleRows())
	require.NoError(t, err)

	groups := table.GroupByState()
	assert.Len(t, groups["Kerala"], 3)
	assert.Len(t, groups["West Bengal"], 1)
}

func TestQualityReport(t *testing.T) {
	rep := ident.NewQualityReport(75, false)
	require.NotNil(t, rep.Categories[ident.Biometric])

	rep.Categories[ident.Biometric].Duplicates = 3
	rep.Categories[ident.Enrolment].BadPincode = 2
	rep.Categories[ident.Demographic].UnmappedStateRows = 5
	assert.Equal(t, 10, rep.RowsDropped())

	table, err := ident.NewMergedTable(sampleRows())
	require.NoError(t, err)

	rep.Finish(table)
	assert.Equal(t, 4, rep.MergedRows)
	assert.Equal(t, 2, rep.States)
	assert.Equal(t, 3, rep.Districts)
	assert.Equal(t, "2025-01", rep.FirstMonth.String())
	assert.Equal(t, "2025-02", rep.LastMonth.String())
	assert.False(t, rep.FinishedAt.IsZero())
}
