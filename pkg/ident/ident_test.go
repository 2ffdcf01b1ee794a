package ident_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/distpulse/dpulse/pkg/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ident.Category
		wantErr bool
	}{
		{name: "biometric", input: "biometric", want: ident.Biometric},
		{name: "mixed case", input: " Demographic ", want: ident.Demographic},
		{name: "enrolment", input: "enrolment", want: ident.Enrolment},
		{name: "unknown", input: "mandate", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ident.NewCategory(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthString(t *testing.T) {
	m := ident.Month{Year: 2025, Mon: time.March}
	assert.Equal(t, "2025-03", m.String())
}

func TestParseMonth(t *testing.T) {
	m, err := ident.ParseMonth("2024-11")
	require.NoError(t, err)
	assert.Equal(t, 2024, m.Year)
	assert.Equal(t, time.November, m.Mon)

	_, err = ident.ParseMonth("11-2024")
	assert.Error(t, err)
}

func TestMonthOrdering(t *testing.T) {
	jan := ident.Month{Year: 2025, Mon: time.January}
	feb := ident.Month{Year: 2025, Mon: time.February}
	prevDec := ident.Month{Year: 2024, Mon: time.December}

	assert.True(t, jan.Before(feb))
	assert.True(t, feb.After(jan))
	assert.True(t, prevDec.Before(jan))
	assert.False(t, jan.Before(jan))
	assert.Equal(t, 0, jan.Compare(jan))
}

func TestMonthAddMonths(t *testing.T) {
	nov := ident.Month{Year: 2024, Mon: time.November}

	// Carries over the year boundary
	assert.Equal(t, ident.Month{Year: 2025, Mon: time.March}, nov.AddMonths(4))
	assert.Equal(t, ident.Month{Year: 2024, Mon: time.September}, nov.AddMonths(-2))
	assert.Equal(t, nov, nov.AddMonths(0))
}

func TestMonthJSON(t *testing.T) {
	m := ident.Month{Year: 2025, Mon: time.July}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"2025-07"`, string(data))

	var back ident.Month
	err = json.Unmarshal(data, &back)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}

func TestRawRecordMonth(t *testing.T) {
	rec := ident.RawRecord{Date: "15-03-2025"}
	m, err := rec.Month()
	require.NoError(t, err)
	assert.Equal(t, ident.Month{Year: 2025, Mon: time.March}, m)

	// Month-first dates do not parse
	rec = ident.RawRecord{Date: "03-15-2025"}
	_, err = rec.Month()
	assert.Error(t, err)

	rec = ident.RawRecord{Date: "2025-03-15"}
	_, err = rec.Month()
	assert.Error(t, err)
}

func TestRawRecordComparable(t *testing.T) {
	a := ident.RawRecord{
		Date:     "01-01-2025",
		State:    "Kerala",
		District: "Kollam",
		Pincode:  "691001",
		Counts:   [3]int64{10, 20, 0},
	}
	b := a

	seen := map[ident.RawRecord]bool{a: true}
	assert.True(t, seen[b], "identical records should collide in a map")

	b.Counts[2] = 1
	assert.False(t, seen[b])
}
