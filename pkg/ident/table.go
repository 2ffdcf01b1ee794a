package ident

import (
	"cmp"
	"fmt"
	"slices"
)

// Place identifies a district within a state.
type Place struct {
	State    string `json:"state"`
	District string `json:"district"`
}

// Key identifies one (state, district, month) observation.
type Key struct {
	State    string
	District string
	Month    Month
}

// Place returns the district part of the key.
func (k Key) Place() Place {
	return Place{State: k.State, District: k.District}
}

// MergedRow is one district-month observation with contributions from
// all three categories. Absent categories contribute explicit zeros.
type MergedRow struct {
	State    string `json:"state"`
	District string `json:"district"`
	Month    Month  `json:"month"`

	BioChild   int64 `json:"bio_age_5_17"`
	BioAdult   int64 `json:"bio_age_17_plus"`
	DemoChild  int64 `json:"demo_age_5_17"`
	DemoAdult  int64 `json:"demo_age_17_plus"`
	EnrolBaby  int64 `json:"enrol_age_0_5"`
	EnrolChild int64 `json:"enrol_age_5_17"`
	EnrolAdult int64 `json:"enrol_age_18_plus"`

	// TotalEnrolment is EnrolBaby + EnrolChild + EnrolAdult.
	TotalEnrolment int64 `json:"total_enrolment"`
}

// Key returns the row's (state, district, month) key.
func (r MergedRow) Key() Key {
	return Key{State: r.State, District: r.District, Month: r.Month}
}

// MergedTable holds merged rows sorted by (state, district, month) with
// unique keys. It is the input of every analytical module and is never
// mutated after construction.
type MergedTable struct {
	rows  []MergedRow
	index map[Key]int
}

// NewMergedTable sorts the rows, verifies key uniqueness and builds the
// lookup index. The rows slice is retained; callers must not modify it
// afterwards.
func NewMergedTable(rows []MergedRow) (*MergedTable, error) {
	slices.SortFunc(rows, func(a, b MergedRow) int {
		if c := cmp.Compare(a.State, b.State); c != 0 {
			return c
		}
		if c := cmp.Compare(a.District, b.District); c != 0 {
			return c
		}
		return a.Month.Compare(b.Month)
	})

	index := make(map[Key]int, len(rows))
	for i, row := range rows {
		k := row.Key()
		if prev, ok := index[k]; ok {
			return nil, fmt.Errorf(
				"duplicate key %s/%s/%s at rows %d and %d",
				k.State, k.District, k.Month, prev, i,
			)
		}
		index[k] = i
	}

	return &MergedTable{rows: rows, index: index}, nil
}

// Len returns the number of rows.
func (t *MergedTable) Len() int {
	return len(t.rows)
}

// Rows returns the sorted rows. The slice is shared; treat it as
// read-only.
func (t *MergedTable) Rows() []MergedRow {
	return t.rows
}

// Get returns the row for a key and whether it exists.
func (t *MergedTable) Get(k Key) (MergedRow, bool) {
	i, ok := t.index[k]
	if !ok {
		return MergedRow{}, false
	}
	return t.rows[i], true
}

// States returns the distinct states in sorted order.
func (t *MergedTable) States() []string {
	var res []string
	for _, row := range t.rows {
		if len(res) == 0 || res[len(res)-1] != row.State {
			res = append(res, row.State)
		}
	}
	return res
}

// Places returns the distinct (state, district) pairs in sorted order.
func (t *MergedTable) Places() []Place {
	var res []Place
	for _, row := range t.rows {
		p := Place{State: row.State, District: row.District}
		if len(res) == 0 || res[len(res)-1] != p {
			res = append(res, p)
		}
	}
	return res
}

// Months returns the distinct months in chronological order.
func (t *MergedTable) Months() []Month {
	seen := make(map[Month]bool)
	var res []Month
	for _, row := range t.rows {
		if !seen[row.Month] {
			seen[row.Month] = true
			res = append(res, row.Month)
		}
	}
	slices.SortFunc(res, Month.Compare)
	return res
}

// MonthSpan returns the earliest and latest month of the table. The
// third result is false for an empty table.
func (t *MergedTable) MonthSpan() (Month, Month, bool) {
	months := t.Months()
	if len(months) == 0 {
		return Month{}, Month{}, false
	}
	return months[0], months[len(months)-1], true
}

// GroupByState groups rows per state. Row order inside each group
// follows the table order.
func (t *MergedTable) GroupByState() map[string][]MergedRow {
	res := make(map[string][]MergedRow)
	for _, row := range t.rows {
		res[row.State] = append(res[row.State], row)
	}
	return res
}

// GroupByPlace groups rows per (state, district). Rows inside a group
// are in chronological order.
func (t *MergedTable) GroupByPlace() map[Place][]MergedRow {
	res := make(map[Place][]MergedRow)
	for _, row := range t.rows {
		p := Place{State: row.State, District: row.District}
		res[p] = append(res[p], row)
	}
	return res
}

// GroupByMonth groups rows per month.
func (t *MergedTable) GroupByMonth() map[Month][]MergedRow {
	res := make(map[Month][]MergedRow)
	for _, row := range t.rows {
		res[row.Month] = append(res[row.Month], row)
	}
	return res
}
