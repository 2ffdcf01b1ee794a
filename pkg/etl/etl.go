// Package etl holds the pure middle stages of the pipeline: applying
// canonical names to raw rows, structural validation and dedup,
// group-summing per district and month, and the outer-join merge of the
// three categories into one table.
//
// All functions are deterministic and free of I/O; orchestration,
// logging and persistence live in internal/ioetl and internal/iostore.
package etl

import (
	"github.com/distpulse/dpulse/pkg/canon"
	"github.com/distpulse/dpulse/pkg/ident"
)

// Canonicalize rewrites state and district names on raw rows using the
// resolver. Rows whose state resolves to a sentinel are dropped, or kept
// under the Unmatched bucket when includeUnmatched is set; either way
// they are counted per distinct raw value in cq.
func Canonicalize(
	recs []ident.RawRecord,
	r *canon.Resolver,
	includeUnmatched bool,
	cq *ident.CategoryQuality,
) []ident.RawRecord {
	res := make([]ident.RawRecord, 0, len(recs))

	for _, rec := range recs {
		state := r.State(rec.State)

		switch state.Match {
		case canon.Invalid, canon.Unknown:
			cq.UnmappedStateRows++
			cq.UnmappedStates[rec.State]++
			if !includeUnmatched {
				continue
			}
			rec.State = canon.UnmatchedBucket
		default:
			rec.State = state.Canonical
		}

		district := r.District(rec.State, rec.District)
		rec.District = district.Canonical

		res = append(res, rec)
	}

	return res
}

// Validate deduplicates and structurally validates canonicalized rows,
// producing clean records. Checks run in a fixed order (duplicate,
// pincode, date) so every dropped row is counted once, under its first
// failing reason.
func Validate(recs []ident.RawRecord, cq *ident.CategoryQuality) []ident.CleanRecord {
	seen := make(map[ident.RawRecord]struct{}, len(recs))
	res := make([]ident.CleanRecord, 0, len(recs))

	for _, rec := range recs {
		if _, ok := seen[rec]; ok {
			cq.Duplicates++
			continue
		}
		seen[rec] = struct{}{}

		if !validPincode(rec.Pincode) {
			cq.BadPincode++
			continue
		}

		month, err := rec.Month()
		if err != nil {
			cq.BadDate++
			continue
		}

		res = append(res, ident.CleanRecord{
			State:    rec.State,
			District: rec.District,
			Pincode:  rec.Pincode,
			Month:    month,
			Counts:   rec.Counts,
		})
		cq.RowsKept++
	}

	return res
}

// validPincode accepts exactly six ASCII digits.
func validPincode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Aggregate group-sums clean records by (state, district, month). The
// pincode grain disappears here; summation order never affects the
// result.
func Aggregate(recs []ident.CleanRecord) map[ident.Key][3]int64 {
	res := make(map[ident.Key][3]int64)
	for _, rec := range recs {
		k := ident.Key{
			State:    rec.State,
			District: rec.District,
			Month:    rec.Month,
		}
		sums := res[k]
		for i, c := range rec.Counts {
			sums[i] += c
		}
		res[k] = sums
	}
	return res
}

// Merge outer-joins the three category aggregates on the shared
// (state, district, month) key. A key absent from a category contributes
// explicit zeros, and the derived total enrolment is computed after the
// join.
func Merge(frames map[ident.Category]map[ident.Key][3]int64) (*ident.MergedTable, error) {
	keys := make(map[ident.Key]bool)
	for _, frame := range frames {
		for k := range frame {
			keys[k] = true
		}
	}

	rows := make([]ident.MergedRow, 0, len(keys))
	for k := range keys {
		bio := frames[ident.Biometric][k]
		demo := frames[ident.Demographic][k]
		enrol := frames[ident.Enrolment][k]

		row := ident.MergedRow{
			State:      k.State,
			District:   k.District,
			Month:      k.Month,
			BioChild:   bio[0],
			BioAdult:   bio[1],
			DemoChild:  demo[0],
			DemoAdult:  demo[1],
			EnrolBaby:  enrol[0],
			EnrolChild: enrol[1],
			EnrolAdult: enrol[2],
		}
		row.TotalEnrolment = row.EnrolBaby + row.EnrolChild + row.EnrolAdult
		rows = append(rows, row)
	}

	return ident.NewMergedTable(rows)
}
