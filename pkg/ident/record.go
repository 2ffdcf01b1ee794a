package ident

import (
	"fmt"
	"time"
)

// RawRecord is one source CSV row after header mapping. The struct is
// comparable so exact duplicate rows can be detected with a map lookup.
//
// The count slots are positional per category:
//   - biometric:   [0] ages 5-17, [1] ages 17+, [2] unused
//   - demographic: [0] ages 5-17, [1] ages 17+, [2] unused
//   - enrolment:   [0] ages 0-5, [1] ages 5-17, [2] ages 18+
//
// Count cells that fail integer parsing load as zero; the row itself
// stays in the stream.
type RawRecord struct {
	Date     string
	State    string
	District string
	Pincode  string
	Counts   [3]int64
}

// Month parses the record date under the source layout.
func (r RawRecord) Month() (Month, error) {
	t, err := time.Parse(DateFormat, r.Date)
	if err != nil {
		return Month{}, fmt.Errorf("invalid date '%s': %w", r.Date, err)
	}
	return MonthOf(t), nil
}

// CleanRecord is a raw record after canonicalization and validation:
// state and district hold canonical names and the date is parsed.
type CleanRecord struct {
	State    string
	District string
	Pincode  string
	Month    Month
	Counts   [3]int64
}
