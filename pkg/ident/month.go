package ident

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the day-first layout used by the source exports.
const DateFormat = "02-01-2006"

// Month is a calendar month, the time grain of the merged table.
type Month struct {
	Year int
	Mon  time.Month
}

// MonthOf returns the month a time falls in.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// ParseMonth parses the "2006-01" form produced by String.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month '%s': %w", s, err)
	}
	return MonthOf(t), nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Compare orders months chronologically. It returns a negative number
// when m is earlier than other, zero when equal, positive when later.
func (m Month) Compare(other Month) int {
	if m.Year != other.Year {
		return m.Year - other.Year
	}
	return int(m.Mon) - int(other.Mon)
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	return m.Compare(other) < 0
}

// After reports whether m is later than other.
func (m Month) After(other Month) bool {
	return m.Compare(other) > 0
}

// AddMonths returns the month n months after m. Negative n moves
// backwards. Overflow past December carries into the year.
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Mon+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return MonthOf(t)
}

// MarshalJSON encodes the month as its "2006-01" string form.
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes the "2006-01" string form.
func (m *Month) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
