package realvalue

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// MonthFormat is the canonical text form of a Month.
const MonthFormat = "2006-01"

// Month identifies a calendar month, with no day.
//
// The zero value is not a valid month; use NewMonth.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month, month overflows roll over the year.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{t.Year(), t.Month()}
}

// ThisMonth returns the current month.
func ThisMonth() Month { return Today().Month() }

// Year returns the year of the month.
func (m Month) Year() int { return m.y }

// Calendar returns the month of the year.
func (m Month) Calendar() time.Month { return m.m }

// IsZero returns true if the month is the zero value.
func (m Month) IsZero() bool { return m.y == 0 && m.m == 0 }

// ordinal counts months since year 0, it makes months comparable as integers.
func (m Month) ordinal() int { return m.y*12 + int(m.m) - 1 }

// Add returns the month n months after m (n can be negative).
func (m Month) Add(n int) Month { return NewMonth(m.y, m.m+time.Month(n)) }

// Sub returns the number of months from x to m.
func (m Month) Sub(x Month) int { return m.ordinal() - x.ordinal() }

// Before reports whether m is before x.
func (m Month) Before(x Month) bool { return m.ordinal() < x.ordinal() }

// After reports whether m is after x.
func (m Month) After(x Month) bool { return m.ordinal() > x.ordinal() }

// First returns the first day of the month.
func (m Month) First() Date { return NewDate(m.y, m.m, 1) }

// Last returns the last day of the month.
func (m Month) Last() Date { return NewDate(m.y, m.m+1, 0) }

// String formats the month as YYYY-MM.
func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.y, int(m.m)) }

// ParseMonth parses "YYYY-MM", it also accepts a full date and drops the day.
func ParseMonth(str string) (Month, error) {
	str = strings.TrimSpace(str)
	if t, err := time.Parse("2006-1", str); err == nil {
		return NewMonth(t.Year(), t.Month()), nil
	}
	d, err := ParseDate(str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q", str, MonthFormat)
	}
	return d.Month(), nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	m, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(text []byte) error {
	v, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MonthRange is an inclusive range of months.
type MonthRange struct{ From, To Month }

// NewMonthRange creates a new range. If 'from' is after 'to', they are swapped.
func NewMonthRange(from, to Month) MonthRange {
	if from.After(to) {
		from, to = to, from
	}
	return MonthRange{From: from, To: to}
}

// Len returns the number of months in the range, bounds included.
func (r MonthRange) Len() int { return r.To.Sub(r.From) + 1 }

// Contains return true if m is in the range (boundaries included).
func (r MonthRange) Contains(m Month) bool { return !m.Before(r.From) && !m.After(r.To) }

// Months returns an iterator that yields each month within the range, inclusive.
func (r MonthRange) Months() iter.Seq[Month] {
	return func(yield func(Month) bool) {
		for m := r.From; !m.After(r.To); m = m.Add(1) {
			if !yield(m) {
				return
			}
		}
	}
}

// String formats the range as "YYYY-MM..YYYY-MM".
func (r MonthRange) String() string { return r.From.String() + ".." + r.To.String() }
