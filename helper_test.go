package realvalue

import (
	"math"
	"testing"
)

// cpi is a helper for tests to create a CPI series from "YYYY-MM" keyed values.
func cpi(id string, values map[string]float64) *Series { return series(CPIIndex, id, values) }

// fx is a helper for tests to create a rate series from "YYYY-MM" or "YYYY-MM-DD" keyed values.
func fx(id string, values map[string]float64) *Series { return series(FXRate, id, values) }

func series(kind Kind, id string, values map[string]float64) *Series {
	s := NewSeries(kind, id)
	for k, v := range values {
		on, err := ParseDate(k)
		if err != nil {
			on = MustParseMonth(k).First()
		}
		s.Append(on, v)
	}
	return s
}

// mustAlign aligns s over from..to with no gap limit, or fails the test.
func mustAlign(t *testing.T, s *Series, from, to string) *AlignedSeries {
	t.Helper()
	a, err := Align(s, MustParseMonth(from), MustParseMonth(to), AlignOptions{})
	if err != nil {
		t.Fatalf("Align(%s) unexpected error: %v", s.ID, err)
	}
	return a
}

// near compares floats with a relative precision fit for financial figures.
func near(got, want float64) bool {
	const precision = 1e-9
	return math.Abs(got-want) <= precision*math.Max(1, math.Abs(want))
}
