package realvalue

import (
	"fmt"
	"iter"
)

// DefaultMaxGap is the default number of consecutive months a value can be
// forward filled before it is considered too stale.
//
// Three months accepts quarterly CPI releases.
const DefaultMaxGap = 3

// AlignOptions configures Align.
type AlignOptions struct {
	// MaxGap is the maximum age, in months, of a forward filled value.
	// Zero means no limit.
	MaxGap int
}

// AlignedSeries is a series over a contiguous monthly index.
type AlignedSeries struct {
	Kind     Kind
	ID       string
	r        MonthRange
	values   []float64
	observed []bool
}

// Align normalizes a series onto every month from start to end inclusive.
//
// A month with no observation inherits the value of the previous aligned
// month. The series must have an observation at or before start, otherwise
// there is nothing to fill from.
func Align(s *Series, start, end Month, opts AlignOptions) (*AlignedSeries, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("cannot align %q: end %s is before start %s", s.ID, end, start)
	}
	points := s.Monthly()
	if len(points) == 0 {
		return nil, &InsufficientDataError{Series: s.ID, Reason: "series is empty"}
	}

	// seed is the last point at or before start.
	seed := -1
	for i, p := range points {
		if p.Month.After(start) {
			break
		}
		seed = i
	}
	if seed < 0 {
		return nil, &InsufficientDataError{
			Series: s.ID,
			Reason: fmt.Sprintf("first observation %s is after start %s", points[0].Month, start),
		}
	}

	r := MonthRange{start, end}
	a := &AlignedSeries{
		Kind:     s.Kind,
		ID:       s.ID,
		r:        r,
		values:   make([]float64, 0, r.Len()),
		observed: make([]bool, 0, r.Len()),
	}
	next := seed
	last := points[seed]
	for m := range r.Months() {
		observed := false
		// points before m are consumed, the latest one wins.
		for next < len(points) && !points[next].Month.After(m) {
			last = points[next]
			next++
		}
		if last.Month == m {
			observed = true
		} else if opts.MaxGap > 0 && m.Sub(last.Month) > opts.MaxGap {
			return nil, &InsufficientDataError{
				Series: s.ID,
				Reason: fmt.Sprintf("no observation between %s and %s, more than %d months", last.Month, m, opts.MaxGap),
			}
		}
		a.values = append(a.values, last.Value)
		a.observed = append(a.observed, observed)
	}
	return a, nil
}

// LatestObserved returns the month of the latest observation of s.
func LatestObserved(s *Series) (Month, bool) {
	o, ok := s.Latest()
	if !ok {
		return Month{}, false
	}
	return o.On.Month(), true
}

// Constant returns an aligned series with the same observed value v every month.
func Constant(kind Kind, id string, r MonthRange, v float64) *AlignedSeries {
	a := &AlignedSeries{Kind: kind, ID: id, r: r, values: make([]float64, r.Len()), observed: make([]bool, r.Len())}
	for i := range a.values {
		a.values[i] = v
		a.observed[i] = true
	}
	return a
}

// Cross returns the chained rate a/b, month by month.
//
// For two USD legs (USD per A, USD per B) it is the A/B rate.
// A month is observed only if it was observed in both legs.
func Cross(id string, a, b *AlignedSeries) (*AlignedSeries, error) {
	if err := sameIndex(b.ID, a.r, b); err != nil {
		return nil, err
	}
	c := &AlignedSeries{
		Kind:     a.Kind,
		ID:       id,
		r:        a.r,
		values:   make([]float64, len(a.values)),
		observed: make([]bool, len(a.values)),
	}
	for i := range a.values {
		c.values[i] = a.values[i] / b.values[i]
		c.observed[i] = a.observed[i] && b.observed[i]
	}
	return c, nil
}

// sameIndex checks that s spans exactly want.
func sameIndex(what string, want MonthRange, s *AlignedSeries) error {
	if s.r != want {
		return &IndexMismatchError{What: what, Want: want, Got: s.r}
	}
	return nil
}

// Range returns the month index of the series.
func (a *AlignedSeries) Range() MonthRange { return a.r }

// Start returns the first month.
func (a *AlignedSeries) Start() Month { return a.r.From }

// End returns the last month.
func (a *AlignedSeries) End() Month { return a.r.To }

// Len returns the number of months.
func (a *AlignedSeries) Len() int { return len(a.values) }

// At returns the i-th month, its value, and whether it was observed (as opposed to filled).
func (a *AlignedSeries) At(i int) (m Month, v float64, observed bool) {
	return a.r.From.Add(i), a.values[i], a.observed[i]
}

// Value returns the value at month m, false if m is out of range.
func (a *AlignedSeries) Value(m Month) (float64, bool) {
	if !a.r.Contains(m) {
		return 0, false
	}
	return a.values[m.Sub(a.r.From)], true
}

// Observed reports whether month m was observed in the raw series.
func (a *AlignedSeries) Observed(m Month) bool {
	if !a.r.Contains(m) {
		return false
	}
	return a.observed[m.Sub(a.r.From)]
}

// ObservedCount returns the number of observed months.
func (a *AlignedSeries) ObservedCount() int {
	n := 0
	for _, o := range a.observed {
		if o {
			n++
		}
	}
	return n
}

// Points returns an iterator over all month/value pairs, in chronological order.
func (a *AlignedSeries) Points() iter.Seq2[Month, float64] {
	return func(yield func(Month, float64) bool) {
		for i, v := range a.values {
			if !yield(a.r.From.Add(i), v) {
				return
			}
		}
	}
}
