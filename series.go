package realvalue

import (
	"iter"
	"slices"
	"sort"
)

// Kind tells what a Series measures.
type Kind string

const (
	FXRate   Kind = "fx-rate"
	CPIIndex Kind = "cpi-index"
)

// Observation is a raw provider sample.
type Observation struct {
	On    Date
	Value float64
}

// TimePoint is a monthly value.
type TimePoint struct {
	Month Month
	Value float64
}

// Series stores a chronological series of raw observations for a currency,
// a pair, or a provider series.
//
// Dates are unique and the observations always sorted, appending an
// observation on an existing date replaces it.
type Series struct {
	Kind Kind
	ID   string
	obs  []Observation
}

// NewSeries returns an empty series.
func NewSeries(kind Kind, id string) *Series { return &Series{Kind: kind, ID: id} }

// chronological is a private implementation to make this series chronologically sorted.
type chronological []Observation

func (s chronological) Len() int           { return len(s) }
func (s chronological) Less(i, j int) bool { return s[i].On.Before(s[j].On) }
func (s chronological) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Append adds an observation to the series.
//
// Existing value at that date is overwritten.
func (s *Series) Append(on Date, v float64) *Series {
	if i := slices.IndexFunc(s.obs, func(o Observation) bool { return o.On == on }); i >= 0 {
		// We choose to replace, because it will give higher priority to the last data
		s.obs[i].Value = v
		return s
	}
	s.obs = append(s.obs, Observation{on, v})
	sort.Stable(chronological(s.obs))
	return s
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.obs) }

// Observations returns an iterator over the observations in chronological order.
func (s *Series) Observations() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for _, o := range s.obs {
			if !yield(o.On, o.Value) {
				return
			}
		}
	}
}

// Latest returns the latest observation.
// If the series is empty, it returns zero value and false.
func (s *Series) Latest() (Observation, bool) {
	if len(s.obs) == 0 {
		return Observation{}, false
	}
	return s.obs[len(s.obs)-1], true
}

// Monthly rolls the observations into one point per month, in chronological
// order. When several observations fall in the same month the later-dated one wins.
func (s *Series) Monthly() []TimePoint {
	points := make([]TimePoint, 0, len(s.obs))
	for _, o := range s.obs {
		m := o.On.Month()
		if n := len(points); n > 0 && points[n-1].Month == m {
			points[n-1].Value = o.Value
			continue
		}
		points = append(points, TimePoint{m, o.Value})
	}
	return points
}

// Map returns a new series with f applied to every value.
func (s *Series) Map(id string, f func(float64) float64) *Series {
	out := &Series{Kind: s.Kind, ID: id, obs: make([]Observation, len(s.obs))}
	for i, o := range s.obs {
		out.obs[i] = Observation{o.On, f(o.Value)}
	}
	return out
}
