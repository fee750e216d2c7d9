package renderer

import (
	"github.com/etnz/realvalue"
)

// Comparison is the view of a comparison run.
// Numbers are handled using the display types (Money, Percent)
// So that they already contain basics renderers (SignedString etc.)
type Comparison struct {
	Start    realvalue.Month     `json:"start"`
	Baseline realvalue.Month     `json:"baseline"`
	Pairs    []ComparisonPair    `json:"pairs"`
	Failures []ComparisonFailure `json:"failures,omitempty"`
}

// ComparisonPair is the comparison of one currency pair.
type ComparisonPair struct {
	Pair   string          `json:"pair"`
	Latest realvalue.Month `json:"latest"`
	// RealMonth is the latest month with defined real values, zero if none.
	RealMonth realvalue.Month `json:"realMonth"`
	// Differential is the cumulative inflation of A minus B, in percentage points.
	Differential realvalue.Percent `json:"differential"`
	// RateBaseline and RateLatest are the A/B rates.
	RateBaseline float64          `json:"rateBaseline"`
	RateLatest   float64          `json:"rateLatest"`
	Sides        []ComparisonSide `json:"sides"`
}

// ComparisonSide is one currency of a pair.
type ComparisonSide struct {
	Currency   string            `json:"currency"`
	CPISeries  string            `json:"cpiSeries"`
	CPITitle   string            `json:"cpiTitle,omitempty"`
	FXTicker   string            `json:"fxTicker,omitempty"`
	Amount     realvalue.Money   `json:"amount"`
	Cumulative realvalue.Percent `json:"cumulative"`
	// Real values in USD, Defined is false when the latest one is missing.
	Defined      bool              `json:"defined"`
	RealBaseline realvalue.Money   `json:"realBaseline"`
	RealLatest   realvalue.Money   `json:"realLatest"`
	RealChange   realvalue.Percent `json:"realChange"`
}

// ComparisonFailure is a pair that could not be compared.
type ComparisonFailure struct {
	Pair  string `json:"pair"`
	Error string `json:"error"`
}

// NewComparison builds the view of a run.
func NewComparison(run *realvalue.Run) *Comparison {
	c := &Comparison{Start: run.Request.Start, Baseline: run.Request.Baseline}
	if c.Baseline.IsZero() {
		c.Baseline = c.Start
	}
	for _, r := range run.Results {
		c.Pairs = append(c.Pairs, newComparisonPair(r))
	}
	for _, f := range run.Failures {
		c.Failures = append(c.Failures, ComparisonFailure{Pair: f.Pair.String(), Error: f.Err.Error()})
	}
	return c
}

func newComparisonPair(r *realvalue.PairResult) ComparisonPair {
	latest, base := r.Latest(), r.BaselineRow()
	defined, ok := r.LatestDefined()
	p := ComparisonPair{
		Pair:         r.Pair.String(),
		Latest:       latest.Month,
		Differential: realvalue.Percent(r.Differential),
		RateBaseline: base.Rate,
		RateLatest:   latest.Rate,
	}
	a := ComparisonSide{
		Currency:   r.A.Code,
		CPISeries:  r.A.CPISeries,
		CPITitle:   r.A.CPITitle,
		FXTicker:   r.A.FXTicker,
		Amount:     realvalue.M(r.Amount, r.A.Code),
		Cumulative: realvalue.Percent(latest.CumulativeA),
	}
	b := ComparisonSide{
		Currency:   r.B.Code,
		CPISeries:  r.B.CPISeries,
		CPITitle:   r.B.CPITitle,
		FXTicker:   r.B.FXTicker,
		Amount:     realvalue.M(r.AmountB, r.B.Code),
		Cumulative: realvalue.Percent(latest.CumulativeB),
	}
	if ok {
		p.RealMonth = defined.Month
		a.setReal(base.PowerA, defined.PowerA)
		b.setReal(base.PowerB, defined.PowerB)
	}
	p.Sides = []ComparisonSide{a, b}
	return p
}

func (s *ComparisonSide) setReal(baseline, latest realvalue.Figure) {
	b, okb := baseline.Get()
	l, okl := latest.Get()
	if !okb || !okl {
		return
	}
	s.Defined = true
	s.RealBaseline = realvalue.M(b, realvalue.Reference)
	s.RealLatest = realvalue.M(l, realvalue.Reference)
	s.RealChange = realvalue.Percent((l/b - 1) * 100)
}
