package realvalue

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelism is the default number of currencies retrieved concurrently.
const DefaultParallelism = 4

// Request describes a comparison to run.
type Request struct {
	Pairs     []Pair
	Start     Month
	Baseline  Month           // zero means Start
	Amount    decimal.Decimal // in the base currency of each pair
	Overrides Overrides       // CPI series per currency code
	Output    string          // output target name, not used by the comparison
}

// Validate checks the request before any retrieval starts.
func (r Request) Validate() error {
	if len(r.Pairs) == 0 {
		return errors.New("at least one currency pair is required")
	}
	if r.Start.IsZero() {
		return errors.New("start month is required")
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", r.Amount)
	}
	if !r.Baseline.IsZero() && r.Baseline.Before(r.Start) {
		return fmt.Errorf("baseline %s is before start %s", r.Baseline, r.Start)
	}
	used := make(map[string]bool)
	for _, code := range Currencies(r.Pairs) {
		used[code] = true
	}
	for code := range r.Overrides {
		if !used[code] {
			return fmt.Errorf("CPI override for %s, which is not part of any requested pair", code)
		}
	}
	return nil
}

// baseline returns the effective baseline month.
func (r Request) baseline() Month {
	if r.Baseline.IsZero() {
		return r.Start
	}
	return r.Baseline
}

// Options tunes a Comparator.
type Options struct {
	Align       AlignOptions
	Parallelism int // maximum concurrent retrievals, 0 means DefaultParallelism
}

// Comparator retrieves the data of a request and compares every pair.
type Comparator struct {
	CPI     CPISource
	FX      FXSource
	Options Options
}

// Failure is a pair that could not be compared.
type Failure struct {
	Pair Pair
	Err  error
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Pair, f.Err) }

func (f Failure) Unwrap() error { return f.Err }

// Run holds the outcome of a comparison: the pairs that succeeded, in
// request order, and the ones that failed.
type Run struct {
	Request  Request
	Results  []*PairResult
	Failures []Failure
}

// currencyData is the raw data retrieved for one currency.
type currencyData struct {
	cpi    *Series
	info   CPIInfo
	usd    *Series // nil for USD
	ticker string
	err    error
}

// Run compares every pair of the request.
//
// A pair whose data cannot be retrieved or aligned is reported as a Failure
// and does not prevent the other pairs from being compared. Run returns an
// error only if the request is invalid or no pair could be compared.
func (c *Comparator) Run(ctx context.Context, req Request) (*Run, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	data := c.retrieve(ctx, req)

	run := &Run{Request: req}
	for _, pair := range req.Pairs {
		res, err := c.comparePair(req, pair, data[pair.Base], data[pair.Quote])
		if err != nil {
			log.Printf("cannot compare %s: %v", pair, err)
			run.Failures = append(run.Failures, Failure{pair, err})
			continue
		}
		log.Printf("compared %s over %s", pair, res.Range())
		run.Results = append(run.Results, res)
	}
	if len(run.Results) == 0 {
		errs := make([]error, len(run.Failures))
		for i, f := range run.Failures {
			errs[i] = f
		}
		return run, fmt.Errorf("%w: %w", &NoResultsError{Failures: len(run.Failures)}, errors.Join(errs...))
	}
	return run, nil
}

// retrieve fetches the CPI and USD rate of every currency once, concurrently.
func (c *Comparator) retrieve(ctx context.Context, req Request) map[string]*currencyData {
	limit := c.Options.Parallelism
	if limit <= 0 {
		limit = DefaultParallelism
	}
	var g errgroup.Group
	g.SetLimit(limit)

	data := make(map[string]*currencyData)
	for _, code := range Currencies(req.Pairs) {
		d := new(currencyData)
		data[code] = d
		g.Go(func() error {
			d.cpi, d.info, d.err = c.CPI.CPI(ctx, code, req.Overrides[code], req.Start)
			if d.err != nil {
				d.err = fmt.Errorf("cannot retrieve CPI of %s: %w", code, d.err)
				return nil
			}
			if code == Reference {
				return nil
			}
			d.usd, d.ticker, d.err = c.FX.USDRate(ctx, code, req.Start)
			if d.err != nil {
				d.err = fmt.Errorf("cannot retrieve %s rate of %s: %w", Reference, code, d.err)
			}
			// errors are per currency, they must not cancel the others.
			return nil
		})
	}
	g.Wait()
	return data
}

// comparePair aligns the data of both currencies on their common months and compares them.
func (c *Comparator) comparePair(req Request, pair Pair, a, b *currencyData) (*PairResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	if b.err != nil {
		return nil, b.err
	}

	// The comparison ends with the latest month every input has observed,
	// so that nothing is filled past the true end of a series.
	start := req.Start
	var end Month
	var endSeries string
	for _, s := range []*Series{a.cpi, b.cpi, a.usd, b.usd} {
		if s == nil {
			continue
		}
		latest, ok := LatestObserved(s)
		if !ok {
			return nil, &InsufficientDataError{Series: s.ID, Reason: "series is empty"}
		}
		if end.IsZero() || latest.Before(end) {
			end, endSeries = latest, s.ID
		}
	}
	if end.Before(start) {
		return nil, &InsufficientDataError{Series: endSeries, Reason: fmt.Sprintf("latest observation %s is before start %s", end, start)}
	}
	r := NewMonthRange(start, end)

	align := func(s *Series) (*AlignedSeries, error) { return Align(s, start, end, c.Options.Align) }
	usd := func(code string, s *Series) (*AlignedSeries, error) {
		if s == nil {
			return Constant(FXRate, code+Reference, r, 1), nil
		}
		return align(s)
	}

	cpiA, err := align(a.cpi)
	if err != nil {
		return nil, err
	}
	cpiB, err := align(b.cpi)
	if err != nil {
		return nil, err
	}
	usdA, err := usd(pair.Base, a.usd)
	if err != nil {
		return nil, err
	}
	usdB, err := usd(pair.Quote, b.usd)
	if err != nil {
		return nil, err
	}
	rate, err := Cross(pair.Base+pair.Quote, usdA, usdB)
	if err != nil {
		return nil, err
	}

	baseline := req.baseline()
	infA, err := ComputeInflation(cpiA, baseline)
	if err != nil {
		return nil, err
	}
	infB, err := ComputeInflation(cpiB, baseline)
	if err != nil {
		return nil, err
	}

	return Compare(ComparisonInput{
		Pair:      pair,
		Rate:      rate,
		Reference: usdA,
		A:         infA,
		B:         infB,
		ProfileA:  CurrencyProfile{Code: pair.Base, CPISeries: a.info.ID, CPITitle: a.info.Title, FXTicker: a.ticker},
		ProfileB:  CurrencyProfile{Code: pair.Quote, CPISeries: b.info.ID, CPITitle: b.info.Title, FXTicker: b.ticker},
		Amount:    req.Amount,
		Baseline:  baseline,
	})
}
