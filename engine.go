package realvalue

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// CurrencyProfile describes the data used for one currency.
type CurrencyProfile struct {
	Code      string
	CPISeries string         // resolved CPI series identifier
	CPITitle  string         // human readable title of the CPI series, if known
	FXTicker  string         // ticker of the USD rate, empty for USD itself
	CPI       *AlignedSeries // set by Compare
}

// ComparisonInput gathers everything needed to compare one pair.
//
// All series must share the same month index.
type ComparisonInput struct {
	Pair Pair

	// Rate is the A/B rate: units of B for one unit of A.
	Rate *AlignedSeries

	// Reference is the USD rate of A: USD for one unit of A.
	// It can be nil when the pair terminates in USD.
	Reference *AlignedSeries

	A, B     *InflationTable
	ProfileA CurrencyProfile
	ProfileB CurrencyProfile
	Amount   decimal.Decimal // baseline amount, in A
	Baseline Month
}

// MonthlyRow holds one month's metrics for a pair.
type MonthlyRow struct {
	Month                      Month
	CPIA, CPIB                 float64
	CumulativeA, CumulativeB   float64 // % since baseline
	YoYA, YoYB                 Figure  // %
	Rate                       float64 // A/B
	PowerA, PowerB             Figure  // real purchasing power, in USD
	ObservedCPIA, ObservedCPIB bool
	ObservedRate               bool
}

// PairResult is the monthly comparison of a pair.
type PairResult struct {
	Pair      Pair
	Rate      *AlignedSeries // A/B
	Reference *AlignedSeries // USD per A
	A, B      CurrencyProfile
	Baseline  Month
	Amount    decimal.Decimal // in A
	AmountB   decimal.Decimal // Amount converted to B at the baseline rate
	Rows      []MonthlyRow

	// Differential is cumulative inflation of A minus B at the latest month, in percentage points.
	Differential float64
}

// Compare computes the real purchasing power of the baseline amount for both
// sides of a pair, month by month.
//
// The A side is the amount deflated by A's inflation and converted to USD.
// The B side starts with the amount converted to B at the baseline rate,
// deflated by B's inflation and converted to USD through the chained rate.
func Compare(in ComparisonInput) (*PairResult, error) {
	r := in.Rate.Range()
	if err := sameIndex("CPI "+in.Pair.Base, r, in.A.CPI); err != nil {
		return nil, err
	}
	if err := sameIndex("CPI "+in.Pair.Quote, r, in.B.CPI); err != nil {
		return nil, err
	}
	if !r.Contains(in.Baseline) {
		return nil, &BaselineNotFoundError{Baseline: in.Baseline, Start: r.From, End: r.To}
	}
	if in.A.Baseline != in.Baseline || in.B.Baseline != in.Baseline {
		return nil, fmt.Errorf("inflation tables of %s use baselines %s and %s, want %s", in.Pair, in.A.Baseline, in.B.Baseline, in.Baseline)
	}

	ref := in.Reference
	switch {
	case ref != nil:
		if err := sameIndex(Reference+" rate of "+in.Pair.Base, r, ref); err != nil {
			return nil, err
		}
	case in.Pair.Quote == Reference:
		ref = in.Rate
	case in.Pair.Base == Reference:
		ref = Constant(FXRate, Reference, r, 1)
	default:
		return nil, fmt.Errorf("pair %s does not terminate in %s, a %s rate of %s is required", in.Pair, Reference, Reference, in.Pair.Base)
	}

	bi := in.Baseline.Sub(r.From)
	cpiA0, cpiB0, rate0 := in.A.CPI.values[bi], in.B.CPI.values[bi], in.Rate.values[bi]
	amount := in.Amount.InexactFloat64()
	amountB := amount * rate0

	res := &PairResult{
		Pair:      in.Pair,
		Rate:      in.Rate,
		Reference: ref,
		A:         in.ProfileA,
		B:         in.ProfileB,
		Baseline:  in.Baseline,
		Amount:    in.Amount,
		AmountB:   in.Amount.Mul(decimal.NewFromFloat(rate0)),
		Rows:      make([]MonthlyRow, in.Rate.Len()),
	}
	res.A.Code, res.B.Code = in.Pair.Base, in.Pair.Quote
	res.A.CPI, res.B.CPI = in.A.CPI, in.B.CPI

	for i := range res.Rows {
		m, rate, observedRate := in.Rate.At(i)
		_, cpiA, observedA := in.A.CPI.At(i)
		_, cpiB, observedB := in.B.CPI.At(i)
		row := MonthlyRow{
			Month:        m,
			CPIA:         cpiA,
			CPIB:         cpiB,
			CumulativeA:  in.A.Cumulative[i],
			CumulativeB:  in.B.Cumulative[i],
			YoYA:         in.A.YoY[i],
			YoYB:         in.B.YoY[i],
			Rate:         rate,
			ObservedCPIA: observedA,
			ObservedCPIB: observedB,
			ObservedRate: observedRate,
		}
		usdA := ref.values[i]
		// Stale or broken values leave the row undefined, rather than
		// computing a number out of them.
		if usable(cpiA, cpiB, rate, usdA, cpiA0, cpiB0, rate0) {
			usdB := usdA / rate
			row.PowerA = Some(amount / cpiA * cpiA0 * usdA)
			row.PowerB = Some(amountB / cpiB * cpiB0 * usdB)
		}
		res.Rows[i] = row
	}
	res.Differential = in.A.Latest() - in.B.Latest()
	return res, nil
}

// usable reports whether all values are positive finite numbers.
func usable(values ...float64) bool {
	for _, v := range values {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Range returns the month index of the result.
func (r *PairResult) Range() MonthRange { return r.Rate.Range() }

// Latest returns the last row.
func (r *PairResult) Latest() MonthlyRow { return r.Rows[len(r.Rows)-1] }

// LatestDefined returns the last row with defined purchasing powers.
func (r *PairResult) LatestDefined() (MonthlyRow, bool) {
	for i := len(r.Rows) - 1; i >= 0; i-- {
		if r.Rows[i].PowerA.Defined() && r.Rows[i].PowerB.Defined() {
			return r.Rows[i], true
		}
	}
	return MonthlyRow{}, false
}

// BaselineRow returns the row of the baseline month.
func (r *PairResult) BaselineRow() MonthlyRow { return r.Rows[r.Baseline.Sub(r.Range().From)] }
