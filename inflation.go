package realvalue

// InflationTable holds the inflation metrics of an aligned CPI series.
type InflationTable struct {
	CPI        *AlignedSeries
	Baseline   Month
	Cumulative []float64 // % since baseline, per month
	YoY        []Figure  // % over 12 months, per month
}

// ComputeInflation computes, for every month of cpi, the cumulative inflation
// since baseline and the year-over-year inflation.
//
// YoY is undefined for the first 12 months of the series. Figures are not rounded.
func ComputeInflation(cpi *AlignedSeries, baseline Month) (*InflationTable, error) {
	base, ok := cpi.Value(baseline)
	if !ok {
		return nil, &BaselineNotFoundError{Baseline: baseline, Start: cpi.Start(), End: cpi.End()}
	}
	t := &InflationTable{
		CPI:        cpi,
		Baseline:   baseline,
		Cumulative: make([]float64, cpi.Len()),
		YoY:        make([]Figure, cpi.Len()),
	}
	for i, v := range cpi.values {
		t.Cumulative[i] = (v/base - 1) * 100
		if i >= 12 {
			t.YoY[i] = Some((v/cpi.values[i-12] - 1) * 100)
		}
	}
	return t, nil
}

// Range returns the month index of the table.
func (t *InflationTable) Range() MonthRange { return t.CPI.Range() }

// Latest returns the cumulative inflation at the last month.
func (t *InflationTable) Latest() float64 { return t.Cumulative[len(t.Cumulative)-1] }
