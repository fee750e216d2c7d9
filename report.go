package realvalue

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Table is a named tabular view. Cells are string, float64, int, or nil for
// a missing value.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Report gathers the views of a comparison.
type Report struct {
	Summary       *Table
	MonthlyDetail *Table
	Sources       *Table
	RealValue     *Table
}

// Tables returns all tables in display order.
func (r *Report) Tables() []*Table {
	return []*Table{r.Summary, r.MonthlyDetail, r.Sources, r.RealValue}
}

// Assemble reshapes pair results into the report views.
//
// It computes no new metric, and given the same results always produces the same tables.
func Assemble(results []*PairResult) (*Report, error) {
	if len(results) == 0 {
		return nil, &NoResultsError{}
	}
	return &Report{
		Summary:       summaryTable(results),
		MonthlyDetail: detailTable(results),
		Sources:       sourcesTable(results),
		RealValue:     realValueTable(results),
	}, nil
}

// side selects one currency of a pair result.
type side struct {
	label        string
	profile      CurrencyProfile
	amount       float64
	differential float64
	cumulative   func(MonthlyRow) float64
	power        func(MonthlyRow) Figure
}

func sides(r *PairResult) []side {
	return []side{
		{
			label:        "A",
			profile:      r.A,
			amount:       r.Amount.InexactFloat64(),
			differential: r.Differential,
			cumulative:   func(row MonthlyRow) float64 { return row.CumulativeA },
			power:        func(row MonthlyRow) Figure { return row.PowerA },
		},
		{
			label:        "B",
			profile:      r.B,
			amount:       r.AmountB.InexactFloat64(),
			differential: -r.Differential,
			cumulative:   func(row MonthlyRow) float64 { return row.CumulativeB },
			power:        func(row MonthlyRow) Figure { return row.PowerB },
		},
	}
}

func summaryTable(results []*PairResult) *Table {
	t := &Table{
		Name: "Summary",
		Columns: []string{
			"Pair", "Currency", "Side", "CPI series", "Baseline", "Latest",
			"Starting amount", "Cumulative inflation %", "Inflation differential (pp)",
			"Real value at baseline (USD)", "Real value month", "Real value latest (USD)", "Real change %",
		},
	}
	for _, r := range results {
		latest := r.Latest()
		base := r.BaselineRow()
		defined, hasDefined := r.LatestDefined()
		for _, s := range sides(r) {
			var month, power, change any
			if hasDefined {
				month = defined.Month.String()
				p, _ := s.power(defined).Get()
				power = p
				if b, ok := s.power(base).Get(); ok {
					change = (p/b - 1) * 100
				}
			}
			t.Rows = append(t.Rows, []any{
				r.Pair.String(), s.profile.Code, s.label, s.profile.CPISeries,
				r.Baseline.String(), latest.Month.String(),
				s.amount, s.cumulative(latest), s.differential,
				s.power(base).Cell(), month, power, change,
			})
		}
	}
	return t
}

func detailTable(results []*PairResult) *Table {
	t := &Table{
		Name: "Monthly Detail",
		Columns: []string{
			"Pair", "Month", "CPI A", "CPI B",
			"Cumulative inflation A %", "Cumulative inflation B %", "YoY inflation A %", "YoY inflation B %",
			"Rate A/B", "Real value A (USD)", "Real value B (USD)", "Filled",
		},
	}
	for _, r := range results {
		for _, row := range r.Rows {
			t.Rows = append(t.Rows, []any{
				r.Pair.String(), row.Month.String(), row.CPIA, row.CPIB,
				row.CumulativeA, row.CumulativeB, row.YoYA.Cell(), row.YoYB.Cell(),
				row.Rate, row.PowerA.Cell(), row.PowerB.Cell(), filled(r, row),
			})
		}
	}
	return t
}

// filled lists the inputs of the row that were forward filled.
func filled(r *PairResult, row MonthlyRow) any {
	var names []string
	if !row.ObservedCPIA {
		names = append(names, "CPI "+r.Pair.Base)
	}
	if !row.ObservedCPIB {
		names = append(names, "CPI "+r.Pair.Quote)
	}
	if !row.ObservedRate {
		names = append(names, "rate")
	}
	if len(names) == 0 {
		return nil
	}
	return strings.Join(names, ", ")
}

func sourcesTable(results []*PairResult) *Table {
	t := &Table{
		Name:    "Sources",
		Columns: []string{"Currency", "CPI series", "CPI title", "FX ticker", "CPI observed months"},
	}
	seen := make(map[string]bool)
	for _, r := range results {
		for _, p := range []CurrencyProfile{r.A, r.B} {
			if seen[p.Code] {
				continue
			}
			seen[p.Code] = true
			ticker := p.FXTicker
			if ticker == "" {
				ticker = Reference + " (1.0)"
			}
			var quality any
			if p.CPI != nil {
				quality = fmt.Sprintf("%d/%d", p.CPI.ObservedCount(), p.CPI.Len())
			}
			t.Rows = append(t.Rows, []any{p.Code, p.CPISeries, p.CPITitle, ticker, quality})
		}
	}
	return t
}

// realValueTable pivots the purchasing powers: one row per pair side, one column per month.
func realValueTable(results []*PairResult) *Table {
	usage := make(map[string]int)
	months := MonthRange{results[0].Range().From, results[0].Range().To}
	for _, r := range results {
		usage[r.Pair.Base]++
		usage[r.Pair.Quote]++
		if rr := r.Range(); rr.From.Before(months.From) {
			months.From = rr.From
		}
		if rr := r.Range(); rr.To.After(months.To) {
			months.To = rr.To
		}
	}

	t := &Table{Name: "Real Value", Columns: []string{"Name"}}
	for m := range months.Months() {
		t.Columns = append(t.Columns, m.String())
	}
	for _, r := range results {
		for _, s := range sides(r) {
			name := s.profile.Code
			if usage[name] > 1 {
				name = fmt.Sprintf("%s (%s)", name, r.Pair)
			}
			row := make([]any, len(t.Columns))
			row[0] = name
			for _, mr := range r.Rows {
				row[1+mr.Month.Sub(months.From)] = s.power(mr).Cell()
			}
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// Column returns the index of the named column, or -1.
func (t *Table) Column(name string) int { return slices.Index(t.Columns, name) }

// WriteCSV writes the table as CSV, header first. Floats use the shortest
// exact representation and missing values are empty.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, cell := range row {
			record[i] = FormatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatCell returns the plain text form of a cell.
func FormatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
