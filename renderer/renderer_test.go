package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/realvalue"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// testRun compares GBP-USD from 2024-01 to 2024-12, with EUR-USD failing.
func testRun(t *testing.T) *realvalue.Run {
	t.Helper()
	start, end := realvalue.MustParseMonth("2024-01"), realvalue.MustParseMonth("2024-12")
	align := func(kind realvalue.Kind, id string, first, last float64) *realvalue.AlignedSeries {
		s := realvalue.NewSeries(kind, id)
		s.Append(start.First(), first).Append(end.First(), last)
		a, err := realvalue.Align(s, start, end, realvalue.AlignOptions{})
		if err != nil {
			t.Fatalf("Align() unexpected error: %v", err)
		}
		return a
	}
	infA, err := realvalue.ComputeInflation(align(realvalue.CPIIndex, "GBRCPI", 100, 112), start)
	if err != nil {
		t.Fatal(err)
	}
	infB, err := realvalue.ComputeInflation(align(realvalue.CPIIndex, "CPIAUCNS", 100, 105), start)
	if err != nil {
		t.Fatal(err)
	}
	res, err := realvalue.Compare(realvalue.ComparisonInput{
		Pair:     realvalue.Pair{Base: "GBP", Quote: "USD"},
		Rate:     align(realvalue.FXRate, "GBPUSD=X", 1, 0.95),
		A:        infA,
		B:        infB,
		ProfileA: realvalue.CurrencyProfile{CPISeries: "GBRCPI", FXTicker: "GBPUSD=X"},
		ProfileB: realvalue.CurrencyProfile{CPISeries: "CPIAUCNS"},
		Amount:   decimal.NewFromInt(1000),
		Baseline: start,
	})
	if err != nil {
		t.Fatalf("Compare() unexpected error: %v", err)
	}
	return &realvalue.Run{
		Request: realvalue.Request{Start: start},
		Results: []*realvalue.PairResult{res},
		Failures: []realvalue.Failure{{
			Pair: realvalue.Pair{Base: "EUR", Quote: "USD"},
			Err:  errors.New("no CPI for EUR"),
		}},
	}
}

func TestNewComparison(t *testing.T) {
	c := NewComparison(testRun(t))
	if c.Baseline != c.Start {
		t.Errorf("Baseline = %s want %s", c.Baseline, c.Start)
	}
	if len(c.Pairs) != 1 || len(c.Failures) != 1 {
		t.Fatalf("got %d pairs and %d failures want 1 and 1", len(c.Pairs), len(c.Failures))
	}
	p := c.Pairs[0]
	if !p.Differential.Equal(7) {
		t.Errorf("Differential = %v want 7", p.Differential)
	}
	if p.RealMonth != realvalue.MustParseMonth("2024-12") {
		t.Errorf("RealMonth = %s want 2024-12", p.RealMonth)
	}
	a, b := p.Sides[0], p.Sides[1]
	if !a.Amount.Equal(realvalue.M(1000, "GBP")) {
		t.Errorf("Amount of GBP = %v want £1,000.00", a.Amount)
	}
	// the rate at baseline is 1
	if !b.Amount.Equal(realvalue.M(1000, "USD")) {
		t.Errorf("Amount of USD = %v want $1,000.00", b.Amount)
	}
	if !a.Defined {
		t.Fatal("real values of GBP are undefined")
	}
	if got, want := a.RealLatest.String(), "$848.21"; got != want {
		t.Errorf("RealLatest = %s want %s", got, want)
	}
	if !a.RealChange.Equal(realvalue.Percent((0.95/1.12 - 1) * 100)) {
		t.Errorf("RealChange = %v", a.RealChange)
	}
}

func TestRenderComparison(t *testing.T) {
	out := Markdown(testRun(t))

	for _, want := range []string{
		"# Real value since 2024-01",
		"## GBP-USD (2024-12)",
		"| Starting amount | £1,000.00 | $1,000.00 |",
		"| Cumulative inflation | +12.00% | +5.00% |",
		"| Real value latest (2024-12) | $848.21 | $952.38 |",
		"Inflation differential: +7.00 pp.",
		"* EUR-USD: no CPI for EUR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "error ") {
		t.Errorf("template error:\n%s", out)
	}

	// the tables must be valid GFM tables.
	source := []byte(out)
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(source))
	tables, headings := 0, 0
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.Table:
			tables++
		case *ast.Heading:
			headings++
		}
		return ast.WalkContinue, nil
	})
	if tables != 1 {
		t.Errorf("got %d tables want 1:\n%s", tables, out)
	}
	if headings != 3 {
		t.Errorf("got %d headings want 3:\n%s", headings, out)
	}
}
