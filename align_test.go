package realvalue

import (
	"errors"
	"testing"
)

func TestAlign_ForwardFill(t *testing.T) {
	s := cpi("CPI", map[string]float64{"2024-01": 100, "2024-04": 110})
	a := mustAlign(t, s, "2024-01", "2024-06")

	want := []float64{100, 100, 100, 110, 110, 110}
	wantObserved := []bool{true, false, false, true, false, false}
	if a.Len() != len(want) {
		t.Fatalf("Align().Len() = %d want %d", a.Len(), len(want))
	}
	for i := range want {
		m, v, observed := a.At(i)
		if v != want[i] {
			t.Errorf("Align() value at %v = %v want %v", m, v, want[i])
		}
		if observed != wantObserved[i] {
			t.Errorf("Align() observed at %v = %v want %v", m, observed, wantObserved[i])
		}
	}
	if a.ObservedCount() != 2 {
		t.Errorf("ObservedCount() = %d want 2", a.ObservedCount())
	}
}

func TestAlign_Contiguous(t *testing.T) {
	s := fx("GBPUSD", map[string]float64{
		"2023-11-15": 1.2, "2024-02-03": 1.25, "2024-02-27": 1.26, "2024-07-01": 1.3,
	})
	a := mustAlign(t, s, "2023-12", "2024-08")
	if a.Len() != a.Range().Len() {
		t.Fatalf("Len() = %d want %d", a.Len(), a.Range().Len())
	}
	prev := a.Start().Add(-1)
	for m := range a.Points() {
		if m != prev.Add(1) {
			t.Errorf("index is not contiguous: %v follows %v", m, prev)
		}
		prev = m
	}
	if prev != a.End() {
		t.Errorf("last month = %v want %v", prev, a.End())
	}
}

func TestAlign_SeedBeforeStart(t *testing.T) {
	s := cpi("CPI", map[string]float64{"2023-10": 98, "2024-02": 101})
	a := mustAlign(t, s, "2024-01", "2024-02")

	if v, _ := a.Value(MustParseMonth("2024-01")); v != 98 {
		t.Errorf("Value(2024-01) = %v want 98", v)
	}
	if a.Observed(MustParseMonth("2024-01")) {
		t.Errorf("Observed(2024-01) = true want false")
	}
	if v, _ := a.Value(MustParseMonth("2024-02")); v != 101 {
		t.Errorf("Value(2024-02) = %v want 101", v)
	}
}

func TestAlign_LastWriteWins(t *testing.T) {
	s := fx("EURUSD", map[string]float64{
		"2024-01-02": 1.10,
		"2024-01-31": 1.08,
		"2024-01-15": 1.09,
	})
	s.Append(MustParseMonth("2024-02").First(), 1.07)
	s.Append(MustParseMonth("2024-02").First(), 1.05) // same day, replaces

	a := mustAlign(t, s, "2024-01", "2024-02")
	if v, _ := a.Value(MustParseMonth("2024-01")); v != 1.08 {
		t.Errorf("Value(2024-01) = %v want 1.08 (latest day of the month)", v)
	}
	if v, _ := a.Value(MustParseMonth("2024-02")); v != 1.05 {
		t.Errorf("Value(2024-02) = %v want 1.05 (last appended)", v)
	}
}

func TestAlign_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		series    *Series
		from, to  string
		maxGap    int
		wantTyped bool
	}{
		{
			name:      "empty series",
			series:    NewSeries(CPIIndex, "EMPTY"),
			from:      "2024-01",
			to:        "2024-03",
			wantTyped: true,
		},
		{
			name:      "leading gap",
			series:    cpi("LATE", map[string]float64{"2024-03": 100}),
			from:      "2024-01",
			to:        "2024-03",
			wantTyped: true,
		},
		{
			name:      "stale data",
			series:    cpi("STALE", map[string]float64{"2024-01": 100, "2024-08": 104}),
			from:      "2024-01",
			to:        "2024-08",
			maxGap:    3,
			wantTyped: true,
		},
		{
			name:   "end before start",
			series: cpi("CPI", map[string]float64{"2024-01": 100}),
			from:   "2024-03",
			to:     "2024-01",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Align(tc.series, MustParseMonth(tc.from), MustParseMonth(tc.to), AlignOptions{MaxGap: tc.maxGap})
			if err == nil {
				t.Fatalf("Align() expected an error, but got none")
			}
			var insufficient *InsufficientDataError
			if got := errors.As(err, &insufficient); got != tc.wantTyped {
				t.Errorf("Align() error = %v, InsufficientDataError %v want %v", err, got, tc.wantTyped)
			}
		})
	}
}

func TestAlign_MaxGapAllowsQuarterly(t *testing.T) {
	s := cpi("AUSCPI", map[string]float64{"2024-01": 100, "2024-04": 101, "2024-07": 102})
	a, err := Align(s, MustParseMonth("2024-01"), MustParseMonth("2024-07"), AlignOptions{MaxGap: DefaultMaxGap})
	if err != nil {
		t.Fatalf("Align() unexpected error: %v", err)
	}
	if a.ObservedCount() != 3 {
		t.Errorf("ObservedCount() = %d want 3", a.ObservedCount())
	}
}

func TestCross(t *testing.T) {
	gbp := mustAlign(t, fx("GBPUSD", map[string]float64{"2024-01": 1.25, "2024-03": 1.30}), "2024-01", "2024-03")
	jpy := mustAlign(t, fx("JPYUSD", map[string]float64{"2024-01": 0.0068, "2024-02": 0.0067, "2024-03": 0.0066}), "2024-01", "2024-03")

	c, err := Cross("GBPJPY", gbp, jpy)
	if err != nil {
		t.Fatalf("Cross() unexpected error: %v", err)
	}
	m, v, observed := c.At(1)
	if !near(v, 1.25/0.0067) {
		t.Errorf("Cross() at %v = %v want %v", m, v, 1.25/0.0067)
	}
	if observed {
		t.Errorf("Cross() at %v is observed, but GBPUSD was filled", m)
	}

	short := mustAlign(t, fx("JPYUSD", map[string]float64{"2024-01": 0.0068}), "2024-01", "2024-02")
	var mismatch *IndexMismatchError
	if _, err := Cross("GBPJPY", gbp, short); !errors.As(err, &mismatch) {
		t.Errorf("Cross() error = %v want IndexMismatchError", err)
	}
	early := mustAlign(t, fx("JPYUSD", map[string]float64{"2023-12": 0.0068}), "2023-12", "2024-02")
	if _, err := Cross("GBPJPY", gbp, early); !errors.As(err, &mismatch) {
		t.Errorf("Cross() with another start error = %v want IndexMismatchError", err)
	}
}
