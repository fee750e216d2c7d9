package realvalue

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input    string
		expected Month
		err      bool
	}{
		{"2025-01", NewMonth(2025, time.January), false},
		{"2025-7", NewMonth(2025, time.July), false},
		{"2015-01-01", NewMonth(2015, time.January), false},
		{" 2024-12-31 ", NewMonth(2024, time.December), false},
		{"2025-13", Month{}, true},
		{"january", Month{}, true},
		{"", Month{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMonth(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("ParseMonth(%q) error = %v, want error %v", tt.input, err, tt.err)
			}
			if got != tt.expected {
				t.Errorf("ParseMonth(%q) = %v want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMonthArithmetic(t *testing.T) {
	jan := NewMonth(2024, time.January)
	if got, want := jan.Add(-1), NewMonth(2023, time.December); got != want {
		t.Errorf("Add(-1) = %v want %v", got, want)
	}
	if got, want := jan.Add(14), NewMonth(2025, time.March); got != want {
		t.Errorf("Add(14) = %v want %v", got, want)
	}
	if got := NewMonth(2025, time.March).Sub(jan); got != 14 {
		t.Errorf("Sub() = %v want 14", got)
	}
	if got, want := NewMonth(2024, 13), NewMonth(2025, time.January); got != want {
		t.Errorf("NewMonth(2024, 13) = %v want %v", got, want)
	}
	if got, want := NewMonth(2024, time.February).Last(), NewDate(2024, time.February, 29); got != want {
		t.Errorf("Last() = %v want %v", got, want)
	}
	if !jan.Before(jan.Add(1)) || jan.After(jan) {
		t.Errorf("Before/After are inconsistent")
	}
}

func TestMonthRange(t *testing.T) {
	r := NewMonthRange(MustParseMonth("2024-06"), MustParseMonth("2023-11"))
	if r.From != MustParseMonth("2023-11") {
		t.Errorf("NewMonthRange() did not swap bounds: %v", r)
	}
	if r.Len() != 8 {
		t.Errorf("Len() = %d want 8", r.Len())
	}

	var months []Month
	for m := range r.Months() {
		months = append(months, m)
	}
	if len(months) != r.Len() {
		t.Fatalf("Months() yielded %d months want %d", len(months), r.Len())
	}
	for i := 1; i < len(months); i++ {
		if months[i] != months[i-1].Add(1) {
			t.Errorf("Months() is not contiguous at %v -> %v", months[i-1], months[i])
		}
	}
	if !r.Contains(MustParseMonth("2024-01")) || r.Contains(MustParseMonth("2024-07")) {
		t.Errorf("Contains() is wrong for %v", r)
	}
}

func TestMonthText(t *testing.T) {
	var m Month
	if err := m.UnmarshalText([]byte("2015-03")); err != nil {
		t.Fatalf("UnmarshalText() unexpected error: %v", err)
	}
	text, _ := m.MarshalText()
	if string(text) != "2015-03" {
		t.Errorf("MarshalText() = %q want %q", text, "2015-03")
	}
}
