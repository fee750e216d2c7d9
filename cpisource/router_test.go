package cpisource

import (
	"context"
	"testing"

	"github.com/etnz/realvalue"
)

// named is a source that reports its own name as the series title.
type named string

func (n named) CPI(ctx context.Context, code, override string, from realvalue.Month) (*realvalue.Series, realvalue.CPIInfo, error) {
	return realvalue.NewSeries(realvalue.CPIIndex, override), realvalue.CPIInfo{ID: override, Title: string(n)}, nil
}

func TestRouter(t *testing.T) {
	r := NewRouter(named("fred")).Handle("INSEE-", named("insee"))
	tests := []struct {
		override string
		want     string
	}{
		{"", "fred"},
		{"CPIAUCNS", "fred"},
		{"INSEE-001759970", "insee"},
		{"XINSEE-1", "fred"},
	}
	for _, tt := range tests {
		_, info, err := r.CPI(context.Background(), "EUR", tt.override, realvalue.MustParseMonth("2024-01"))
		if err != nil {
			t.Fatalf("CPI(%q) unexpected error: %v", tt.override, err)
		}
		if info.Title != tt.want {
			t.Errorf("CPI(%q) routed to %s want %s", tt.override, info.Title, tt.want)
		}
	}
}
