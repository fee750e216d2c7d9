package fred

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// KnownCPI maps currency codes to the CPI series used when there is no override.
//
// They are monthly, except the ones listed in KnownQuarterly: their months
// between releases are forward filled, which needs a maximum gap of at least
// MinQuarterlyGap.
var KnownCPI = map[string]string{
	"USD": "CPIAUCNS",
	"EUR": "CP0000EZ19M086NEST",
	"GBP": "GBRCPIALLMINMEI",
	"JPY": "JPNCPIALLMINMEI",
	"CAD": "CANCPIALLMINMEI",
	"CHF": "CHECPIALLMINMEI",
	"AUD": "AUSCPIALLQINMEI",
}

// KnownQuarterly lists the currencies whose KnownCPI series is quarterly.
var KnownQuarterly = []string{"AUD"}

// MinQuarterlyGap is the smallest maximum gap that aligns a quarterly series.
const MinQuarterlyGap = 2

// ResolveCPI finds the CPI series of the currency's country.
//
// Known currencies use KnownCPI, the others are searched for.
func (c *Client) ResolveCPI(ctx context.Context, code string) (SeriesInfo, error) {
	if id, ok := KnownCPI[code]; ok {
		return c.Series(ctx, id)
	}
	terms := []string{
		code + " consumer price index all items",
		code + " consumer price index",
		code + " CPI",
		code,
	}
	for _, term := range terms {
		results, err := c.Search(ctx, term)
		if err != nil {
			return SeriesInfo{}, err
		}
		if best, ok := PickCPI(results); ok {
			return best, nil
		}
	}
	return SeriesInfo{}, fmt.Errorf("cannot find a CPI series for %s, use an override like %s=SERIES_ID", code, code)
}

// PickCPI selects the best CPI series among search results.
//
// Only monthly "Consumer Price Index" series are candidates, "All Items"
// ones are preferred, then the most popular. Ties keep the search order.
func PickCPI(results []SeriesInfo) (SeriesInfo, bool) {
	candidates := CPIOnly(results)
	allItems := slices.DeleteFunc(slices.Clone(candidates), func(r SeriesInfo) bool {
		return !containsFold(r.Title, "all items")
	})
	if len(allItems) > 0 {
		candidates = allItems
	}
	if len(candidates) == 0 {
		return SeriesInfo{}, false
	}
	return candidates[0], true
}

// CPIOnly keeps the monthly consumer price index series, most popular first.
func CPIOnly(results []SeriesInfo) []SeriesInfo {
	var cpi []SeriesInfo
	for _, r := range results {
		if containsFold(r.Frequency, "monthly") && containsFold(r.Title, "consumer price index") {
			cpi = append(cpi, r)
		}
	}
	slices.SortStableFunc(cpi, func(a, b SeriesInfo) int { return b.Popularity - a.Popularity })
	return cpi
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
