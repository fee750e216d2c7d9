// Package yahoo retrieves exchange rates from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/realvalue"
	"github.com/etnz/realvalue/httpcache"
)

// DefaultBaseURL is the Yahoo Finance chart endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Client is a Yahoo Finance client.
type Client struct {
	client  *http.Client
	BaseURL string
}

// New returns a client. A nil client is NewClient("").
func New(client *http.Client) *Client {
	if client == nil {
		client = NewClient("")
	}
	return &Client{client: client, BaseURL: DefaultBaseURL}
}

// NewClient returns an http.Client fit for Yahoo, with a daily disk cache in dir.
func NewClient(dir string) *http.Client {
	return &http.Client{Transport: &httpcache.Transport{Base: userAgent{http.DefaultTransport}, Dir: dir, Period: httpcache.Daily}}
}

// userAgent sets a browser like User-Agent, Yahoo rejects the default one.
type userAgent struct{ base http.RoundTripper }

func (u userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
	return u.base.RoundTrip(req)
}

// USDRate implements realvalue.FXSource.
//
// It reads CODEUSD=X, or else the inverse of USDCODE=X.
func (c *Client) USDRate(ctx context.Context, code string, from realvalue.Month) (*realvalue.Series, string, error) {
	if code == realvalue.Reference {
		s := realvalue.NewSeries(realvalue.FXRate, code)
		s.Append(from.First(), 1).Append(realvalue.Today(), 1)
		return s, "", nil
	}
	var errs error
	direct := code + realvalue.Reference + "=X"
	s, err := c.Chart(ctx, direct, from.First())
	if err == nil {
		return s, direct, nil
	}
	errs = errors.Join(errs, err)

	inverse := realvalue.Reference + code + "=X"
	s, err = c.Chart(ctx, inverse, from.First())
	if err == nil {
		return s.Map(direct, func(v float64) float64 { return 1 / v }), inverse, nil
	}
	errs = errors.Join(errs, err)
	return nil, "", fmt.Errorf("cannot find a %s rate of %s on Yahoo Finance: %w", realvalue.Reference, code, errs)
}

// Chart returns the daily closes of ticker since 'from'.
func (c *Client) Chart(ctx context.Context, ticker string, from realvalue.Date) (*realvalue.Series, error) {
	q := url.Values{
		"period1":  {fmt.Sprint(from.Unix())},
		"period2":  {fmt.Sprint(realvalue.Today().Add(1).Unix())},
		"interval": {"1d"},
	}
	addr := fmt.Sprintf("%s/%s?%s", c.BaseURL, url.PathEscape(ticker), q.Encode())

	var jobj any
	if err := httpcache.GetJSON(ctx, c.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error retrieving %q: %w", ticker, err)
	}
	return parseChart(ticker, jobj)
}

// parseChart extracts the closes of a chart payload.
//
//	{"chart": {"result": [{
//	    "meta": {"symbol": "GBPUSD=X", "gmtoffset": 3600, ...},
//	    "timestamp": [1704063600, ...],
//	    "indicators": {"quote": [{"close": [1.2731, null, ...], ...}]}
//	}], "error": null}}
func parseChart(ticker string, jobj any) (*realvalue.Series, error) {
	timestamps, err := list(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", ticker, err)
	}
	closes, err := list(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", ticker, err)
	}
	if len(timestamps) != len(closes) {
		return nil, fmt.Errorf("error parsing %q: %d timestamps for %d closes", ticker, len(timestamps), len(closes))
	}
	// timestamps are the exchange's midnight, the offset brings them back on the right day.
	var offset float64
	if v, err := jsonpath.Get("$.chart.result[0].meta.gmtoffset", jobj); err == nil {
		offset, _ = v.(float64)
	}

	s := realvalue.NewSeries(realvalue.FXRate, ticker)
	for i, ts := range timestamps {
		t, ok := ts.(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing %q: invalid timestamp %v", ticker, ts)
		}
		// missing closes are null
		v, ok := closes[i].(float64)
		if !ok || v <= 0 {
			continue
		}
		s.Append(realvalue.DateOf(time.Unix(int64(t+offset), 0).UTC()), v)
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("no rate for %q", ticker)
	}
	log.Printf("Yahoo %s: %d closes since %s", ticker, s.Len(), s.Monthly()[0].Month)
	return s, nil
}

// list evaluates a path that must return a JSON array.
func list(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	l, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q: not a list %v", path, jval)
	}
	return l, nil
}
