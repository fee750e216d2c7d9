// Package fred retrieves consumer price indices from the FRED API of the
// Federal Reserve Bank of St. Louis.
package fred

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/etnz/realvalue"
	"github.com/etnz/realvalue/httpcache"
)

// DefaultBaseURL is the FRED API endpoint.
const DefaultBaseURL = "https://api.stlouisfed.org/fred"

// Client is a FRED API client.
type Client struct {
	apiKey  string
	client  *http.Client
	BaseURL string
}

// New returns a client using apiKey. A nil client uses a monthly disk cache.
func New(apiKey string, client *http.Client) *Client {
	if client == nil {
		client = httpcache.NewClient("", httpcache.Monthly)
	}
	return &Client{apiKey: apiKey, client: client, BaseURL: DefaultBaseURL}
}

// SeriesInfo describes a FRED series.
type SeriesInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Frequency  string `json:"frequency"`
	Units      string `json:"units"`
	Popularity int    `json:"popularity"`
}

// get calls a FRED endpoint with the query parameters in q.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, data any) error {
	if c.apiKey == "" {
		return errors.New("a FRED API key is required")
	}
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	return httpcache.GetJSON(ctx, c.client, c.BaseURL+endpoint+"?"+q.Encode(), data)
}

// Series returns the description of the series id.
func (c *Client) Series(ctx context.Context, id string) (SeriesInfo, error) {
	var payload struct {
		Seriess []SeriesInfo `json:"seriess"`
	}
	if err := c.get(ctx, "/series", url.Values{"series_id": {id}}, &payload); err != nil {
		return SeriesInfo{}, fmt.Errorf("cannot get FRED series %s: %w", id, err)
	}
	if len(payload.Seriess) == 0 {
		return SeriesInfo{}, fmt.Errorf("FRED series %s not found", id)
	}
	return payload.Seriess[0], nil
}

// Search returns the series matching text, most popular first.
func (c *Client) Search(ctx context.Context, text string) ([]SeriesInfo, error) {
	var payload struct {
		Seriess []SeriesInfo `json:"seriess"`
	}
	q := url.Values{
		"search_text": {text},
		"order_by":    {"popularity"},
		"sort_order":  {"desc"},
		"limit":       {"100"},
	}
	if err := c.get(ctx, "/series/search", q, &payload); err != nil {
		return nil, fmt.Errorf("cannot search FRED for %q: %w", text, err)
	}
	return payload.Seriess, nil
}

// Observations returns the values of series id from date 'from'.
//
// FRED reports missing values as "."; they are skipped.
func (c *Client) Observations(ctx context.Context, id string, from realvalue.Date) (*realvalue.Series, error) {
	var payload struct {
		Observations []struct {
			Date  realvalue.Date `json:"date"`
			Value string         `json:"value"`
		} `json:"observations"`
	}
	q := url.Values{"series_id": {id}}
	if !from.IsZero() {
		q.Set("observation_start", from.String())
	}
	if err := c.get(ctx, "/series/observations", q, &payload); err != nil {
		return nil, fmt.Errorf("cannot get FRED observations of %s: %w", id, err)
	}

	s := realvalue.NewSeries(realvalue.CPIIndex, id)
	for _, o := range payload.Observations {
		if o.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FRED value %q of %s on %s: %w", o.Value, id, o.Date, err)
		}
		s.Append(o.Date, v)
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("no FRED observations of %s since %s", id, from)
	}
	log.Printf("FRED %s: %d observations since %s", id, s.Len(), from)
	return s, nil
}

// CPI implements realvalue.CPISource.
//
// The series starts a few months before 'from' so that quarterly indices
// have an observation to seed the first month.
func (c *Client) CPI(ctx context.Context, code, override string, from realvalue.Month) (*realvalue.Series, realvalue.CPIInfo, error) {
	var info SeriesInfo
	var err error
	if override != "" {
		info, err = c.Series(ctx, override)
	} else {
		info, err = c.ResolveCPI(ctx, code)
	}
	if err != nil {
		return nil, realvalue.CPIInfo{}, err
	}
	s, err := c.Observations(ctx, info.ID, from.Add(-realvalue.DefaultMaxGap).First())
	if err != nil {
		return nil, realvalue.CPIInfo{}, err
	}
	return s, realvalue.CPIInfo{ID: info.ID, Title: info.Title}, nil
}
