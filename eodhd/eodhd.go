// Package eodhd retrieves exchange rates from EOD Historical Data.
//
// It is an alternative to Yahoo Finance for the USD leg of a currency, and
// requires an API token.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/etnz/realvalue"
	"github.com/etnz/realvalue/httpcache"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the EODHD API endpoint.
const DefaultBaseURL = "https://eodhd.com/api"

// Client is an EODHD client.
type Client struct {
	apiKey  string
	client  *http.Client
	BaseURL string
}

// New returns a client using apiKey. A nil client uses a daily disk cache.
func New(apiKey string, client *http.Client) *Client {
	if client == nil {
		client = httpcache.NewClient("", httpcache.Daily)
	}
	return &Client{apiKey: apiKey, client: client, BaseURL: DefaultBaseURL}
}

// Ticker returns the forex ticker of the USD rate of code.
func Ticker(code string) string {
	// The Ticker for forex is in the format "fromCurrency+toCurrency.FOREX".
	return fmt.Sprintf("%s%s.FOREX", code, realvalue.Reference)
}

// USDRate implements realvalue.FXSource.
func (c *Client) USDRate(ctx context.Context, code string, from realvalue.Month) (*realvalue.Series, string, error) {
	if code == realvalue.Reference {
		s := realvalue.NewSeries(realvalue.FXRate, code)
		s.Append(from.First(), 1).Append(realvalue.Today(), 1)
		return s, "", nil
	}
	ticker := Ticker(code)
	s, err := c.Forex(ctx, ticker, from.First(), realvalue.Today())
	if err != nil {
		return nil, "", err
	}
	return s, ticker, nil
}

// Forex returns the daily rates of a forex ticker between from and to.
//
// eodhd forex close is probably buggy and equal to the open most of the time.
// Instead the open of the next day is the closer to the truth, so be it.
func (c *Client) Forex(ctx context.Context, ticker string, from, to realvalue.Date) (*realvalue.Series, error) {
	prices, err := c.prices(ctx, ticker, from.Add(1), to.Add(1))
	if err != nil {
		return nil, err
	}
	s := realvalue.NewSeries(realvalue.FXRate, ticker)
	for _, p := range prices {
		if !p.Open.IsPositive() {
			continue
		}
		s.Append(p.Date.Add(-1), p.Open.InexactFloat64())
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("no rate for %s since %s", ticker, from)
	}
	log.Printf("EODHD %s: %d rates since %s", ticker, s.Len(), from)
	return s, nil
}

// price is one day of the eod endpoint.
//
//	{
//		"date": "2024-02-13",
//		"open": 1.2631,
//		"high": 1.2680,
//		"low": 1.2535,
//		"close": 1.2631,
//		"adjusted_close": 1.2631,
//		"volume": 0
//	}
type price struct {
	Date  realvalue.Date  `json:"date"`
	Open  decimal.Decimal `json:"open"`
	Close decimal.Decimal `json:"close"`
}

// prices fetches the daily prices of ticker, bounds are included.
func (c *Client) prices(ctx context.Context, ticker string, from, to realvalue.Date) ([]price, error) {
	if c.apiKey == "" {
		return nil, errors.New("an EODHD API key is required")
	}
	q := url.Values{
		"fmt":       {"json"},
		"api_token": {c.apiKey},
		"from":      {from.String()},
		"to":        {to.String()},
	}
	addr := fmt.Sprintf("%s/eod/%s?%s", c.BaseURL, url.PathEscape(ticker), q.Encode())

	content := make([]price, 0)
	if err := httpcache.GetJSON(ctx, c.client, addr, &content); err != nil {
		return nil, fmt.Errorf("cannot get EODHD prices of %s: %w", ticker, err)
	}
	return content, nil
}
