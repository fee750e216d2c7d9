package realvalue

import "context"

// CPIInfo tells which CPI series was used for a currency.
type CPIInfo struct {
	ID    string // provider series identifier, as shown in the sources
	Title string
}

// CPISource retrieves consumer price index series.
type CPISource interface {
	// CPI returns the CPI series of the currency's country from month 'from'.
	// When override is not empty it is the series identifier to use,
	// otherwise the source resolves a default one.
	CPI(ctx context.Context, code, override string, from Month) (*Series, CPIInfo, error)
}

// FXSource retrieves exchange rates.
type FXSource interface {
	// USDRate returns the USD price of one unit of code from month 'from',
	// and the ticker actually used. USD itself has no ticker.
	USDRate(ctx context.Context, code string, from Month) (*Series, string, error)
}
