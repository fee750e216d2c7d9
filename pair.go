package realvalue

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
)

// Reference is the currency every purchasing power is expressed in.
const Reference = "USD"

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks that code is a known ISO 4217 code.
func ValidateCurrency(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid currency %q: must be 3 uppercase letters", code)
	}
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency %q", code)
	}
	return nil
}

// Pair is a currency pair A-B, the baseline amount is expressed in A.
type Pair struct {
	Base  string // A
	Quote string // B
}

// NewPair creates a new Pair from a base and quote currency code after validation.
func NewPair(base, quote string) (Pair, error) {
	if err := ValidateCurrency(base); err != nil {
		return Pair{}, fmt.Errorf("invalid base currency: %w", err)
	}
	if err := ValidateCurrency(quote); err != nil {
		return Pair{}, fmt.Errorf("invalid quote currency: %w", err)
	}
	if base == quote {
		return Pair{}, fmt.Errorf("invalid pair %s-%s: same currency on both sides", base, quote)
	}
	return Pair{base, quote}, nil
}

// ParsePair parses "CUR1-CUR2", it is case insensitive.
func ParsePair(s string) (Pair, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(s))
	base, quote, ok := strings.Cut(cleaned, "-")
	if !ok {
		return Pair{}, fmt.Errorf("invalid pair %q: want format CUR1-CUR2", s)
	}
	return NewPair(base, quote)
}

// ParsePairs parses a list of pairs, blank entries are skipped.
func ParsePairs(raw []string) ([]Pair, error) {
	var pairs []Pair
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		p, err := ParsePair(s)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("at least one currency pair is required")
	}
	return pairs, nil
}

// String formats the pair as "A-B".
func (p Pair) String() string { return p.Base + "-" + p.Quote }

// Currencies returns the unique currency codes of pairs in first-seen order.
func Currencies(pairs []Pair) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, p := range pairs {
		for _, code := range []string{p.Base, p.Quote} {
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}
	return codes
}

// Overrides maps a currency code to the CPI series identifier to use for it.
type Overrides map[string]string

// ParseOverrides parses "CODE=SERIES_ID" items.
func ParseOverrides(raw []string) (Overrides, error) {
	overrides := make(Overrides)
	for _, item := range raw {
		code, id, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("invalid override %q: want format CODE=SERIES_ID", item)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		id = strings.TrimSpace(id)
		if err := ValidateCurrency(code); err != nil {
			return nil, fmt.Errorf("invalid override %q: %w", item, err)
		}
		if id == "" {
			return nil, fmt.Errorf("invalid override %q: empty series id", item)
		}
		overrides[code] = id
	}
	return overrides, nil
}
