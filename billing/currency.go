/*
currency.go - Multi-currency conversion through the DZD pivot

PURPOSE:
  Converts monetary amounts between the four supported currencies.
  Every cross-currency conversion routes through DZD: first the source
  amount is valued in DZD, then the DZD value is expressed in the
  target currency. This is the single arithmetic path used to display
  and aggregate revenue and cost figures.

RATES:
  A RateSet holds "1 unit of X = N DZD" for EUR, USD and AED. Rates
  come from configuration (or the live feed) and are validated once at
  table construction; conversion itself never fails.

LEGACY BEHAVIOR:
  - "euro" is accepted as an alias for "eur" (old records carry it)
  - unknown codes are valued as EUR; ParseCurrency reports the
    fallback so callers can log it

SEE ALSO:
  - errors.go: InvalidRateError, UnknownCurrencyError
  - revenue package: the aggregation layer consuming this table
*/
package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CURRENCY CODES
// =============================================================================

type Currency string

const (
	EUR Currency = "eur"
	USD Currency = "usd"
	AED Currency = "aed"
	DZD Currency = "dzd" // local currency, conversion pivot
)

// ParseCurrency normalizes a currency code. Codes are case-insensitive
// and the legacy alias "euro" maps to EUR. Unknown codes fall back to
// EUR with ok=false; the silent-default is long-standing behavior the
// screens rely on, so it is reported rather than rejected.
func ParseCurrency(code string) (Currency, bool) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "eur", "euro":
		return EUR, true
	case "usd":
		return USD, true
	case "aed":
		return AED, true
	case "dzd":
		return DZD, true
	default:
		return EUR, false
	}
}

// ParseCurrencyStrict rejects unknown codes instead of defaulting.
// Storage and API layers use this so bad codes never reach the table.
func ParseCurrencyStrict(code string) (Currency, error) {
	c, ok := ParseCurrency(code)
	if !ok {
		return "", &UnknownCurrencyError{Code: code}
	}
	return c, nil
}

// =============================================================================
// RATE SET
// =============================================================================

// RateSet holds the pairwise rates to the pivot: 1 unit of the foreign
// currency equals Rate units of DZD.
type RateSet struct {
	EURDZD decimal.Decimal
	USDDZD decimal.Decimal
	AEDDZD decimal.Decimal
}

// DefaultRates returns the compiled-in fallback rates, used whenever
// live rates are unavailable.
func DefaultRates() RateSet {
	return RateSet{
		EURDZD: decimal.NewFromInt(140),
		USDDZD: decimal.NewFromInt(133),
		AEDDZD: decimal.NewFromInt(36),
	}
}

// Validate rejects zero or negative rates. Dividing by such a rate
// would silently produce garbage, so the check runs before any table
// is built from external input.
func (r RateSet) Validate() error {
	for _, p := range []struct {
		pair string
		rate decimal.Decimal
	}{
		{"eur_dzd", r.EURDZD},
		{"usd_dzd", r.USDDZD},
		{"aed_dzd", r.AEDDZD},
	} {
		if !p.rate.IsPositive() {
			return &InvalidRateError{Pair: p.pair, Rate: p.rate}
		}
	}
	return nil
}

// toDZD returns how many DZD one unit of the currency is worth.
func (r RateSet) toDZD(c Currency) decimal.Decimal {
	switch c {
	case USD:
		return r.USDDZD
	case AED:
		return r.AEDDZD
	default:
		return r.EURDZD
	}
}

// =============================================================================
// CONVERSION TABLE
// =============================================================================

// Table converts amounts between supported currencies using a
// validated rate set. It is stateless and safe for concurrent use.
type Table struct {
	rates RateSet
}

// NewTable validates the rate set and builds a conversion table.
func NewTable(rates RateSet) (*Table, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Table{rates: rates}, nil
}

// Rates returns the rate set backing the table.
func (t *Table) Rates() RateSet { return t.rates }

// Convert values an amount in another currency via the DZD pivot.
// Same-currency conversions (including the "euro"/"eur" alias) return
// the amount untouched, so round trips are exact for the identity and
// within decimal division precision otherwise.
func (t *Table) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	src, _ := ParseCurrency(from)
	dst, _ := ParseCurrency(to)
	if src == dst {
		return amount
	}

	pivot := amount
	if src != DZD {
		pivot = amount.Mul(t.rates.toDZD(src))
	}
	if dst == DZD {
		return pivot
	}
	return pivot.Div(t.rates.toDZD(dst))
}

// ConvertMoney converts a Money value into the target currency.
func (t *Table) ConvertMoney(m Money, to Currency) Money {
	return Money{
		Value:    t.Convert(m.Value, string(m.Currency), string(to)),
		Currency: to,
	}
}
