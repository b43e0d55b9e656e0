package billing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assemned1000/teamgestion-sub000/billing"
)

func defaultTable(t *testing.T) *billing.Table {
	t.Helper()
	table, err := billing.NewTable(billing.DefaultRates())
	require.NoError(t, err)
	return table
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// =============================================================================
// CONVERSION
// =============================================================================

func TestConvert_EurToUsd_ViaPivot(t *testing.T) {
	// 100 EUR -> 14000 DZD -> 14000/133 USD
	table := defaultTable(t)

	got := table.Convert(decimal.NewFromInt(100), "eur", "usd")

	assert.InDelta(t, 14000.0/133.0, toFloat(got), 1e-9)
}

func TestConvert_Identity(t *testing.T) {
	table := defaultTable(t)
	amount := decimal.NewFromFloat(123.45)

	for _, code := range []string{"eur", "usd", "aed", "dzd"} {
		got := table.Convert(amount, code, code)
		assert.True(t, got.Equal(amount), "identity conversion changed %s amount", code)
	}

	// Legacy alias and case-insensitivity count as the same currency.
	assert.True(t, table.Convert(amount, "EURO", "eur").Equal(amount))
	assert.True(t, table.Convert(amount, "Usd", "USD").Equal(amount))
}

func TestConvert_PivotConsistency(t *testing.T) {
	table := defaultTable(t)
	rates := billing.DefaultRates()
	amount := decimal.NewFromInt(50)

	cases := []struct {
		code string
		rate decimal.Decimal
	}{
		{"eur", rates.EURDZD},
		{"usd", rates.USDDZD},
		{"aed", rates.AEDDZD},
	}

	for _, c := range cases {
		toDZD := table.Convert(amount, c.code, "dzd")
		assert.True(t, toDZD.Equal(amount.Mul(c.rate)),
			"%s->dzd = %s, want %s", c.code, toDZD, amount.Mul(c.rate))

		fromDZD := table.Convert(amount, "dzd", c.code)
		assert.InDelta(t, toFloat(amount.Div(c.rate)), toFloat(fromDZD), 1e-9)
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	table := defaultTable(t)
	codes := []string{"eur", "usd", "aed", "dzd"}
	amount := decimal.NewFromFloat(987.654321)

	for _, from := range codes {
		for _, to := range codes {
			there := table.Convert(amount, from, to)
			back := table.Convert(there, to, from)
			assert.InDelta(t, toFloat(amount), toFloat(back), 1e-9,
				"round trip %s->%s->%s drifted", from, to, from)
		}
	}
}

func TestConvert_UnknownCode_FallsBackToEUR(t *testing.T) {
	// Long-standing behavior: unrecognized codes are valued as EUR.
	table := defaultTable(t)

	got := table.Convert(decimal.NewFromInt(100), "gbp", "dzd")
	assert.True(t, got.Equal(decimal.NewFromInt(14000)), "gbp treated as eur, got %s", got)
}

func TestConvertMoney(t *testing.T) {
	table := defaultTable(t)

	got := table.ConvertMoney(billing.NewMoney(10, billing.EUR), billing.DZD)

	assert.Equal(t, billing.DZD, got.Currency)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(1400)))
}

// =============================================================================
// PARSING AND VALIDATION
// =============================================================================

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want billing.Currency
		ok   bool
	}{
		{"eur", billing.EUR, true},
		{"EUR", billing.EUR, true},
		{"euro", billing.EUR, true},
		{" Euro ", billing.EUR, true},
		{"usd", billing.USD, true},
		{"aed", billing.AED, true},
		{"dzd", billing.DZD, true},
		{"gbp", billing.EUR, false}, // fallback, reported
		{"", billing.EUR, false},
	}

	for _, c := range cases {
		got, ok := billing.ParseCurrency(c.in)
		assert.Equal(t, c.want, got, "ParseCurrency(%q)", c.in)
		assert.Equal(t, c.ok, ok, "ParseCurrency(%q) recognition", c.in)
	}
}

func TestParseCurrencyStrict_RejectsUnknown(t *testing.T) {
	_, err := billing.ParseCurrencyStrict("gbp")

	require.Error(t, err)
	assert.True(t, errors.Is(err, billing.ErrUnknownCurrency))
	assert.True(t, billing.IsClientError(err))
}

func TestRateSet_Validate(t *testing.T) {
	require.NoError(t, billing.DefaultRates().Validate())

	bad := billing.DefaultRates()
	bad.USDDZD = decimal.Zero
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, billing.ErrInvalidRate))

	var detail *billing.InvalidRateError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "usd_dzd", detail.Pair)
}

func TestNewTable_RejectsInvalidRates(t *testing.T) {
	bad := billing.DefaultRates()
	bad.AEDDZD = decimal.NewFromInt(-1)

	_, err := billing.NewTable(bad)

	require.Error(t, err)
	assert.True(t, errors.Is(err, billing.ErrInvalidRate))
}
