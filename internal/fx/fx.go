// Package fx converts monetary amounts into the analysis base currency.
//
// The converter is a pure lookup-and-multiply capability: rate sourcing,
// caching and retries belong to the injected RateSource. A missing rate is a
// hard error — falling back to a nearby date would silently stale the
// liquidity figures, which is worse than failing the run.
package fx

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"almcli/internal/instrument"
)

// RateSource resolves the exchange rate from a currency into the base
// currency as of a given date.
type RateSource interface {
	Lookup(ccy instrument.Currency, asOf time.Time) (decimal.Decimal, error)
}

// MissingRateError reports that no rate could be resolved for a
// currency/date pair. There is deliberately no nearest-date fallback.
type MissingRateError struct {
	Currency instrument.Currency
	Date     time.Time
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no FX rate for %s as of %s", e.Currency, e.Date.Format("2006-01-02"))
}

// Converter converts amounts into a single base currency.
type Converter struct {
	base   instrument.Currency
	source RateSource
}

// NewConverter returns a converter targeting the given base currency.
func NewConverter(base instrument.Currency, source RateSource) *Converter {
	return &Converter{base: base, source: source}
}

// Base returns the target currency of all conversions.
func (c *Converter) Base() instrument.Currency { return c.base }

// Convert returns the amount expressed in the base currency as of the given
// date. Conversion into the same currency is the identity and never touches
// the rate source.
func (c *Converter) Convert(amount decimal.Decimal, from instrument.Currency, asOf time.Time) (decimal.Decimal, error) {
	if from == c.base {
		return amount, nil
	}
	rate, err := c.source.Lookup(from, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// rateKey identifies one quoted rate.
type rateKey struct {
	ccy  instrument.Currency
	date string
}

// StaticRates is an in-memory RateSource backed by a fixed table of quotes,
// keyed by currency and quote date. It is what the CSV rate loader produces
// and what tests inject.
type StaticRates struct {
	rates map[rateKey]decimal.Decimal
}

// NewStaticRates returns an empty rate table.
func NewStaticRates() *StaticRates {
	return &StaticRates{rates: make(map[rateKey]decimal.Decimal)}
}

// Set stores the rate from ccy into the base currency for the given date.
func (s *StaticRates) Set(ccy instrument.Currency, date time.Time, rate decimal.Decimal) {
	s.rates[rateKey{ccy: ccy, date: date.Format("2006-01-02")}] = rate
}

// Lookup implements RateSource.
func (s *StaticRates) Lookup(ccy instrument.Currency, asOf time.Time) (decimal.Decimal, error) {
	rate, ok := s.rates[rateKey{ccy: ccy, date: asOf.Format("2006-01-02")}]
	if !ok {
		return decimal.Zero, &MissingRateError{Currency: ccy, Date: asOf}
	}
	return rate, nil
}
