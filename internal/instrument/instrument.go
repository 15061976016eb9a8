package instrument

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position carries the identity and exposure every balance-sheet record has,
// regardless of variant. Amount is always a positive exposure in the
// position's own currency; the asset/liability sign convention applies to
// projected cash flows, not to the stored amount.
type Position struct {
	PositionID     string          `json:"position_id"`
	AsOfDate       time.Time       `json:"as_of_date"`
	InstrumentType InstrumentType  `json:"instrument_type"`
	BalanceAccount string          `json:"balance_account"`
	Currency       Currency        `json:"currency"`
	Amount         decimal.Decimal `json:"amount"`
}

// Base returns the position core. It exists so that the Instrument interface
// can expose the shared fields without per-variant accessors.
func (p Position) Base() Position { return p }

// Terms holds the dated and rate terms of an interest-bearing instrument.
// A nil MaturityDate means the instrument is perpetual (no contractual
// maturity); that is deliberately distinct from a zero time, which would be
// indistinguishable from missing data.
type Terms struct {
	StartDate          time.Time          `json:"start_date"`
	MaturityDate       *time.Time         `json:"maturity_date,omitempty"`
	Rate               decimal.Decimal    `json:"rate"`
	RateType           RateType           `json:"rate_type"`
	RepricingDate      *time.Time         `json:"repricing_date,omitempty"`
	RepricingFrequency RepricingFrequency `json:"repricing_frequency,omitempty"`
	DayCount           DayCount           `json:"day_count,omitempty"`
}

// Instrument is the capability set shared by all balance-sheet variants. The
// set of implementations is closed: CorporateLoan, RetailLoan,
// CorporateDeposit and RetailDeposit.
type Instrument interface {
	// Base returns the shared position core (id, as-of, currency, amount).
	Base() Position
	// Classify reports which side of the balance sheet the instrument is on.
	Classify() Classification
	// EffectiveMaturity returns the contractual maturity date, or nil for
	// perpetual instruments. Callers must treat nil as "no contractual
	// maturity", not as missing data.
	EffectiveMaturity() *time.Time
	// CashFlows projects the contractual payment schedule as of the position
	// date. Perpetual instruments return an empty slice; a behavioral engine
	// is the only producer of synthetic flows for those.
	CashFlows() []CashFlow
	// TimeToMaturityYears returns the year fraction from the as-of date to
	// the effective maturity, or a DomainError for perpetual instruments.
	TimeToMaturityYears() (decimal.Decimal, error)
	// TimeToRepricingYears returns the year fraction from the as-of date to
	// the next repricing date, or a DomainError when none is set.
	TimeToRepricingYears() (decimal.Decimal, error)
}

// contract bundles Position and Terms with the queries common to every
// variant. Loan and deposit bases embed it.
type contract struct {
	Position
	Terms
}

func (c contract) EffectiveMaturity() *time.Time { return c.MaturityDate }

func (c contract) TimeToMaturityYears() (decimal.Decimal, error) {
	if c.MaturityDate == nil {
		return decimal.Zero, &DomainError{
			PositionID: c.PositionID,
			Query:      "time to maturity",
			Reason:     "no contractual maturity",
		}
	}
	return c.DayCount.YearFraction(c.AsOfDate, *c.MaturityDate), nil
}

func (c contract) TimeToRepricingYears() (decimal.Decimal, error) {
	if c.RepricingDate == nil {
		return decimal.Zero, &DomainError{
			PositionID: c.PositionID,
			Query:      "time to repricing",
			Reason:     "no repricing date",
		}
	}
	return c.DayCount.YearFraction(c.AsOfDate, *c.RepricingDate), nil
}

// bulletFlows builds the single payment of a non-amortizing instrument:
// full principal at maturity plus simple interest accrued over the remaining
// term. sign is +1 for assets and -1 for liabilities. Perpetual instruments
// yield no contractual flows.
func (c contract) bulletFlows(sign decimal.Decimal) []CashFlow {
	if c.MaturityDate == nil {
		return nil
	}

	interest := decimal.Zero
	if !c.Rate.IsZero() && c.RateType != RateZero {
		ttm := c.DayCount.YearFraction(c.AsOfDate, *c.MaturityDate)
		if ttm.Sign() > 0 {
			interest = c.Amount.Mul(c.Rate).Mul(ttm)
		}
	}

	principal := c.Amount.Mul(sign)
	interest = interest.Mul(sign)
	return []CashFlow{{
		Date:      *c.MaturityDate,
		Principal: principal,
		Interest:  interest,
		Total:     principal.Add(interest),
	}}
}

// validate enforces the invariants shared by all variants. Variant-specific
// rules are layered on top by the concrete Validate methods.
func (c contract) validate() error {
	if c.PositionID == "" {
		return validationErr("position_id", "cannot be empty")
	}
	if c.AsOfDate.IsZero() {
		return validationErr("as_of_date", "is required")
	}
	if c.Amount.IsZero() {
		return validationErr("amount", "cannot be zero")
	}
	if c.StartDate.IsZero() {
		return validationErr("start_date", "is required")
	}
	if c.StartDate.After(c.AsOfDate) {
		return validationErr("start_date", "%s cannot be after as_of_date %s",
			c.StartDate.Format("2006-01-02"), c.AsOfDate.Format("2006-01-02"))
	}
	if c.MaturityDate != nil && !c.MaturityDate.After(c.StartDate) {
		return validationErr("maturity_date", "%s must be after start_date %s",
			c.MaturityDate.Format("2006-01-02"), c.StartDate.Format("2006-01-02"))
	}
	if c.RepricingDate != nil && c.RepricingDate.Before(c.AsOfDate) {
		return validationErr("repricing_date", "%s cannot be before as_of_date %s",
			c.RepricingDate.Format("2006-01-02"), c.AsOfDate.Format("2006-01-02"))
	}
	if c.RateType == RateFloating {
		if c.RepricingFrequency == "" {
			return validationErr("repricing_frequency", "required for floating rate")
		}
		if c.RepricingDate == nil {
			return validationErr("repricing_date", "required for floating rate")
		}
	}
	return nil
}
