package instrument

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is an untyped position row as produced by a loader (CSV, DWH
// extract). Keys are snake_case column names, values are raw strings; empty
// values mean "not provided".
type Record map[string]string

const dateLayout = "2006-01-02"

func (r Record) str(key string) string {
	return strings.TrimSpace(r[key])
}

func (r Record) date(key string) (time.Time, error) {
	v := r.str(key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return t, nil
}

func (r Record) dateptr(key string) (*time.Time, error) {
	t, err := r.date(key)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

func (r Record) dec(key string) (decimal.Decimal, error) {
	v := r.str(key)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func (r Record) decptr(key string) (*decimal.Decimal, error) {
	v := r.str(key)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	return &d, nil
}

func (r Record) boolean(key string) bool {
	switch strings.ToLower(r.str(key)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

func (r Record) integer(key string) (int, error) {
	v := r.str(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

// FromRecord dispatches on the instrument_type discriminator and constructs
// the matching validated variant. Parse failures and invariant violations are
// returned as-is; an unrecognized discriminator yields
// *UnknownInstrumentTypeError so the loader can decide whether to skip the
// row or abort the batch.
func FromRecord(r Record) (Instrument, error) {
	switch InstrumentType(r.str("instrument_type")) {
	case LoanCorporate:
		return corporateLoanFromRecord(r)
	case LoanRetail:
		return retailLoanFromRecord(r)
	case DepositCorporate:
		return corporateDepositFromRecord(r)
	case DepositRetail:
		return retailDepositFromRecord(r)
	default:
		return nil, &UnknownInstrumentTypeError{Type: r.str("instrument_type")}
	}
}

// contractFromRecord decodes the fields shared by every variant.
func contractFromRecord(r Record) (contract, error) {
	var c contract
	var err error

	if c.AsOfDate, err = r.date("as_of_date"); err != nil {
		return c, err
	}
	if c.StartDate, err = r.date("start_date"); err != nil {
		return c, err
	}
	if c.MaturityDate, err = r.dateptr("maturity_date"); err != nil {
		return c, err
	}
	if c.RepricingDate, err = r.dateptr("repricing_date"); err != nil {
		return c, err
	}
	if c.Amount, err = r.dec("amount"); err != nil {
		return c, err
	}
	if c.Rate, err = r.dec("rate"); err != nil {
		return c, err
	}
	if c.Currency, err = ParseCurrency(r.str("currency")); err != nil {
		return c, err
	}
	if c.RateType, err = ParseRateType(r.str("rate_type")); err != nil {
		return c, err
	}
	if c.RepricingFrequency, err = ParseRepricingFrequency(r.str("repricing_frequency")); err != nil {
		return c, err
	}

	c.PositionID = r.str("position_id")
	c.BalanceAccount = r.str("balance_account")
	c.DayCount = DayCount(r.str("day_count"))
	return c, nil
}

func loanBaseFromRecord(r Record) (LoanBase, error) {
	var l LoanBase
	var err error

	if l.contract, err = contractFromRecord(r); err != nil {
		return l, err
	}
	if l.AssetQuality, err = ParseAssetQuality(r.str("asset_quality")); err != nil {
		return l, err
	}
	if l.ProvisionAmount, err = r.dec("provision_amount"); err != nil {
		return l, err
	}
	if l.CollateralValue, err = r.decptr("collateral_value"); err != nil {
		return l, err
	}
	if l.EarlyRepaymentPenalty, err = r.decptr("early_repayment_penalty"); err != nil {
		return l, err
	}
	l.AllowsEarlyRepayment = r.boolean("allows_early_repayment")
	return l, nil
}

func corporateLoanFromRecord(r Record) (Instrument, error) {
	base, err := loanBaseFromRecord(r)
	if err != nil {
		return nil, err
	}
	limit, err := r.decptr("credit_limit")
	if err != nil {
		return nil, err
	}
	return NewCorporateLoan(CorporateLoan{
		LoanBase:       base,
		IndustrySector: r.str("industry_sector"),
		BorrowerRating: r.str("borrower_rating"),
		IsSyndicated:   r.boolean("is_syndicated"),
		IsRevolving:    r.boolean("is_revolving"),
		CreditLimit:    limit,
	})
}

func retailLoanFromRecord(r Record) (Instrument, error) {
	base, err := loanBaseFromRecord(r)
	if err != nil {
		return nil, err
	}
	ltv, err := r.decptr("loan_to_value")
	if err != nil {
		return nil, err
	}
	income, err := r.decptr("borrower_income")
	if err != nil {
		return nil, err
	}
	age, err := r.integer("borrower_age")
	if err != nil {
		return nil, err
	}
	return NewRetailLoan(RetailLoan{
		LoanBase:       base,
		ProductType:    r.str("product_type"),
		IsMortgage:     r.boolean("is_mortgage"),
		LoanToValue:    ltv,
		BorrowerAge:    age,
		BorrowerIncome: income,
		IsAmortizing:   r.boolean("is_amortizing"),
	})
}

func depositBaseFromRecord(r Record) (DepositBase, error) {
	var d DepositBase
	var err error

	if d.contract, err = contractFromRecord(r); err != nil {
		return d, err
	}
	if d.EarlyWithdrawalPenalty, err = r.decptr("early_withdrawal_penalty"); err != nil {
		return d, err
	}
	d.IsDemandDeposit = r.boolean("is_demand_deposit")
	d.AllowsEarlyWithdrawal = r.boolean("allows_early_withdrawal")
	d.InterestCapitalization = r.boolean("interest_capitalization")
	return d, nil
}

func corporateDepositFromRecord(r Record) (Instrument, error) {
	base, err := depositBaseFromRecord(r)
	if err != nil {
		return nil, err
	}
	avg30, err := r.decptr("average_balance_30d")
	if err != nil {
		return nil, err
	}
	avg90, err := r.decptr("average_balance_90d")
	if err != nil {
		return nil, err
	}
	return NewCorporateDeposit(CorporateDeposit{
		DepositBase:       base,
		IsOperational:     r.boolean("is_operational"),
		IndustrySector:    r.str("industry_sector"),
		DepositorRating:   r.str("depositor_rating"),
		AverageBalance30d: avg30,
		AverageBalance90d: avg90,
	})
}

func retailDepositFromRecord(r Record) (Instrument, error) {
	base, err := depositBaseFromRecord(r)
	if err != nil {
		return nil, err
	}
	insured, err := r.decptr("insured_amount")
	if err != nil {
		return nil, err
	}
	age, err := r.integer("depositor_age")
	if err != nil {
		return nil, err
	}
	d := RetailDeposit{
		DepositBase:      base,
		ProductType:      r.str("product_type"),
		IsInsured:        true,
		InsuredAmount:    insured,
		DepositorAge:     age,
		DepositorSegment: r.str("depositor_segment"),
	}
	if v := r.str("is_insured"); v != "" {
		d.IsInsured = r.boolean("is_insured")
	}
	return NewRetailDeposit(d)
}
