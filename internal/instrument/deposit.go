package instrument

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DepositBase carries the funding attributes common to corporate and retail
// deposits. Deposits are liabilities: their cash flows are outflows with
// negative sign.
type DepositBase struct {
	contract

	IsDemandDeposit        bool             `json:"is_demand_deposit"`
	AllowsEarlyWithdrawal  bool             `json:"allows_early_withdrawal"`
	EarlyWithdrawalPenalty *decimal.Decimal `json:"early_withdrawal_penalty,omitempty"`
	InterestCapitalization bool             `json:"interest_capitalization"`
}

func (d DepositBase) Classify() Classification { return ClassLiability }

// CashFlows projects the repayment of a term deposit at maturity. Demand
// deposits have no contractual maturity and therefore no contractual flows;
// behavioral runoff modeling is out of scope here and happens downstream.
func (d DepositBase) CashFlows() []CashFlow {
	return d.bulletFlows(decimal.NewFromInt(-1))
}

func (d DepositBase) validateDeposit() error {
	if err := d.validate(); err != nil {
		return err
	}
	if d.IsDemandDeposit && d.MaturityDate != nil {
		return validationErr("is_demand_deposit", "demand deposit cannot have a maturity_date")
	}
	return nil
}

// CorporateDeposit is a deposit placed by a legal entity.
type CorporateDeposit struct {
	DepositBase

	IsOperational     bool             `json:"is_operational"`
	IndustrySector    string           `json:"industry_sector,omitempty"`
	DepositorRating   string           `json:"depositor_rating,omitempty"`
	AverageBalance30d *decimal.Decimal `json:"average_balance_30d,omitempty"`
	AverageBalance90d *decimal.Decimal `json:"average_balance_90d,omitempty"`
}

// NewCorporateDeposit validates and returns the deposit.
func NewCorporateDeposit(d CorporateDeposit) (*CorporateDeposit, error) {
	d.InstrumentType = DepositCorporate
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d CorporateDeposit) Validate() error {
	return d.validateDeposit()
}

// retailDepositProducts is the product whitelist for retail funding.
var retailDepositProducts = map[string]bool{
	"savings":         true,
	"time_deposit":    true,
	"current_account": true,
	"other":           true,
}

// maxInsuredAmount is the deposit insurance cap (1.4M RUB, the DIA limit).
var maxInsuredAmount = decimal.NewFromInt(1_400_000)

// RetailDeposit is a deposit placed by an individual.
type RetailDeposit struct {
	DepositBase

	ProductType      string           `json:"product_type"`
	IsInsured        bool             `json:"is_insured"`
	InsuredAmount    *decimal.Decimal `json:"insured_amount,omitempty"`
	DepositorAge     int              `json:"depositor_age,omitempty"`
	DepositorSegment string           `json:"depositor_segment,omitempty"`
}

// NewRetailDeposit validates and returns the deposit. The product type is
// normalized to lowercase before the whitelist check. For insured deposits
// without an explicit insured amount, the amount is capped at the statutory
// insurance limit.
func NewRetailDeposit(d RetailDeposit) (*RetailDeposit, error) {
	d.InstrumentType = DepositRetail
	d.ProductType = strings.ToLower(strings.TrimSpace(d.ProductType))
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.IsInsured && d.InsuredAmount == nil {
		insured := decimal.Min(d.Amount, maxInsuredAmount)
		d.InsuredAmount = &insured
	}
	return &d, nil
}

func (d RetailDeposit) Validate() error {
	if err := d.validateDeposit(); err != nil {
		return err
	}
	if !retailDepositProducts[d.ProductType] {
		return validationErr("product_type", "%q is not a retail deposit product", d.ProductType)
	}
	return nil
}
