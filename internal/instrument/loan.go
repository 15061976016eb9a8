package instrument

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoanBase carries the credit attributes common to corporate and retail
// loans. Loans are assets: their cash flows are inflows with positive sign.
type LoanBase struct {
	contract

	AssetQuality          AssetQuality     `json:"asset_quality"`
	ProvisionAmount       decimal.Decimal  `json:"provision_amount"`
	CollateralValue       *decimal.Decimal `json:"collateral_value,omitempty"`
	AllowsEarlyRepayment  bool             `json:"allows_early_repayment"`
	EarlyRepaymentPenalty *decimal.Decimal `json:"early_repayment_penalty,omitempty"`
}

func (l LoanBase) Classify() Classification { return ClassAsset }

// NetExposure is the balance amount net of loss provisions.
func (l LoanBase) NetExposure() decimal.Decimal {
	return l.Amount.Sub(l.ProvisionAmount)
}

// CashFlows projects a bullet repayment at maturity. Amortizing retail loans
// override this with a periodic schedule.
func (l LoanBase) CashFlows() []CashFlow {
	return l.bulletFlows(decimal.NewFromInt(1))
}

func (l LoanBase) validateLoan() error {
	if err := l.validate(); err != nil {
		return err
	}
	if l.ProvisionAmount.Sign() < 0 {
		return validationErr("provision_amount", "cannot be negative")
	}
	if l.ProvisionAmount.Cmp(l.Amount) > 0 {
		return validationErr("provision_amount", "cannot exceed amount")
	}
	return nil
}

// CorporateLoan is a loan to a legal entity.
type CorporateLoan struct {
	LoanBase

	IndustrySector string           `json:"industry_sector,omitempty"`
	BorrowerRating string           `json:"borrower_rating,omitempty"`
	IsSyndicated   bool             `json:"is_syndicated"`
	IsRevolving    bool             `json:"is_revolving"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
}

// NewCorporateLoan validates and returns the loan. The returned value is
// immutable by convention: nothing in this module mutates instruments after
// construction.
func NewCorporateLoan(l CorporateLoan) (*CorporateLoan, error) {
	l.InstrumentType = LoanCorporate
	if l.AssetQuality == "" {
		l.AssetQuality = QualityStandard
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l CorporateLoan) Validate() error {
	if err := l.validateLoan(); err != nil {
		return err
	}
	if l.IsRevolving && l.CreditLimit == nil {
		return validationErr("credit_limit", "required for revolving loan")
	}
	return nil
}

// retailLoanProducts is the product whitelist for retail lending.
var retailLoanProducts = map[string]bool{
	"mortgage":    true,
	"consumer":    true,
	"auto":        true,
	"credit_card": true,
	"other":       true,
}

// RetailLoan is a loan to an individual.
type RetailLoan struct {
	LoanBase

	ProductType    string           `json:"product_type"`
	IsMortgage     bool             `json:"is_mortgage"`
	LoanToValue    *decimal.Decimal `json:"loan_to_value,omitempty"`
	BorrowerAge    int              `json:"borrower_age,omitempty"`
	BorrowerIncome *decimal.Decimal `json:"borrower_income,omitempty"`
	IsAmortizing   bool             `json:"is_amortizing"`
}

// NewRetailLoan validates and returns the loan. The product type is
// normalized to lowercase before the whitelist check.
func NewRetailLoan(l RetailLoan) (*RetailLoan, error) {
	l.InstrumentType = LoanRetail
	l.ProductType = strings.ToLower(strings.TrimSpace(l.ProductType))
	if l.AssetQuality == "" {
		l.AssetQuality = QualityStandard
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l RetailLoan) Validate() error {
	if err := l.validateLoan(); err != nil {
		return err
	}
	if !retailLoanProducts[l.ProductType] {
		return validationErr("product_type", "%q is not a retail loan product", l.ProductType)
	}
	if l.IsMortgage && l.ProductType != "mortgage" {
		return validationErr("is_mortgage", "requires product_type=mortgage")
	}
	return nil
}

// CashFlows projects either a bullet repayment or, for amortizing loans, a
// monthly schedule with declining outstanding principal.
func (l RetailLoan) CashFlows() []CashFlow {
	if !l.IsAmortizing || l.MaturityDate == nil {
		return l.LoanBase.CashFlows()
	}
	return l.amortizingFlows()
}

// amortizingFlows builds the remaining straight-line amortization schedule:
// equal monthly principal with interest accrued on the declining outstanding
// balance. The final entry absorbs the division residual so that the
// principal column always sums to the balance amount exactly.
func (l RetailLoan) amortizingFlows() []CashFlow {
	dates := l.scheduleDates()
	if len(dates) == 0 {
		return l.LoanBase.CashFlows()
	}

	perPeriod := l.Amount.DivRound(decimal.NewFromInt(int64(len(dates))), 2)
	monthlyRate := decimal.Zero
	if l.RateType != RateZero {
		monthlyRate = l.Rate.Div(decimal.NewFromInt(12))
	}

	flows := make([]CashFlow, 0, len(dates))
	outstanding := l.Amount
	for i, d := range dates {
		principal := perPeriod
		if i == len(dates)-1 {
			principal = outstanding
		}
		interest := outstanding.Mul(monthlyRate).Round(2)
		flows = append(flows, CashFlow{
			Date:      d,
			Principal: principal,
			Interest:  interest,
			Total:     principal.Add(interest),
		})
		outstanding = outstanding.Sub(principal)
	}
	return flows
}

// scheduleDates walks monthly payment dates anchored on the start date,
// keeping those after the as-of date up to and including maturity. Month-end
// anchors can drift under AddDate; the maturity cap keeps the final payment
// on the contractual date regardless.
func (l RetailLoan) scheduleDates() []time.Time {
	var dates []time.Time
	d := l.StartDate
	for d.Before(*l.MaturityDate) {
		d = d.AddDate(0, 1, 0)
		if d.After(*l.MaturityDate) {
			d = *l.MaturityDate
		}
		if d.After(l.AsOfDate) {
			dates = append(dates, d)
		}
		if d.Equal(*l.MaturityDate) {
			break
		}
	}
	return dates
}
