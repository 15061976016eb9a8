package instrument

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Currency identifies the denomination of a position.
type Currency string

const (
	RUB Currency = "RUB"
	USD Currency = "USD"
	EUR Currency = "EUR"
	CNY Currency = "CNY"
	GBP Currency = "GBP"
)

// ParseCurrency converts a currency code into a Currency.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case RUB, USD, EUR, CNY, GBP:
		return Currency(s), nil
	default:
		return "", fmt.Errorf("unknown currency: %q", s)
	}
}

// InstrumentType discriminates the concrete instrument variant. It doubles as
// the dispatch key for factory construction from loader records.
type InstrumentType string

const (
	LoanCorporate    InstrumentType = "loan_corporate"
	LoanRetail       InstrumentType = "loan_retail"
	DepositCorporate InstrumentType = "deposit_corporate"
	DepositRetail    InstrumentType = "deposit_retail"
)

func (t InstrumentType) String() string { return string(t) }

// Classification splits the balance sheet into asset and liability sides.
// It is a static property of the instrument variant: every loan is an asset,
// every deposit is a liability.
type Classification string

const (
	ClassAsset     Classification = "Asset"
	ClassLiability Classification = "Liability"
)

func (c Classification) String() string { return string(c) }

// RateType describes how interest accrues on an instrument.
type RateType string

const (
	RateFixed    RateType = "fixed"
	RateFloating RateType = "floating"
	RateZero     RateType = "zero"
)

// ParseRateType converts a rate type code into a RateType.
func ParseRateType(s string) (RateType, error) {
	switch RateType(s) {
	case RateFixed, RateFloating, RateZero:
		return RateType(s), nil
	case "":
		return RateFixed, nil
	default:
		return "", fmt.Errorf("unknown rate type: %q", s)
	}
}

// RepricingFrequency is how often a floating rate resets.
type RepricingFrequency string

const (
	RepriceDaily      RepricingFrequency = "daily"
	RepriceMonthly    RepricingFrequency = "monthly"
	RepriceQuarterly  RepricingFrequency = "quarterly"
	RepriceSemiannual RepricingFrequency = "semiannual"
	RepriceAnnual     RepricingFrequency = "annual"
)

// ParseRepricingFrequency converts a repricing frequency code. The empty
// string is valid and means "not applicable" (fixed or zero rate).
func ParseRepricingFrequency(s string) (RepricingFrequency, error) {
	switch RepricingFrequency(s) {
	case "", RepriceDaily, RepriceMonthly, RepriceQuarterly, RepriceSemiannual, RepriceAnnual:
		return RepricingFrequency(s), nil
	default:
		return "", fmt.Errorf("unknown repricing frequency: %q", s)
	}
}

// AssetQuality grades loan credit quality for provisioning purposes.
type AssetQuality string

const (
	QualityStandard    AssetQuality = "standard"
	QualityWatch       AssetQuality = "watch"
	QualitySubstandard AssetQuality = "substandard"
	QualityDoubtful    AssetQuality = "doubtful"
	QualityLoss        AssetQuality = "loss"
)

// ParseAssetQuality converts an asset quality code. Empty defaults to standard.
func ParseAssetQuality(s string) (AssetQuality, error) {
	switch AssetQuality(s) {
	case "":
		return QualityStandard, nil
	case QualityStandard, QualityWatch, QualitySubstandard, QualityDoubtful, QualityLoss:
		return AssetQuality(s), nil
	default:
		return "", fmt.Errorf("unknown asset quality: %q", s)
	}
}

// CashFlow is a single contractual payment. Amounts are signed by
// classification: positive for asset inflows, negative for liability
// outflows. Total is always Principal + Interest.
type CashFlow struct {
	Date      time.Time       `json:"date"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Total     decimal.Decimal `json:"total"`
}
