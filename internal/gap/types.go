package gap

import (
	"time"

	"github.com/shopspring/decimal"

	"almcli/internal/bucket"
	"almcli/internal/instrument"
)

// Row is one bucket line of the gap table, all amounts in base currency.
type Row struct {
	Bucket        bucket.Bucket   `json:"-"`
	BucketName    string          `json:"bucket"`
	Assets        decimal.Decimal `json:"assets"`
	Liabilities   decimal.Decimal `json:"liabilities"`
	Gap           decimal.Decimal `json:"gap"`
	CumulativeGap decimal.Decimal `json:"cumulative_gap"`
}

// Table is the bucketed gap report: one row per bucket in the fixed schedule
// order plus column totals. The gap identity Gap = Assets - Liabilities holds
// per row, and the last cumulative gap equals TotalAssets - TotalLiabilities.
type Table struct {
	Rows             []Row           `json:"rows"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalGap         decimal.Decimal `json:"total_gap"`
}

// Row returns the table row for a bucket.
func (t *Table) Row(b bucket.Bucket) Row {
	return t.Rows[int(b)]
}

// DimensionRow is one line of the audit summary, grouped by classification,
// instrument type and currency. Amount is in the original currency,
// AmountBase in the base currency.
type DimensionRow struct {
	Classification instrument.Classification `json:"classification"`
	InstrumentType instrument.InstrumentType `json:"instrument_type"`
	Currency       instrument.Currency       `json:"currency"`
	Count          int                       `json:"count"`
	Amount         decimal.Decimal           `json:"amount"`
	AmountBase     decimal.Decimal           `json:"amount_base"`
}

// Ratio is a ratio that may be undefined. Valid is false when the denominator
// was zero; the value is then meaningless and must not be rendered as a
// number.
type Ratio struct {
	Value decimal.Decimal `json:"value"`
	Valid bool            `json:"valid"`
}

// String renders the ratio for reports, with "n/a" for undefined ratios.
func (r Ratio) String() string {
	if !r.Valid {
		return "n/a"
	}
	return r.Value.StringFixed(4)
}

// Ratios are the summary liquidity metrics derived from the gap table.
type Ratios struct {
	LiquidAssets30d         decimal.Decimal `json:"liquid_assets_30d"`
	ShortTermLiabilities30d decimal.Decimal `json:"short_term_liabilities_30d"`
	LiquidityCoverageRatio  Ratio           `json:"liquidity_coverage_ratio"`
	Gap30d                  decimal.Decimal `json:"gap_30d"`
	TotalAssets             decimal.Decimal `json:"total_assets"`
	TotalLiabilities        decimal.Decimal `json:"total_liabilities"`
}

// Params records how a report was produced.
type Params struct {
	AsOfDate      time.Time           `json:"as_of_date"`
	BaseCurrency  instrument.Currency `json:"base_currency"`
	PositionCount int                 `json:"position_count"`
	RunID         string              `json:"run_id"`
	CalculatedAt  time.Time           `json:"calculated_at"`
}

// Report is the complete result of one gap calculation. It is the only
// surface exporters consume; they render it without re-deriving any numbers.
type Report struct {
	Table   Table          `json:"table"`
	Summary []DimensionRow `json:"summary"`
	Ratios  Ratios         `json:"ratios"`
	Params  Params         `json:"params"`
}
