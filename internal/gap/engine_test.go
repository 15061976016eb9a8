package gap

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almcli/internal/bucket"
	"almcli/internal/fx"
	"almcli/internal/instrument"
)

var asOf = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustInstrument(t *testing.T, rec instrument.Record) instrument.Instrument {
	t.Helper()
	ins, err := instrument.FromRecord(rec)
	require.NoError(t, err)
	return ins
}

func corporateLoan(t *testing.T, id, amount, maturity string) instrument.Instrument {
	t.Helper()
	return mustInstrument(t, instrument.Record{
		"position_id":     id,
		"as_of_date":      "2024-12-01",
		"instrument_type": "loan_corporate",
		"balance_account": "45203",
		"currency":        "RUB",
		"amount":          amount,
		"start_date":      "2024-01-15",
		"maturity_date":   maturity,
		"rate":            "0.16",
		"rate_type":       "fixed",
	})
}

func demandDeposit(t *testing.T, id, amount string) instrument.Instrument {
	t.Helper()
	return mustInstrument(t, instrument.Record{
		"position_id":       id,
		"as_of_date":        "2024-12-01",
		"instrument_type":   "deposit_retail",
		"balance_account":   "42301",
		"currency":          "RUB",
		"amount":            amount,
		"start_date":        "2024-06-01",
		"rate_type":         "zero",
		"product_type":      "current_account",
		"is_demand_deposit": "true",
	})
}

func termDeposit(t *testing.T, id, amount, maturity, currency string) instrument.Instrument {
	t.Helper()
	return mustInstrument(t, instrument.Record{
		"position_id":     id,
		"as_of_date":      "2024-12-01",
		"instrument_type": "deposit_corporate",
		"balance_account": "43801",
		"currency":        currency,
		"amount":          amount,
		"start_date":      "2024-06-01",
		"maturity_date":   maturity,
		"rate":            "0.08",
		"rate_type":       "fixed",
	})
}

func newEngine(base instrument.Currency, rates *fx.StaticRates) *Engine {
	if rates == nil {
		rates = fx.NewStaticRates()
	}
	return NewEngine(fx.NewConverter(base, rates), nil)
}

func TestSingleLoanLandsInMaturityBucket(t *testing.T) {
	// 2027-12-01 is 1095 days out: the top of the 2-3 years interval.
	engine := newEngine(instrument.RUB, nil)
	report, err := engine.CalculateGap(context.Background(), []instrument.Instrument{
		corporateLoan(t, "LOAN_001", "50000000", "2027-12-01"),
	}, asOf)
	require.NoError(t, err)

	for _, row := range report.Table.Rows {
		if row.Bucket == bucket.Years2to3 {
			assert.True(t, row.Assets.Equal(dec("50000000")), "assets %s", row.Assets)
			assert.True(t, row.Gap.Equal(dec("50000000")))
			continue
		}
		assert.True(t, row.Assets.IsZero(), "bucket %s should be empty", row.BucketName)
		assert.True(t, row.Liabilities.IsZero())
	}

	assert.True(t, report.Table.TotalAssets.Equal(dec("50000000")))
	assert.True(t, report.Table.TotalLiabilities.IsZero())
	assert.True(t, report.Table.TotalGap.Equal(dec("50000000")))
}

func TestDemandDepositScenario(t *testing.T) {
	engine := newEngine(instrument.RUB, nil)
	report, err := engine.CalculateGap(context.Background(), []instrument.Instrument{
		demandDeposit(t, "DEP_001", "500000"),
	}, asOf)
	require.NoError(t, err)

	row := report.Table.Row(bucket.Years5Plus)
	assert.True(t, row.Liabilities.Equal(dec("500000")))
	assert.True(t, row.Gap.Equal(dec("-500000")))

	// No liquid assets and no short-term liabilities: the coverage ratio is
	// undefined, not zero and not infinite.
	assert.False(t, report.Ratios.LiquidityCoverageRatio.Valid)
	assert.Equal(t, "n/a", report.Ratios.LiquidityCoverageRatio.String())
	assert.True(t, report.Ratios.ShortTermLiabilities30d.IsZero())
}

func TestOverdueScenario(t *testing.T) {
	engine := newEngine(instrument.RUB, nil)
	report, err := engine.CalculateGap(context.Background(), []instrument.Instrument{
		corporateLoan(t, "LOAN_OVERDUE", "1000000", "2024-11-30"), // one day before as-of
		corporateLoan(t, "LOAN_CURRENT", "2000000", "2025-05-01"), // 151 days out, 3-6 months
	}, asOf)
	require.NoError(t, err)

	overdue := report.Table.Row(bucket.Overdue)
	assert.True(t, overdue.Assets.Equal(dec("1000000")))

	// The overdue gap feeds the running cumulative total from the first row
	// onward without leaking into later buckets' local sums.
	sixMonth := report.Table.Row(bucket.Months3to6)
	assert.True(t, sixMonth.Assets.Equal(dec("2000000")))
	assert.True(t, sixMonth.CumulativeGap.Equal(dec("3000000")))
}

func TestGapIdentity(t *testing.T) {
	engine := newEngine(instrument.RUB, nil)
	report, err := engine.CalculateGap(context.Background(), []instrument.Instrument{
		corporateLoan(t, "LOAN_A", "10000000", "2025-01-15"),
		corporateLoan(t, "LOAN_B", "5000000", "2026-06-01"),
		demandDeposit(t, "DEP_A", "3000000"),
		termDeposit(t, "DEP_B", "7000000", "2025-03-01", "RUB"),
	}, asOf)
	require.NoError(t, err)

	for _, row := range report.Table.Rows {
		assert.True(t, row.Gap.Equal(row.Assets.Sub(row.Liabilities)),
			"gap identity violated in %s", row.BucketName)
	}

	last := report.Table.Rows[len(report.Table.Rows)-1]
	assert.True(t, last.CumulativeGap.Equal(report.Table.TotalAssets.Sub(report.Table.TotalLiabilities)))
}

func TestDuplicatePositionIDsAreSummed(t *testing.T) {
	engine := newEngine(instrument.RUB, nil)
	report, err := engine.CalculateGap(context.Background(), []instrument.Instrument{
		corporateLoan(t, "LOAN_DUP", "1000000", "2025-06-01"),
		corporateLoan(t, "LOAN_DUP", "1000000", "2025-06-01"),
	}, asOf)
	require.NoError(t, err)

	assert.True(t, report.Table.TotalAssets.Equal(dec("2000000")))
	assert.Equal(t, 2, report.Params.PositionCount)
}

func TestCurrencyConversion(t *testing.T) {
	rates := fx.NewStaticRates()
	rates.Set(instrument.USD, asOf, dec("95.0"))
	engine := newEngine(instrument.RUB, rates)

	report, err := engine.CalculateGap(context.Background(), []instrument.Instrument{
		termDeposit(t, "DEP_USD", "1000", "2025-03-01", "USD"),
	}, asOf)
	require.NoError(t, err)

	assert.True(t, report.Table.TotalLiabilities.Equal(dec("95000")))

	require.Len(t, report.Summary, 1)
	assert.True(t, report.Summary[0].Amount.Equal(dec("1000")))
	assert.True(t, report.Summary[0].AmountBase.Equal(dec("95000")))
}

func TestMissingRateAbortsCalculation(t *testing.T) {
	engine := newEngine(instrument.RUB, nil)
	_, err := engine.CalculateGap(context.Background(), []instrument.Instrument{
		corporateLoan(t, "LOAN_RUB", "1000000", "2025-06-01"),
		termDeposit(t, "DEP_USD", "1000", "2025-03-01", "USD"),
	}, asOf)

	var merr *fx.MissingRateError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, instrument.USD, merr.Currency)
}

func TestRatios(t *testing.T) {
	engine := newEngine(instrument.RUB, nil)
	report, err := engine.CalculateGap(context.Background(), []instrument.Instrument{
		corporateLoan(t, "LOAN_ON", "1000000", "2024-12-01"),  // Overnight
		corporateLoan(t, "LOAN_7D", "2000000", "2024-12-05"),  // 1-7 days
		corporateLoan(t, "LOAN_1Y", "9000000", "2025-11-01"),  // 6-12 months
		termDeposit(t, "DEP_30D", "1500000", "2024-12-20", "RUB"), // 8-30 days
	}, asOf)
	require.NoError(t, err)

	r := report.Ratios
	assert.True(t, r.LiquidAssets30d.Equal(dec("3000000")))
	assert.True(t, r.ShortTermLiabilities30d.Equal(dec("1500000")))
	require.True(t, r.LiquidityCoverageRatio.Valid)
	assert.True(t, r.LiquidityCoverageRatio.Value.Equal(dec("2")))
	assert.True(t, r.Gap30d.Equal(dec("1500000")))
	assert.True(t, r.TotalAssets.Equal(dec("12000000")))
	assert.True(t, r.TotalLiabilities.Equal(dec("1500000")))
}

func TestSummaryByDimension(t *testing.T) {
	rates := fx.NewStaticRates()
	rates.Set(instrument.USD, asOf, dec("95.0"))
	engine := newEngine(instrument.RUB, rates)

	report, err := engine.CalculateGap(context.Background(), []instrument.Instrument{
		corporateLoan(t, "LOAN_A", "1000000", "2025-06-01"),
		corporateLoan(t, "LOAN_B", "500000", "2026-06-01"),
		termDeposit(t, "DEP_RUB", "200000", "2025-03-01", "RUB"),
		termDeposit(t, "DEP_USD", "1000", "2025-03-01", "USD"),
	}, asOf)
	require.NoError(t, err)

	require.Len(t, report.Summary, 3)

	// Sorted by classification, then type, then currency: assets first.
	first := report.Summary[0]
	assert.Equal(t, instrument.ClassAsset, first.Classification)
	assert.Equal(t, 2, first.Count)
	assert.True(t, first.Amount.Equal(dec("1500000")))

	assert.Equal(t, instrument.ClassLiability, report.Summary[1].Classification)
	assert.Equal(t, instrument.RUB, report.Summary[1].Currency)
	assert.Equal(t, instrument.USD, report.Summary[2].Currency)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newEngine(instrument.RUB, nil)
	_, err := engine.CalculateGap(ctx, []instrument.Instrument{
		corporateLoan(t, "LOAN_A", "1000000", "2025-06-01"),
	}, asOf)
	assert.ErrorIs(t, err, context.Canceled)
}
