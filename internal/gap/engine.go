// Package gap aggregates balance-sheet instruments into a contractual
// liquidity gap report: per-bucket asset and liability sums in base currency,
// per-bucket and cumulative gaps, a dimensional audit summary and headline
// liquidity ratios.
package gap

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"almcli/internal/bucket"
	"almcli/internal/fx"
	"almcli/internal/instrument"
)

// Engine computes liquidity gap reports. It never mutates the instruments it
// is given and keeps no references to them across invocations.
type Engine struct {
	converter *fx.Converter
	logger    *slog.Logger
}

// NewEngine creates a gap engine converting into the converter's base
// currency.
func NewEngine(converter *fx.Converter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{converter: converter, logger: logger}
}

// CalculateGap buckets every instrument by its effective contractual maturity,
// sums asset and liability exposures per bucket in base currency and derives
// the gap, cumulative gap, dimensional summary and liquidity ratios.
//
// The bucket is a position-level classification: the instrument's whole
// amount lands in the bucket of its effective maturity. A position whose
// currency has no resolvable FX rate aborts the entire calculation — a
// partial gap report would be worse than none. Duplicate position IDs are
// summed, not deduplicated; uniqueness is a data-quality expectation on the
// input, not an engine invariant.
func (e *Engine) CalculateGap(ctx context.Context, instruments []instrument.Instrument, asOfDate time.Time) (*Report, error) {
	start := time.Now()
	base := e.converter.Base()

	e.logger.InfoContext(ctx, "starting gap calculation",
		"as_of_date", asOfDate.Format("2006-01-02"),
		"base_currency", base,
		"positions", len(instruments),
	)

	assets := make(map[bucket.Bucket]decimal.Decimal)
	liabilities := make(map[bucket.Bucket]decimal.Decimal)
	summary := make(map[dimensionKey]*DimensionRow)

	for _, ins := range instruments {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gap calculation canceled: %w", ctx.Err())
		default:
		}

		pos := ins.Base()
		amountBase, err := e.converter.Convert(pos.Amount, pos.Currency, asOfDate)
		if err != nil {
			e.logger.ErrorContext(ctx, "FX conversion failed, aborting calculation",
				"position_id", pos.PositionID,
				"currency", pos.Currency,
				"error", err,
			)
			return nil, fmt.Errorf("convert position %s: %w", pos.PositionID, err)
		}

		b := bucket.Classify(asOfDate, ins.EffectiveMaturity())
		switch ins.Classify() {
		case instrument.ClassAsset:
			assets[b] = assets[b].Add(amountBase)
		case instrument.ClassLiability:
			liabilities[b] = liabilities[b].Add(amountBase)
		}

		accumulateDimension(summary, ins, amountBase)
	}

	table := buildTable(assets, liabilities)
	report := &Report{
		Table:   table,
		Summary: sortedSummary(summary),
		Ratios:  calculateRatios(table),
		Params: Params{
			AsOfDate:      asOfDate,
			BaseCurrency:  base,
			PositionCount: len(instruments),
			RunID:         uuid.NewString(),
			CalculatedAt:  time.Now().UTC(),
		},
	}

	e.logger.InfoContext(ctx, "gap calculation completed",
		"duration", time.Since(start),
		"run_id", report.Params.RunID,
		"total_assets", report.Table.TotalAssets,
		"total_liabilities", report.Table.TotalLiabilities,
		"lcr", report.Ratios.LiquidityCoverageRatio.String(),
	)

	return report, nil
}

// buildTable lays the accumulated sums out in fixed bucket order and walks
// the running cumulative gap from Overdue onward.
func buildTable(assets, liabilities map[bucket.Bucket]decimal.Decimal) Table {
	var t Table
	cumulative := decimal.Zero
	for _, b := range bucket.All() {
		a := assets[b]
		l := liabilities[b]
		g := a.Sub(l)
		cumulative = cumulative.Add(g)
		t.Rows = append(t.Rows, Row{
			Bucket:        b,
			BucketName:    b.String(),
			Assets:        a,
			Liabilities:   l,
			Gap:           g,
			CumulativeGap: cumulative,
		})
		t.TotalAssets = t.TotalAssets.Add(a)
		t.TotalLiabilities = t.TotalLiabilities.Add(l)
	}
	t.TotalGap = t.TotalAssets.Sub(t.TotalLiabilities)
	return t
}

// liquidBuckets is the 0-30 day horizon used by the coverage ratio.
var liquidBuckets = []bucket.Bucket{bucket.Overnight, bucket.Days1to7, bucket.Days8to30}

// calculateRatios derives the headline liquidity metrics from the gap table.
// The coverage ratio is undefined when there are no short-term liabilities;
// it is reported as not-applicable rather than zero or infinity.
func calculateRatios(t Table) Ratios {
	r := Ratios{
		TotalAssets:      t.TotalAssets,
		TotalLiabilities: t.TotalLiabilities,
	}
	for _, b := range liquidBuckets {
		row := t.Row(b)
		r.LiquidAssets30d = r.LiquidAssets30d.Add(row.Assets)
		r.ShortTermLiabilities30d = r.ShortTermLiabilities30d.Add(row.Liabilities)
	}
	r.Gap30d = t.Row(bucket.Days8to30).CumulativeGap
	if !r.ShortTermLiabilities30d.IsZero() {
		r.LiquidityCoverageRatio = Ratio{
			Value: r.LiquidAssets30d.Div(r.ShortTermLiabilities30d),
			Valid: true,
		}
	}
	return r
}

type dimensionKey struct {
	classification instrument.Classification
	instrumentType instrument.InstrumentType
	currency       instrument.Currency
}

func accumulateDimension(summary map[dimensionKey]*DimensionRow, ins instrument.Instrument, amountBase decimal.Decimal) {
	pos := ins.Base()
	key := dimensionKey{
		classification: ins.Classify(),
		instrumentType: pos.InstrumentType,
		currency:       pos.Currency,
	}
	row, ok := summary[key]
	if !ok {
		row = &DimensionRow{
			Classification: key.classification,
			InstrumentType: key.instrumentType,
			Currency:       key.currency,
		}
		summary[key] = row
	}
	row.Count++
	row.Amount = row.Amount.Add(pos.Amount)
	row.AmountBase = row.AmountBase.Add(amountBase)
}

func sortedSummary(summary map[dimensionKey]*DimensionRow) []DimensionRow {
	rows := make([]DimensionRow, 0, len(summary))
	for _, row := range summary {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Classification != rows[j].Classification {
			return rows[i].Classification < rows[j].Classification
		}
		if rows[i].InstrumentType != rows[j].InstrumentType {
			return rows[i].InstrumentType < rows[j].InstrumentType
		}
		return rows[i].Currency < rows[j].Currency
	})
	return rows
}
