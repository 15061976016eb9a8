package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"almcli/internal/gap"
)

// Sheet names of the exported workbook.
const (
	sheetGap     = "Liquidity Gap"
	sheetSummary = "Summary by Currency"
	sheetRatios  = "Ratios"
	sheetParams  = "Parameters"
)

// SaveExcel writes the full report into one workbook with four sheets: the
// bucket table, the currency summary, the ratios and the run parameters.
func SaveExcel(report *gap.Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeGapSheet(f, report); err != nil {
		return err
	}
	if err := writeSummarySheet(f, report); err != nil {
		return err
	}
	if err := writeRatiosSheet(f, report); err != nil {
		return err
	}
	if err := writeParamsSheet(f, report); err != nil {
		return err
	}

	// The default Sheet1 only exists because NewFile creates it.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeGapSheet(f *excelize.File, report *gap.Report) error {
	if _, err := f.NewSheet(sheetGap); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheetGap, err)
	}

	headers := []any{"Bucket", "Assets", "Liabilities", "Gap", "Cumulative Gap"}
	if err := setRow(f, sheetGap, 1, headers); err != nil {
		return err
	}

	rowNum := 2
	for _, row := range report.Table.Rows {
		values := []any{
			row.BucketName,
			decimalCell(row.Assets),
			decimalCell(row.Liabilities),
			decimalCell(row.Gap),
			decimalCell(row.CumulativeGap),
		}
		if err := setRow(f, sheetGap, rowNum, values); err != nil {
			return err
		}
		rowNum++
	}

	total := []any{
		"TOTAL",
		decimalCell(report.Table.TotalAssets),
		decimalCell(report.Table.TotalLiabilities),
		decimalCell(report.Table.TotalGap),
		decimalCell(report.Table.TotalGap),
	}
	return setRow(f, sheetGap, rowNum, total)
}

func writeSummarySheet(f *excelize.File, report *gap.Report) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheetSummary, err)
	}

	headers := []any{"Classification", "Instrument Type", "Currency", "Count", "Amount", "Amount Base"}
	if err := setRow(f, sheetSummary, 1, headers); err != nil {
		return err
	}

	for i, row := range report.Summary {
		values := []any{
			row.Classification.String(),
			row.InstrumentType.String(),
			string(row.Currency),
			row.Count,
			decimalCell(row.Amount),
			decimalCell(row.AmountBase),
		}
		if err := setRow(f, sheetSummary, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRatiosSheet(f *excelize.File, report *gap.Report) error {
	if _, err := f.NewSheet(sheetRatios); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheetRatios, err)
	}

	base := string(report.Params.BaseCurrency)
	r := report.Ratios

	lcr := any("n/a")
	if r.LiquidityCoverageRatio.Valid {
		lcr = decimalCell(r.LiquidityCoverageRatio.Value)
	}

	rows := [][]any{
		{"Metric", "Value", "Unit"},
		{"Liquid Assets (0-30d)", decimalCell(r.LiquidAssets30d), base},
		{"Short-term Liabilities (0-30d)", decimalCell(r.ShortTermLiabilities30d), base},
		{"Liquidity Coverage Ratio", lcr, "ratio"},
		{"Gap 30 days", decimalCell(r.Gap30d), base},
		{"Total Assets", decimalCell(r.TotalAssets), base},
		{"Total Liabilities", decimalCell(r.TotalLiabilities), base},
	}
	for i, row := range rows {
		if err := setRow(f, sheetRatios, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeParamsSheet(f *excelize.File, report *gap.Report) error {
	if _, err := f.NewSheet(sheetParams); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheetParams, err)
	}

	p := report.Params
	rows := [][]any{
		{"Parameter", "Value"},
		{"As of Date", p.AsOfDate.Format("2006-01-02")},
		{"Base Currency", string(p.BaseCurrency)},
		{"Number of Positions", p.PositionCount},
		{"Run ID", p.RunID},
		{"Calculated At", p.CalculatedAt.Format("2006-01-02 15:04:05")},
	}
	for i, row := range rows {
		if err := setRow(f, sheetParams, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// decimalCell converts an exact decimal into the float cell value Excel
// stores. Precision loss here is a rendering concern only; the CSV export
// keeps the exact figures.
func decimalCell(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
