// Package exporter renders gap reports to CSV, Excel and the console. It
// only formats numbers the engine already derived; nothing is recomputed
// here.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"almcli/internal/gap"
)

// SaveGapCSV writes the bucket table, including a TOTAL row, to a CSV file.
func SaveGapCSV(report *gap.Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Bucket", "Assets", "Liabilities", "Gap", "Cumulative Gap"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, row := range report.Table.Rows {
		record := []string{
			row.BucketName,
			row.Assets.StringFixed(2),
			row.Liabilities.StringFixed(2),
			row.Gap.StringFixed(2),
			row.CumulativeGap.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record for %s: %w", row.BucketName, err)
		}
	}

	total := []string{
		"TOTAL",
		report.Table.TotalAssets.StringFixed(2),
		report.Table.TotalLiabilities.StringFixed(2),
		report.Table.TotalGap.StringFixed(2),
		report.Table.TotalGap.StringFixed(2),
	}
	if err := writer.Write(total); err != nil {
		return fmt.Errorf("write CSV total row: %w", err)
	}

	return nil
}

// SaveSummaryCSV writes the dimensional audit summary to a CSV file.
func SaveSummaryCSV(report *gap.Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Classification", "Instrument Type", "Currency", "Count", "Amount", "Amount Base"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, row := range report.Summary {
		record := []string{
			row.Classification.String(),
			row.InstrumentType.String(),
			string(row.Currency),
			fmt.Sprintf("%d", row.Count),
			row.Amount.StringFixed(2),
			row.AmountBase.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV summary record: %w", err)
		}
	}

	return nil
}
