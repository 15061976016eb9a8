package exporter

import (
	"fmt"
	"io"
	"strings"

	"almcli/internal/gap"
)

// PrintGapReport writes a fixed-width gap report to w.
func PrintGapReport(w io.Writer, report *gap.Report) {
	line := strings.Repeat("=", 100)
	dash := strings.Repeat("-", 100)

	fmt.Fprintf(w, "\n%s\n", line)
	fmt.Fprintln(w, "LIQUIDITY GAP ANALYSIS")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "As of Date: %s\n", report.Params.AsOfDate.Format("2006-01-02"))
	fmt.Fprintf(w, "Base Currency: %s\n", report.Params.BaseCurrency)
	fmt.Fprintf(w, "Number of Positions: %d\n", report.Params.PositionCount)
	fmt.Fprintln(w, dash)

	fmt.Fprintf(w, "\n%-20s %18s %18s %18s %18s\n", "Bucket", "Assets", "Liabilities", "Gap", "Cumulative Gap")
	fmt.Fprintln(w, dash)
	for _, row := range report.Table.Rows {
		fmt.Fprintf(w, "%-20s %18s %18s %18s %18s\n",
			row.BucketName,
			row.Assets.StringFixed(0),
			row.Liabilities.StringFixed(0),
			row.Gap.StringFixed(0),
			row.CumulativeGap.StringFixed(0),
		)
	}
	fmt.Fprintf(w, "%-20s %18s %18s %18s %18s\n",
		"TOTAL",
		report.Table.TotalAssets.StringFixed(0),
		report.Table.TotalLiabilities.StringFixed(0),
		report.Table.TotalGap.StringFixed(0),
		report.Table.TotalGap.StringFixed(0),
	)
	fmt.Fprintln(w, line)

	fmt.Fprintln(w, "\nKEY METRICS:")
	fmt.Fprintf(w, "  Liquidity Coverage Ratio (LCR): %s\n", report.Ratios.LiquidityCoverageRatio)
	fmt.Fprintf(w, "  Gap 30 days: %s %s\n", report.Ratios.Gap30d.StringFixed(0), report.Params.BaseCurrency)
	fmt.Fprintf(w, "  Total Gap: %s %s\n", report.Table.TotalGap.StringFixed(0), report.Params.BaseCurrency)
	fmt.Fprintf(w, "%s\n\n", line)
}
