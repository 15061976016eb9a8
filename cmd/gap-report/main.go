package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"almcli/internal/config"
	"almcli/internal/exporter"
	"almcli/internal/fx"
	"almcli/internal/gap"
	"almcli/internal/infrastructure"
	"almcli/internal/instrument"
	"almcli/internal/loader"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	positionsPath := flag.String("positions", "", "balance sheet positions CSV (required)")
	ratesPath := flag.String("rates", "", "FX rates CSV (required unless all positions are in the base currency)")
	asOfStr := flag.String("asof", "", "analysis date YYYY-MM-DD (required)")
	baseStr := flag.String("base", "", "base currency (default from config)")
	outputDir := flag.String("out", "", "output directory for reports (default from config)")
	strict := flag.Bool("strict", false, "abort on the first invalid position record")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := infrastructure.NewLogger(cfg.Logging)

	if *positionsPath == "" || *asOfStr == "" {
		flag.Usage()
		os.Exit(2)
	}

	asOfDate, err := parseDate(*asOfStr)
	if err != nil {
		logger.Error("Invalid -asof date", "value", *asOfStr, "error", err)
		os.Exit(1)
	}

	if *baseStr == "" {
		*baseStr = cfg.Analysis.BaseCurrency
	}
	base, err := instrument.ParseCurrency(*baseStr)
	if err != nil {
		logger.Error("Invalid base currency", "value", *baseStr, "error", err)
		os.Exit(1)
	}

	if *outputDir == "" {
		*outputDir = cfg.Paths.ReportsDir
	}

	// Load positions
	positions := loader.NewPositions(*strict || cfg.Analysis.Strict, logger)
	positions.DayCount = instrument.DayCount(cfg.Analysis.DayCount)
	instruments, summary, err := positions.Load(*positionsPath)
	if err != nil {
		logger.Error("Failed to load positions", "path", *positionsPath, "error", err)
		os.Exit(1)
	}
	if len(instruments) == 0 {
		logger.Error("No valid positions loaded", "path", *positionsPath)
		os.Exit(1)
	}
	logger.Info("Positions loaded", "loaded", summary.Loaded, "skipped", summary.Skipped)

	// Load FX rates; an empty table is fine for single-currency books.
	rates := fx.NewStaticRates()
	if *ratesPath != "" {
		rates, err = loader.Rates(*ratesPath)
		if err != nil {
			logger.Error("Failed to load FX rates", "path", *ratesPath, "error", err)
			os.Exit(1)
		}
	}

	// Run the gap calculation
	engine := gap.NewEngine(fx.NewConverter(base, rates), logger)
	report, err := engine.CalculateGap(context.Background(), instruments, asOfDate)
	if err != nil {
		logger.Error("Gap calculation failed", "error", err)
		os.Exit(1)
	}

	// Render: console, CSV pair, Excel workbook
	exporter.PrintGapReport(os.Stdout, report)

	stamp := asOfDate.Format("2006-01-02")
	gapPath := filepath.Join(*outputDir, fmt.Sprintf("liquidity_gap_%s.csv", stamp))
	if err := exporter.SaveGapCSV(report, gapPath); err != nil {
		logger.Error("Failed to save gap CSV", "path", gapPath, "error", err)
		os.Exit(1)
	}

	summaryPath := filepath.Join(*outputDir, fmt.Sprintf("liquidity_summary_%s.csv", stamp))
	if err := exporter.SaveSummaryCSV(report, summaryPath); err != nil {
		logger.Error("Failed to save summary CSV", "path", summaryPath, "error", err)
		os.Exit(1)
	}

	excelPath := filepath.Join(*outputDir, fmt.Sprintf("liquidity_gap_analysis_%s.xlsx", stamp))
	if err := exporter.SaveExcel(report, excelPath); err != nil {
		logger.Error("Failed to save Excel workbook", "path", excelPath, "error", err)
		os.Exit(1)
	}

	logger.Info("Liquidity gap report generated",
		"run_id", report.Params.RunID,
		"gap_csv", gapPath,
		"summary_csv", summaryPath,
		"workbook", excelPath,
	)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
