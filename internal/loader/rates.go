package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"almcli/internal/fx"
	"almcli/internal/instrument"
)

// Rates reads an FX rate table from a CSV with currency, date and rate
// columns. Every row quotes the rate from the currency into the report base
// currency as of the given date. Bad rows fail the load outright: a rate
// table with holes would only surface later as a mid-calculation abort.
func Rates(path string) (*fx.StaticRates, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rates file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	ccyIdx, dateIdx, rateIdx := -1, -1, -1
	for i, col := range header {
		switch col {
		case "currency":
			ccyIdx = i
		case "date":
			dateIdx = i
		case "rate":
			rateIdx = i
		}
	}
	if ccyIdx < 0 || dateIdx < 0 || rateIdx < 0 {
		return nil, fmt.Errorf("rates file %s: header must contain currency, date and rate columns", path)
	}

	rates := fx.NewStaticRates()
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ccy, err := instrument.ParseCurrency(record[ccyIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		date, err := time.Parse("2006-01-02", record[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse date: %w", line, err)
		}
		rate, err := decimal.NewFromString(record[rateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse rate: %w", line, err)
		}
		if rate.Sign() <= 0 {
			return nil, fmt.Errorf("line %d: rate must be positive, got %s", line, rate)
		}

		rates.Set(ccy, date, rate)
	}

	return rates, nil
}
