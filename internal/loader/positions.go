// Package loader reads balance-sheet positions and FX rate tables from CSV
// and hands the gap engine fully constructed, validated instruments. It is
// the only place unvalidated data exists; a record either becomes a valid
// instrument here or never reaches the engine.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"

	"almcli/internal/instrument"
)

// validate holds the struct validator shared by all loads.
var validate = validator.New()

// positionRow is the shape every position record must satisfy before factory
// dispatch. It catches missing or malformed key columns with field-level
// messages; deep parsing and the model invariants run in the factory.
type positionRow struct {
	PositionID     string `validate:"required"`
	InstrumentType string `validate:"required"`
	Currency       string `validate:"required,oneof=RUB USD EUR CNY GBP"`
	Amount         string `validate:"required"`
	AsOfDate       string `validate:"required,datetime=2006-01-02"`
	StartDate      string `validate:"required,datetime=2006-01-02"`
}

// Summary describes the outcome of one load.
type Summary struct {
	Total   int
	Loaded  int
	Skipped int
	ByType  map[instrument.InstrumentType]int
}

// Positions reads instruments from a balance-sheet CSV.
type Positions struct {
	// Strict aborts the load on the first bad record instead of skipping it.
	Strict bool

	// DayCount is the accrual convention applied to records that do not carry
	// their own day_count column.
	DayCount instrument.DayCount

	logger *slog.Logger
}

// NewPositions returns a position loader.
func NewPositions(strict bool, logger *slog.Logger) *Positions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Positions{Strict: strict, logger: logger}
}

// Load reads the CSV at path and constructs instruments through the factory.
// The first row must be a header of snake_case column names. Records that
// fail validation or construction, and rows with the wrong field count, are
// skipped with a warning, or abort the load in strict mode. Any other CSV
// parse error always aborts.
func (p *Positions) Load(path string) ([]instrument.Instrument, *Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open positions file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	summary := &Summary{ByType: make(map[instrument.InstrumentType]int)}
	var instruments []instrument.Instrument

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			summary.Total++
			// A wrong field count leaves the reader positioned on the next
			// row and can be skipped; any other parse error (broken quoting)
			// leaves it in an unknown state, so the load fails outright
			// rather than risk a silently partial portfolio.
			if p.Strict || !errors.Is(err, csv.ErrFieldCount) {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			summary.Skipped++
			p.logger.Warn("skipping malformed CSV row", "line", line, "error", err)
			continue
		}
		summary.Total++

		rec := make(instrument.Record, len(header))
		for i, col := range header {
			if i < len(record) {
				rec[col] = record[i]
			}
		}

		ins, err := p.buildInstrument(rec)
		if err != nil {
			if p.Strict {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			summary.Skipped++
			p.logger.Warn("skipping invalid position record",
				"line", line,
				"position_id", rec["position_id"],
				"error", err,
			)
			continue
		}

		instruments = append(instruments, ins)
		summary.Loaded++
		summary.ByType[ins.Base().InstrumentType]++
	}

	p.logger.Info("positions loaded",
		"path", path,
		"total", summary.Total,
		"loaded", summary.Loaded,
		"skipped", summary.Skipped,
	)
	return instruments, summary, nil
}

func (p *Positions) buildInstrument(rec instrument.Record) (instrument.Instrument, error) {
	row := positionRow{
		PositionID:     rec["position_id"],
		InstrumentType: rec["instrument_type"],
		Currency:       rec["currency"],
		Amount:         rec["amount"],
		AsOfDate:       rec["as_of_date"],
		StartDate:      rec["start_date"],
	}
	if err := validate.Struct(row); err != nil {
		return nil, fmt.Errorf("record validation: %w", err)
	}
	if rec["day_count"] == "" && p.DayCount != "" {
		rec["day_count"] = string(p.DayCount)
	}
	return instrument.FromRecord(rec)
}
