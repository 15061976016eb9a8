package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRecord(instrumentType string) Record {
	return Record{
		"position_id":     "POS_001",
		"as_of_date":      "2024-12-01",
		"instrument_type": instrumentType,
		"balance_account": "45203",
		"currency":        "RUB",
		"amount":          "1000000",
		"start_date":      "2024-01-15",
		"maturity_date":   "2026-01-15",
		"rate":            "0.15",
		"rate_type":       "fixed",
	}
}

func TestFromRecordDispatch(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(Record)
		wantType  InstrumentType
		wantClass Classification
	}{
		{
			name:      "corporate loan",
			mutate:    func(r Record) { r["industry_sector"] = "Energy" },
			wantType:  LoanCorporate,
			wantClass: ClassAsset,
		},
		{
			name: "retail loan",
			mutate: func(r Record) {
				r["instrument_type"] = "loan_retail"
				r["product_type"] = "consumer"
			},
			wantType:  LoanRetail,
			wantClass: ClassAsset,
		},
		{
			name: "corporate deposit",
			mutate: func(r Record) {
				r["instrument_type"] = "deposit_corporate"
				r["is_operational"] = "true"
			},
			wantType:  DepositCorporate,
			wantClass: ClassLiability,
		},
		{
			name: "retail deposit",
			mutate: func(r Record) {
				r["instrument_type"] = "deposit_retail"
				r["product_type"] = "time_deposit"
			},
			wantType:  DepositRetail,
			wantClass: ClassLiability,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord("loan_corporate")
			tt.mutate(rec)

			ins, err := FromRecord(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, ins.Base().InstrumentType)
			assert.Equal(t, tt.wantClass, ins.Classify())
			assert.Equal(t, "POS_001", ins.Base().PositionID)
		})
	}
}

func TestFromRecordUnknownType(t *testing.T) {
	rec := baseRecord("repo_agreement")

	_, err := FromRecord(rec)
	var uerr *UnknownInstrumentTypeError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "repo_agreement", uerr.Type)
}

func TestFromRecordParseFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Record)
	}{
		{"bad amount", func(r Record) { r["amount"] = "fifty million" }},
		{"bad date", func(r Record) { r["maturity_date"] = "15/01/2026" }},
		{"bad currency", func(r Record) { r["currency"] = "JPY" }},
		{"bad rate type", func(r Record) { r["rate_type"] = "stepped" }},
		{"bad repricing frequency", func(r Record) { r["repricing_frequency"] = "biweekly" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord("loan_corporate")
			tt.mutate(rec)
			_, err := FromRecord(rec)
			assert.Error(t, err)
		})
	}
}

func TestFromRecordValidationFailure(t *testing.T) {
	rec := baseRecord("loan_corporate")
	rec["amount"] = "0"

	_, err := FromRecord(rec)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
}

func TestFromRecordPerpetualDeposit(t *testing.T) {
	rec := baseRecord("deposit_retail")
	rec["instrument_type"] = "deposit_retail"
	rec["product_type"] = "current_account"
	rec["is_demand_deposit"] = "true"
	delete(rec, "maturity_date")

	ins, err := FromRecord(rec)
	require.NoError(t, err)
	assert.Nil(t, ins.EffectiveMaturity())
	assert.Empty(t, ins.CashFlows())
}
