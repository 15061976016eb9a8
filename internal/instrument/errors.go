package instrument

import "fmt"

// ValidationError reports a construction-time invariant violation. An
// instrument whose validation fails is never created, so downstream code can
// assume every Instrument it receives satisfies the model invariants.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func validationErr(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UnknownInstrumentTypeError is returned by the factory when the
// instrument_type discriminator does not map to any known variant.
type UnknownInstrumentTypeError struct {
	Type string
}

func (e *UnknownInstrumentTypeError) Error() string {
	return fmt.Sprintf("unknown instrument type: %q", e.Type)
}

// DomainError reports a query that is undefined for the instrument it was
// asked of, e.g. time-to-maturity on a perpetual position. Callers that check
// EffectiveMaturity first never see it.
type DomainError struct {
	PositionID string
	Query      string
	Reason     string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s undefined for position %s: %s", e.Query, e.PositionID, e.Reason)
}
