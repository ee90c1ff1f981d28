package analysis

import "fmt"

// The pipeline's failure kinds. All of them propagate to the boundary
// unchanged; none trigger retries. The empty-trip case is
// telemetry.ErrTripNotFound / trip.ErrEmptyTrip, surfaced as not-found.

// ExternalServiceError wraps a failure of the text-generation capability:
// transport errors, no structured payload, or a mismatched function name.
type ExternalServiceError struct {
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("analysis: external service: %v", e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// SchemaValidationError reports a structured response that parsed but
// failed a required-field or type check.
type SchemaValidationError struct {
	Field  string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("analysis: schema validation: field %q %s", e.Field, e.Reason)
}

// StorageError wraps a persistence failure after a valid report was
// assembled. The assembled report is still returned alongside it.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("analysis: store report: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
