package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// ReportFunctionName is the single function/tool the model is forced to
// call. Responses naming anything else are rejected.
const ReportFunctionName = "report_trip_analysis"

var (
	// ErrNoFunctionCall means the model returned no structured payload.
	ErrNoFunctionCall = errors.New("llm: model returned no function call")
	// ErrFunctionMismatch means the model called a function other than
	// ReportFunctionName.
	ErrFunctionMismatch = errors.New("llm: unexpected function call")
)

// Client submits a rendered analysis prompt and returns the raw arguments
// of the report function call. The call is bounded by the caller's context;
// implementations must not retry on their own.
type Client interface {
	Name() string
	GenerateReport(ctx context.Context, prompt string) (json.RawMessage, error)
	Close() error
}
