package analysis

import (
	"bytes"
	"encoding/json"
)

// Suggestion is one timestamped advice pair as returned by the external
// service, before display formatting.
type Suggestion struct {
	Timestamp string
	Advice    string
}

// ValidatedResponse holds the type-checked fields of a structured report
// response plus the raw payload for auditing.
type ValidatedResponse struct {
	Summary         string
	Suggestions     []Suggestion
	GeneralAdvice   []string
	EcoScore        int
	FuelSavedLiters *float64
	CO2AvoidedKG    *float64
	Raw             json.RawMessage
}

// ValidateResponse parses the raw function-call arguments and enforces the
// report schema: missing required fields and type mismatches are fatal,
// unexpected extra fields are ignored, nothing is defaulted. A suggestion
// count below the schema minimum is left to the assembler, which pads the
// list.
func ValidateResponse(raw json.RawMessage) (*ValidatedResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, &SchemaValidationError{Field: "(root)", Reason: "is not a JSON object"}
	}

	out := &ValidatedResponse{Raw: raw}

	summary, ok := payload["summary"].(string)
	if !ok {
		return nil, requireError(payload, "summary", "a string")
	}
	out.Summary = summary

	rawSuggestions, ok := payload["suggestions"].([]any)
	if !ok {
		return nil, requireError(payload, "suggestions", "an array")
	}
	for _, item := range rawSuggestions {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &SchemaValidationError{Field: "suggestions", Reason: "contains a non-object entry"}
		}
		ts, ok := obj["timestamp"].(string)
		if !ok {
			return nil, requireError(obj, "suggestions.timestamp", "a string")
		}
		advice, ok := obj["advice"].(string)
		if !ok {
			return nil, requireError(obj, "suggestions.advice", "a string")
		}
		out.Suggestions = append(out.Suggestions, Suggestion{Timestamp: ts, Advice: advice})
	}

	if rawAdvice, present := payload["general_advice"]; present && rawAdvice != nil {
		list, ok := rawAdvice.([]any)
		if !ok {
			return nil, &SchemaValidationError{Field: "general_advice", Reason: "is not an array"}
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &SchemaValidationError{Field: "general_advice", Reason: "contains a non-string entry"}
			}
			out.GeneralAdvice = append(out.GeneralAdvice, s)
		}
	}

	score, err := intField(payload, "eco_score")
	if err != nil {
		return nil, err
	}
	if score < 0 || score > 100 {
		return nil, &SchemaValidationError{Field: "eco_score", Reason: "is outside [0,100]"}
	}
	out.EcoScore = score

	if out.FuelSavedLiters, err = nullableNumber(payload, "fuel_saved_liters"); err != nil {
		return nil, err
	}
	if out.CO2AvoidedKG, err = nullableNumber(payload, "co2_avoided_kg"); err != nil {
		return nil, err
	}

	return out, nil
}

func requireError(obj map[string]any, field, want string) *SchemaValidationError {
	key := field
	if i := lastDot(field); i >= 0 {
		key = field[i+1:]
	}
	if _, present := obj[key]; !present {
		return &SchemaValidationError{Field: field, Reason: "is missing"}
	}
	return &SchemaValidationError{Field: field, Reason: "is not " + want}
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

func intField(payload map[string]any, field string) (int, error) {
	num, ok := payload[field].(json.Number)
	if !ok {
		return 0, requireError(payload, field, "a number")
	}
	n, err := num.Int64()
	if err != nil {
		return 0, &SchemaValidationError{Field: field, Reason: "is not an integer"}
	}
	return int(n), nil
}

func nullableNumber(payload map[string]any, field string) (*float64, error) {
	raw, present := payload[field]
	if !present {
		return nil, &SchemaValidationError{Field: field, Reason: "is missing"}
	}
	if raw == nil {
		return nil, nil
	}
	num, ok := raw.(json.Number)
	if !ok {
		return nil, &SchemaValidationError{Field: field, Reason: "is not a number"}
	}
	f, err := num.Float64()
	if err != nil {
		return nil, &SchemaValidationError{Field: field, Reason: "is not a number"}
	}
	return &f, nil
}
