package analysis

import "fmt"

// minSuggestions is the contract minimum for the suggestion list. The
// schema already asks the model for at least this many; the assembler
// enforces it anyway.
const minSuggestions = 3

// fallbackSuggestions pads a report when the response and its general
// advice together still come up short.
var fallbackSuggestions = []string{
	"Accelerate gently and anticipate traffic to avoid sharp speed changes.",
	"Keep engine RPM in the efficient range by shifting up early.",
	"Maintain steady speeds and avoid unnecessary idling.",
}

// TripReport is the final, immutable result of one analysis run.
type TripReport struct {
	TripID          string   `json:"trip_id"`
	Summary         string   `json:"summary"`
	Suggestions     []string `json:"suggestions"`
	GeneralAdvice   []string `json:"general_advice,omitempty"`
	EcoScore        int      `json:"eco_score"`
	FuelSavedLiters *float64 `json:"fuel_saved_liters,omitempty"`
	CO2AvoidedKG    *float64 `json:"co2_avoided_kg,omitempty"`
	PlainText       string   `json:"plain_text"`
}

// Assemble combines a validated response with the trip identity. Timestamped
// suggestions are rendered to display strings; if fewer than three arrived,
// the list is padded from the general advice first, then from the fixed
// fallback set. Score and savings estimates pass through unchanged.
func Assemble(tripID string, v *ValidatedResponse) TripReport {
	suggestions := make([]string, 0, len(v.Suggestions))
	for _, s := range v.Suggestions {
		suggestions = append(suggestions, fmt.Sprintf("At %s: %s", s.Timestamp, s.Advice))
	}
	for _, advice := range v.GeneralAdvice {
		if len(suggestions) >= minSuggestions {
			break
		}
		suggestions = append(suggestions, advice)
	}
	for _, fallback := range fallbackSuggestions {
		if len(suggestions) >= minSuggestions {
			break
		}
		suggestions = append(suggestions, fallback)
	}

	return TripReport{
		TripID:          tripID,
		Summary:         v.Summary,
		Suggestions:     suggestions,
		GeneralAdvice:   v.GeneralAdvice,
		EcoScore:        v.EcoScore,
		FuelSavedLiters: v.FuelSavedLiters,
		CO2AvoidedKG:    v.CO2AvoidedKG,
		PlainText:       string(v.Raw),
	}
}
