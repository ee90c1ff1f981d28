package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssemble_FormatsSuggestions(t *testing.T) {
	v := &ValidatedResponse{
		Summary: "Steady trip.",
		Suggestions: []Suggestion{
			{Timestamp: "14:15:00", Advice: "Shift up earlier."},
			{Timestamp: "14:18:30", Advice: "Coast toward red lights."},
			{Timestamp: "14:22:10", Advice: "Hold a steady highway speed."},
		},
		EcoScore: 82,
		Raw:      json.RawMessage(`{"eco_score":82}`),
	}

	rep := Assemble("T1", v)
	require.Equal(t, "T1", rep.TripID)
	require.Equal(t, "Steady trip.", rep.Summary)
	require.Equal(t, []string{
		"At 14:15:00: Shift up earlier.",
		"At 14:18:30: Coast toward red lights.",
		"At 14:22:10: Hold a steady highway speed.",
	}, rep.Suggestions)
	require.Equal(t, 82, rep.EcoScore)
	require.Equal(t, `{"eco_score":82}`, rep.PlainText)
}

func TestAssemble_PadsFromGeneralAdvice(t *testing.T) {
	v := &ValidatedResponse{
		Summary: "Short trip.",
		Suggestions: []Suggestion{
			{Timestamp: "09:00:00", Advice: "Warm up the engine gently."},
		},
		GeneralAdvice: []string{
			"Plan routes to avoid congestion.",
			"Remove unnecessary cargo weight.",
			"Use cruise control on highways.",
		},
		EcoScore: 65,
	}

	rep := Assemble("T2", v)
	require.Equal(t, []string{
		"At 09:00:00: Warm up the engine gently.",
		"Plan routes to avoid congestion.",
		"Remove unnecessary cargo weight.",
	}, rep.Suggestions)
	// Padding copies general advice, it does not consume it.
	require.Len(t, rep.GeneralAdvice, 3)
}

func TestAssemble_FallbackPadding(t *testing.T) {
	v := &ValidatedResponse{Summary: "No events.", EcoScore: 90}

	rep := Assemble("T3", v)
	require.Len(t, rep.Suggestions, 3)
	require.Equal(t, fallbackSuggestions, rep.Suggestions)
}

func TestAssemble_NoTruncation(t *testing.T) {
	v := &ValidatedResponse{Summary: "Busy trip.", EcoScore: 40}
	for i := 0; i < 5; i++ {
		v.Suggestions = append(v.Suggestions, Suggestion{Timestamp: "10:00:00", Advice: "Slow down."})
	}

	rep := Assemble("T4", v)
	require.Len(t, rep.Suggestions, 5)
}

func TestAssemble_SavingsPassThrough(t *testing.T) {
	fuel := 0.6
	v := &ValidatedResponse{
		Summary:         "ok",
		EcoScore:        78,
		FuelSavedLiters: &fuel,
		CO2AvoidedKG:    nil,
	}

	rep := Assemble("T5", v)
	require.Same(t, &fuel, rep.FuelSavedLiters)
	require.Nil(t, rep.CO2AvoidedKG)
}
