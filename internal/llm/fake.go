package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns a deterministic canned payload for offline use and
// tests. Response and Err can be overridden per test.
type FakeClient struct {
	Response   json.RawMessage
	Err        error
	LastPrompt string
}

func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateReport(ctx context.Context, prompt string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.LastPrompt = prompt
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Response != nil {
		return f.Response, nil
	}
	obj := map[string]any{
		"summary": "Smooth trip with moderate engine load and stable consumption.",
		"suggestions": []map[string]any{
			{"timestamp": "00:00:01", "advice": "Keep accelerating gradually to hold RPM below 3000."},
			{"timestamp": "00:00:02", "advice": "Anticipate braking to avoid sharp deceleration."},
			{"timestamp": "00:00:03", "advice": "Maintain a steady cruising speed on open stretches."},
		},
		"general_advice": []string{
			"Check tire pressure monthly.",
			"Avoid idling for more than a minute.",
		},
		"eco_score":         78,
		"fuel_saved_liters": 0.6,
		"co2_avoided_kg":    1.4,
	}
	b, _ := json.Marshal(obj)
	return b, nil
}
