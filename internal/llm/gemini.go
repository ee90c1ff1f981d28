package llm

import (
	"context"
	"encoding/json"
	"fmt"

	genai "google.golang.org/genai"
)

const systemInstruction = "You are an expert in automotive telemetry data analysis. " +
	"Analyze the trip, provide a summary, suggestions, general advice, " +
	"and calculate an ecological score (eco_score) between 0 and 100, " +
	"where 100 is highly ecological and 0 is not ecological at all. " +
	"Also, estimate the fuel saved in liters (fuel_saved_liters) and CO2 emissions " +
	"avoided in kilograms (co2_avoided_kg) compared to a less ecological driving " +
	"style for the same trip. If the driving was not ecological, these values can " +
	"be 0 or negative."

// GeminiClient is a thin wrapper around the official genai client. It
// invokes the report function in forced function-calling mode so the model
// may only answer through the declared schema.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateReport sends the prompt and returns the arguments of the
// report_trip_analysis call as raw JSON. It fails fast: no payload or a
// mismatched function name is an error, never a retry.
func (g *GeminiClient) GenerateReport(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Tools: []*genai.Tool{
				{FunctionDeclarations: []*genai.FunctionDeclaration{reportFunction()}},
			},
			ToolConfig: &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{
					Mode:                 genai.FunctionCallingConfigModeAny,
					AllowedFunctionNames: []string{ReportFunctionName},
				},
			},
		},
	)
	if err != nil {
		return nil, err
	}

	calls := resp.FunctionCalls()
	if len(calls) == 0 {
		return nil, ErrNoFunctionCall
	}
	call := calls[0]
	if call.Name != ReportFunctionName {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrFunctionMismatch, call.Name, ReportFunctionName)
	}

	raw, err := json.Marshal(call.Args)
	if err != nil {
		return nil, fmt.Errorf("llm: encode function arguments: %w", err)
	}
	return raw, nil
}

// reportFunction declares the rich report schema. The required list matches
// the response validator; the two savings estimates are nullable.
func reportFunction() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        ReportFunctionName,
		Description: "Return summary, suggestions, general advice, eco_score, fuel_saved_liters, and co2_avoided_kg",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary": {Type: genai.TypeString},
				"suggestions": {
					Type:     genai.TypeArray,
					MinItems: genai.Ptr[int64](3),
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"timestamp": {Type: genai.TypeString},
							"advice":    {Type: genai.TypeString},
						},
						Required: []string{"timestamp", "advice"},
					},
				},
				"general_advice": {
					Type:     genai.TypeArray,
					MinItems: genai.Ptr[int64](1),
					Items:    &genai.Schema{Type: genai.TypeString},
				},
				"eco_score": {
					Type:        genai.TypeInteger,
					Minimum:     genai.Ptr(0.0),
					Maximum:     genai.Ptr(100.0),
					Description: "Ecological score of the trip, from 0 (not ecological) to 100 (highly ecological).",
				},
				"fuel_saved_liters": {
					Type:        genai.TypeNumber,
					Nullable:    genai.Ptr(true),
					Description: "Estimated fuel saved in liters compared to a less ecological driving style for this trip.",
				},
				"co2_avoided_kg": {
					Type:        genai.TypeNumber,
					Nullable:    genai.Ptr(true),
					Description: "Estimated CO2 emissions avoided in kilograms compared to a less ecological driving style for this trip.",
				},
			},
			Required: []string{"summary", "suggestions", "general_advice", "eco_score", "fuel_saved_liters", "co2_avoided_kg"},
		},
	}
}
