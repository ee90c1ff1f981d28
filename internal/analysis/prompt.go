package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"ecodrive/internal/trip"
)

// promptField describes one output field in the schema section of the
// prompt.
type promptField struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

var reportFields = []promptField{
	{Name: "summary", Type: "string", Required: true, Description: "Natural-language summary of the driving behavior."},
	{Name: "suggestions", Type: "[]{timestamp, advice}", Required: true, Description: "At least 3 timestamped improvement suggestions."},
	{Name: "general_advice", Type: "[]string", Required: false, Description: "General eco-driving advice, not tied to a timestamp."},
	{Name: "eco_score", Type: "integer", Required: true, Description: "Ecological score from 0 (not ecological) to 100 (highly ecological)."},
	{Name: "fuel_saved_liters", Type: "number|null", Required: true, Description: "Estimated fuel saved versus a less ecological driving style."},
	{Name: "co2_avoided_kg", Type: "number|null", Required: true, Description: "Estimated CO2 avoided versus a less ecological driving style."},
}

const exampleInput = `{
  "trip_id": "T1",
  "avg_speed": 72.3,
  "max_rpm": 4500,
  "avg_temp": 85.2,
  "avg_consumption": 6.8,
  "critical_events": [
    { "timestamp": "14:15:00", "metric": "rpm", "change": 1500, "unit": "RPM", "label": "Acceleration peak" }
  ]
}`

const exampleOutput = `{
  "summary": "Mostly steady driving with one hard acceleration mid-trip.",
  "suggestions": [
    { "timestamp": "14:15:00", "advice": "Accelerate more gradually to keep RPM below 4000." },
    { "timestamp": "14:15:00", "advice": "Shift up earlier when merging." },
    { "timestamp": "14:20:00", "advice": "Hold a constant speed on the highway section." }
  ],
  "general_advice": [ "Plan routes to avoid stop-and-go traffic." ],
  "eco_score": 71,
  "fuel_saved_liters": 0.4,
  "co2_avoided_kg": 0.9
}`

// promptEvent is the wire shape of a peak event inside the prompt payload.
// Timestamps are rendered time-of-day only; the label is attached here, at
// formatting time.
type promptEvent struct {
	Timestamp string  `json:"timestamp"`
	Metric    string  `json:"metric"`
	Change    float64 `json:"change"`
	Unit      string  `json:"unit"`
	Label     string  `json:"label"`
}

type promptStats struct {
	TripID         string        `json:"trip_id"`
	AvgSpeed       float64       `json:"avg_speed"`
	MaxRPM         int           `json:"max_rpm"`
	AvgTemp        float64       `json:"avg_temp"`
	AvgConsumption float64       `json:"avg_consumption"`
	CriticalEvents []promptEvent `json:"critical_events"`
}

// BuildPrompt renders the analysis request for one trip: schema
// description, one worked example, and the serialized stats. The output is
// a pure function of the stats; nothing time- or randomness-dependent is
// embedded.
func BuildPrompt(stats trip.Stats) (string, error) {
	if strings.TrimSpace(stats.TripID) == "" {
		return "", fmt.Errorf("analysis: trip id is empty")
	}

	events := make([]promptEvent, 0, len(stats.Events))
	for _, e := range stats.Events {
		events = append(events, promptEvent{
			Timestamp: e.Timestamp.Format("15:04:05"),
			Metric:    string(e.Metric),
			Change:    e.Delta,
			Unit:      e.Unit,
			Label:     e.Label(),
		})
	}
	input, err := json.MarshalIndent(promptStats{
		TripID:         stats.TripID,
		AvgSpeed:       stats.AvgSpeed,
		MaxRPM:         stats.MaxRPM,
		AvgTemp:        stats.AvgTemp,
		AvgConsumption: stats.AvgConsumption,
		CriticalEvents: events,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("analysis: encode stats: %w", err)
	}

	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", "Analyze the driving behavior of one vehicle trip from its telemetry aggregates and detected critical events.")
	writeSection(&buf, "INPUT", string(input))
	writeSection(&buf, "OUTPUT", formatFields(reportFields))
	writeSection(&buf, "RULES", formatList([]string{
		"Respond only through the report_trip_analysis function call.",
		"Give at least 3 suggestions, each tied to a timestamp from the input events when possible.",
		"Base the eco_score on engine load, consumption stability, and the number of critical events.",
	}))
	writeSection(&buf, "OUTPUT_FORMAT", "Arguments of the report_trip_analysis function, nothing else.")
	writeSection(&buf, "EXAMPLES", formatExample(exampleInput, exampleOutput))
	return strings.TrimSpace(buf.String()) + "\n", nil
}

func formatFields(fields []promptField) string {
	var b strings.Builder
	for _, f := range fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %s\n", f.Name, f.Type, req, f.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatExample(input, output string) string {
	var b strings.Builder
	b.WriteString("INPUT:\n")
	b.WriteString(input)
	b.WriteString("\nOUTPUT:\n")
	b.WriteString(output)
	return b.String()
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
