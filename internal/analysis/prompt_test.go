package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ecodrive/internal/trip"
)

func promptStatsFixture() trip.Stats {
	return trip.Stats{
		TripID:         "T1",
		AvgSpeed:       72.3,
		MaxRPM:         4500,
		AvgTemp:        85.2,
		AvgConsumption: 6.8,
		Events: []trip.PeakEvent{
			{
				Timestamp: time.Date(2026, 8, 30, 14, 15, 0, 0, time.UTC),
				Metric:    trip.MetricRPM,
				Delta:     1500,
				Unit:      "RPM",
			},
		},
	}
}

func TestBuildPrompt_Sections(t *testing.T) {
	prompt, err := BuildPrompt(promptStatsFixture())
	require.NoError(t, err)

	for _, section := range []string{"[PURPOSE]", "[INPUT]", "[OUTPUT]", "[RULES]", "[OUTPUT_FORMAT]", "[EXAMPLES]"} {
		require.Contains(t, prompt, section)
	}
	require.Contains(t, prompt, `"trip_id": "T1"`)
	require.Contains(t, prompt, `"max_rpm": 4500`)
	require.Contains(t, prompt, `"timestamp": "14:15:00"`)
	require.Contains(t, prompt, `"label": "Acceleration peak"`)
	require.Contains(t, prompt, "report_trip_analysis")
	require.Contains(t, prompt, "eco_score")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	stats := promptStatsFixture()
	first, err := BuildPrompt(stats)
	require.NoError(t, err)
	second, err := BuildPrompt(stats)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuildPrompt_EmptyTripID(t *testing.T) {
	stats := promptStatsFixture()
	stats.TripID = "  "
	_, err := BuildPrompt(stats)
	require.Error(t, err)
}

func TestBuildPrompt_NoEvents(t *testing.T) {
	stats := promptStatsFixture()
	stats.Events = nil
	prompt, err := BuildPrompt(stats)
	require.NoError(t, err)
	// An event-free trip serializes an empty array, not a JSON null.
	require.Contains(t, prompt, `"critical_events": []`)
	require.False(t, strings.Contains(prompt, `"critical_events": null`))
}
