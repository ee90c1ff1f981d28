package trip

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"ecodrive/internal/telemetry"
)

// ErrEmptyTrip is returned by Aggregate when the point sequence is empty.
// Callers detect the trip-not-found case upstream; an empty slice reaching
// the aggregator is a contract violation on their side.
var ErrEmptyTrip = errors.New("trip: no telemetry points")

// Stats is the per-trip aggregate snapshot fed to the analysis prompt.
// Means are computed over present values only (absent readings are excluded
// from both numerator and denominator) and rounded to one decimal for
// presentation.
type Stats struct {
	TripID         string      `json:"trip_id"`
	AvgSpeed       float64     `json:"avg_speed"`
	MaxRPM         int         `json:"max_rpm"`
	AvgTemp        float64     `json:"avg_temp"`
	AvgConsumption float64     `json:"avg_consumption"`
	Events         []PeakEvent `json:"critical_events"`
}

// Aggregate reduces a trip's point sequence to scalar aggregates. It does
// not detect peaks; see CriticalEvents.
func Aggregate(points []telemetry.Point) (Stats, error) {
	if len(points) == 0 {
		return Stats{}, ErrEmptyTrip
	}

	maxRPM := 0
	for _, p := range points {
		if p.RPM != nil && *p.RPM > maxRPM {
			maxRPM = *p.RPM
		}
	}

	return Stats{
		TripID:         points[0].TripID,
		AvgSpeed:       round1(presentMean(points, func(p telemetry.Point) *float64 { return p.Speed })),
		MaxRPM:         maxRPM,
		AvgTemp:        round1(presentMean(points, func(p telemetry.Point) *float64 { return p.EngineTemp })),
		AvgConsumption: round1(presentMean(points, func(p telemetry.Point) *float64 { return p.FuelConsumption })),
	}, nil
}

func presentMean(points []telemetry.Point, value func(telemetry.Point) *float64) float64 {
	vals := make([]float64, 0, len(points))
	for _, p := range points {
		if v := value(p); v != nil {
			vals = append(vals, *v)
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
