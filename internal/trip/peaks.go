package trip

import (
	"time"

	"ecodrive/internal/telemetry"
)

// Metric selects which telemetry reading a peak scan compares.
type Metric string

const (
	MetricRPM             Metric = "rpm"
	MetricFuelConsumption Metric = "fuel_consumption"
	MetricEngineTemp      Metric = "engine_temp"
)

// Fixed detection thresholds, one per scanned metric.
const (
	RPMThreshold         = 1000.0 // RPM
	ConsumptionThreshold = 2.0    // L/100km
	TemperatureThreshold = 5.0    // °C
)

// PeakEvent is one abrupt change between two chronologically adjacent
// samples. The timestamp is the current (second) point's; the delta keeps
// its sign.
type PeakEvent struct {
	Timestamp time.Time `json:"-"`
	Metric    Metric    `json:"metric"`
	Delta     float64   `json:"change"`
	Unit      string    `json:"unit"`
}

// Label maps a peak event to its presentation name. Labels are formatting
// metadata, not part of the stored event.
func (e PeakEvent) Label() string {
	switch e.Metric {
	case MetricRPM:
		if e.Delta > 0 {
			return "Acceleration peak"
		}
		return "Deceleration peak"
	case MetricFuelConsumption:
		if e.Delta > 0 {
			return "Consumption peak"
		}
		return "Consumption drop"
	case MetricEngineTemp:
		if e.Delta > 0 {
			return "Rapid temperature rise"
		}
		return "Rapid temperature drop"
	}
	return "Peak"
}

func (m Metric) value(p telemetry.Point) (float64, bool) {
	switch m {
	case MetricRPM:
		if p.RPM != nil {
			return float64(*p.RPM), true
		}
	case MetricFuelConsumption:
		if p.FuelConsumption != nil {
			return *p.FuelConsumption, true
		}
	case MetricEngineTemp:
		if p.EngineTemp != nil {
			return *p.EngineTemp, true
		}
	}
	return 0, false
}

// DetectPeaks scans consecutive point pairs left to right and emits an
// event wherever |current - previous| exceeds the threshold. Comparison is
// strictly adjacent: a missing value on either side suppresses that pair's
// comparison but the previous pointer still advances, so values are never
// compared across a gap.
func DetectPeaks(points []telemetry.Point, metric Metric, threshold float64, unit string) []PeakEvent {
	if len(points) < 2 {
		return nil
	}
	var events []PeakEvent
	prev, prevOK := metric.value(points[0])
	for _, p := range points[1:] {
		cur, curOK := metric.value(p)
		if prevOK && curOK {
			delta := cur - prev
			if delta > threshold || delta < -threshold {
				events = append(events, PeakEvent{
					Timestamp: p.Timestamp,
					Metric:    metric,
					Delta:     delta,
					Unit:      unit,
				})
			}
		}
		prev, prevOK = cur, curOK
	}
	return events
}

// CriticalEvents runs the three fixed peak scans and concatenates their
// results. Events are grouped per metric in scan order (RPM, consumption,
// temperature); the combined list is deliberately not re-sorted by time.
func CriticalEvents(points []telemetry.Point) []PeakEvent {
	scans := []struct {
		metric    Metric
		threshold float64
		unit      string
	}{
		{MetricRPM, RPMThreshold, "RPM"},
		{MetricFuelConsumption, ConsumptionThreshold, "L/100km"},
		{MetricEngineTemp, TemperatureThreshold, "°C"},
	}
	var events []PeakEvent
	for _, s := range scans {
		events = append(events, DetectPeaks(points, s.metric, s.threshold, s.unit)...)
	}
	return events
}
