package telemetry

import (
	"time"

	"github.com/google/uuid"
)

// Point is one telemetry sample reported by a vehicle. Metric fields are
// pointers so that an absent reading stays distinguishable from a zero one;
// aggregation and peak detection skip nil values instead of treating them
// as 0.
type Point struct {
	ID              uuid.UUID `json:"id,omitempty"`
	VehicleID       string    `json:"vehicle_id"`
	TripID          string    `json:"trip_id"`
	Timestamp       time.Time `json:"timestamp"`
	RPM             *int      `json:"rpm,omitempty"`
	Speed           *float64  `json:"speed,omitempty"`
	FuelConsumption *float64  `json:"fuel_consumption,omitempty"`
	EngineTemp      *float64  `json:"engine_temp,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
}
