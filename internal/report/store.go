package report

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StoredReport is the persisted form of a completed analysis. History is
// append-only: re-analyzing a trip adds a new row for the vehicle, it never
// overwrites.
type StoredReport struct {
	ID        uuid.UUID `json:"id"`
	VehicleID string    `json:"vehicle_id"`
	Score     int       `json:"score"`
	Date      time.Time `json:"date"`
	Analysis  []byte    `json:"analysis"`
}

// Repository persists reports and lists a vehicle's history.
type Repository interface {
	Save(ctx context.Context, r StoredReport) error
	ListByVehicle(ctx context.Context, vehicleID string) ([]StoredReport, error)
}

// Day truncates a timestamp to the stored date-only granularity.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
