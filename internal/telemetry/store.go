package telemetry

import (
	"context"
	"errors"
)

// ErrTripNotFound is returned by FetchTrip when no points exist for the
// requested trip.
var ErrTripNotFound = errors.New("telemetry: trip not found")

// Store persists telemetry points and serves them back per trip, ordered by
// timestamp.
type Store interface {
	Insert(ctx context.Context, points []Point) error
	FetchTrip(ctx context.Context, tripID string) ([]Point, error)
}
