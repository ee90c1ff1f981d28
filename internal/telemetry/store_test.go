package telemetry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func samplePoint(tripID string, ts time.Time) Point {
	rpm := 2100
	speed := 52.0
	return Point{
		VehicleID: "V1",
		TripID:    tripID,
		Timestamp: ts,
		RPM:       &rpm,
		Speed:     &speed,
	}
}

func TestMemoryStore_FetchSortsByTimestamp(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	// Inserted out of order on purpose.
	require.NoError(t, store.Insert(context.Background(), []Point{
		samplePoint("T1", base.Add(2*time.Second)),
		samplePoint("T1", base),
		samplePoint("T1", base.Add(time.Second)),
	}))

	points, err := store.FetchTrip(context.Background(), "T1")
	require.NoError(t, err)
	require.Len(t, points, 3)
	for i := 1; i < len(points); i++ {
		require.True(t, points[i-1].Timestamp.Before(points[i].Timestamp))
	}
}

func TestMemoryStore_UnknownTrip(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.FetchTrip(context.Background(), "nope")
	if !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

// countingStore wraps a Store and counts origin fetches, to observe
// read-through behavior.
type countingStore struct {
	Store
	fetches atomic.Int64
}

func (s *countingStore) FetchTrip(ctx context.Context, tripID string) ([]Point, error) {
	s.fetches.Add(1)
	return s.Store.FetchTrip(ctx, tripID)
}

func TestCachedStore_ReadThrough(t *testing.T) {
	origin := &countingStore{Store: NewMemoryStore()}
	cached := NewCachedStore(origin, 16, time.Minute)
	base := time.Now().UTC()

	require.NoError(t, cached.Insert(context.Background(), []Point{samplePoint("T1", base)}))

	first, err := cached.FetchTrip(context.Background(), "T1")
	require.NoError(t, err)
	second, err := cached.FetchTrip(context.Background(), "T1")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.EqualValues(t, 1, origin.fetches.Load())
}

func TestCachedStore_InsertInvalidates(t *testing.T) {
	origin := &countingStore{Store: NewMemoryStore()}
	cached := NewCachedStore(origin, 16, time.Minute)
	base := time.Now().UTC()

	require.NoError(t, cached.Insert(context.Background(), []Point{samplePoint("T1", base)}))
	points, err := cached.FetchTrip(context.Background(), "T1")
	require.NoError(t, err)
	require.Len(t, points, 1)

	// New points for the trip drop the cached sequence.
	require.NoError(t, cached.Insert(context.Background(), []Point{samplePoint("T1", base.Add(time.Second))}))
	points, err = cached.FetchTrip(context.Background(), "T1")
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.EqualValues(t, 2, origin.fetches.Load())
}

func TestCachedStore_MissesAreNotCached(t *testing.T) {
	origin := &countingStore{Store: NewMemoryStore()}
	cached := NewCachedStore(origin, 16, time.Minute)

	_, err := cached.FetchTrip(context.Background(), "T1")
	require.ErrorIs(t, err, ErrTripNotFound)

	require.NoError(t, cached.Insert(context.Background(), []Point{samplePoint("T1", time.Now().UTC())}))
	points, err := cached.FetchTrip(context.Background(), "T1")
	require.NoError(t, err)
	require.Len(t, points, 1)
}
