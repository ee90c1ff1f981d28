package telemetry

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedStore is a read-through cache over a Store. Only raw point
// sequences are cached; derived stats and reports are always recomputed.
// Inserting points for a trip drops that trip's cached sequence.
type CachedStore struct {
	origin Store
	cache  *expirable.LRU[string, []Point]
}

func NewCachedStore(origin Store, maxTrips int, ttl time.Duration) *CachedStore {
	if maxTrips <= 0 {
		maxTrips = 256
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedStore{
		origin: origin,
		cache:  expirable.NewLRU[string, []Point](maxTrips, nil, ttl),
	}
}

func (s *CachedStore) Insert(ctx context.Context, points []Point) error {
	if err := s.origin.Insert(ctx, points); err != nil {
		return err
	}
	for _, p := range points {
		s.cache.Remove(p.TripID)
	}
	return nil
}

func (s *CachedStore) FetchTrip(ctx context.Context, tripID string) ([]Point, error) {
	if points, ok := s.cache.Get(tripID); ok {
		return points, nil
	}
	points, err := s.origin.FetchTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(tripID, points)
	return points, nil
}
