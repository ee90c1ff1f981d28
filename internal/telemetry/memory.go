package telemetry

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps points in memory, grouped by trip. Used when no
// database is configured and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	byTrip map[string][]Point
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byTrip: make(map[string][]Point)}
}

func (s *MemoryStore) Insert(_ context.Context, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		s.byTrip[p.TripID] = append(s.byTrip[p.TripID], p)
	}
	return nil
}

func (s *MemoryStore) FetchTrip(_ context.Context, tripID string) ([]Point, error) {
	s.mu.RLock()
	stored := s.byTrip[tripID]
	points := make([]Point, len(stored))
	copy(points, stored)
	s.mu.RUnlock()

	if len(points) == 0 {
		return nil, ErrTripNotFound
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points, nil
}
