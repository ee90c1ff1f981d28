package report

import (
	"context"
	"sync"
)

// MemoryRepository keeps reports in memory, for tests and database-less
// runs.
type MemoryRepository struct {
	mu        sync.RWMutex
	byVehicle map[string][]StoredReport
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byVehicle: make(map[string][]StoredReport)}
}

func (r *MemoryRepository) Save(_ context.Context, rep StoredReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byVehicle[rep.VehicleID] = append(r.byVehicle[rep.VehicleID], rep)
	return nil
}

func (r *MemoryRepository) ListByVehicle(_ context.Context, vehicleID string) ([]StoredReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.byVehicle[vehicleID]
	out := make([]StoredReport, len(stored))
	copy(out, stored)
	return out, nil
}
