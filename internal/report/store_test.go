package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDay_TruncatesToUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2026, 8, 31, 2, 30, 0, 0, loc) // Aug 30, 17:30 UTC

	day := Day(ts)
	require.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), day)
}

func TestMemoryRepository_SaveAndList(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := StoredReport{ID: uuid.New(), VehicleID: "V1", Score: 70, Date: Day(time.Now()), Analysis: []byte(`{"eco_score":70}`)}
	second := StoredReport{ID: uuid.New(), VehicleID: "V1", Score: 85, Date: Day(time.Now()), Analysis: []byte(`{"eco_score":85}`)}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, StoredReport{ID: uuid.New(), VehicleID: "V2", Score: 50}))

	reports, err := repo.ListByVehicle(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, first.ID, reports[0].ID)
	require.Equal(t, second.ID, reports[1].ID)

	// The returned slice is a copy; mutating it must not affect the store.
	reports[0].Score = 0
	again, err := repo.ListByVehicle(ctx, "V1")
	require.NoError(t, err)
	require.Equal(t, 70, again[0].Score)
}

func TestMemoryRepository_UnknownVehicle(t *testing.T) {
	repo := NewMemoryRepository()
	reports, err := repo.ListByVehicle(context.Background(), "ghost")
	require.NoError(t, err)
	require.Empty(t, reports)
}
