package telemetry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const telemetrySchema = `
CREATE TABLE IF NOT EXISTS telemetry_data (
	id UUID PRIMARY KEY,
	vehicle_id TEXT NOT NULL,
	trip_id TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL,
	rpm INTEGER,
	speed DOUBLE PRECISION,
	fuel_consumption DOUBLE PRECISION,
	engine_temp DOUBLE PRECISION,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_trip_timestamp ON telemetry_data (trip_id, timestamp);
`

// PostgresStore stores telemetry points in the telemetry_data table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, telemetrySchema); err != nil {
		return nil, fmt.Errorf("telemetry: ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, points []Point) error {
	batch := &pgx.Batch{}
	for _, p := range points {
		id := p.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(`INSERT INTO telemetry_data
			(id, vehicle_id, trip_id, timestamp, rpm, speed, fuel_consumption, engine_temp, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			id, p.VehicleID, p.TripID, p.Timestamp,
			p.RPM, p.Speed, p.FuelConsumption, p.EngineTemp, p.Latitude, p.Longitude)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range points {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("telemetry: insert: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) FetchTrip(ctx context.Context, tripID string) ([]Point, error) {
	rows, err := s.pool.Query(ctx, `SELECT
			id, vehicle_id, trip_id, timestamp, rpm, speed, fuel_consumption, engine_temp, latitude, longitude
		FROM telemetry_data WHERE trip_id = $1 ORDER BY timestamp`, tripID)
	if err != nil {
		return nil, fmt.Errorf("telemetry: fetch trip %s: %w", tripID, err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.ID, &p.VehicleID, &p.TripID, &p.Timestamp,
			&p.RPM, &p.Speed, &p.FuelConsumption, &p.EngineTemp, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("telemetry: scan point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrTripNotFound
	}
	return points, nil
}
