package report

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const reportSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id UUID PRIMARY KEY,
	vehicle_id TEXT NOT NULL,
	score INTEGER NOT NULL,
	date DATE NOT NULL,
	analysis JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_vehicle ON reports (vehicle_id);
`

// PostgresRepository stores reports in the reports table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepository, error) {
	if _, err := pool.Exec(ctx, reportSchema); err != nil {
		return nil, fmt.Errorf("report: ensure schema: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Save(ctx context.Context, rep StoredReport) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reports (id, vehicle_id, score, date, analysis) VALUES ($1, $2, $3, $4, $5)`,
		rep.ID, rep.VehicleID, rep.Score, rep.Date, rep.Analysis)
	if err != nil {
		return fmt.Errorf("report: save %s: %w", rep.ID, err)
	}
	return nil
}

func (r *PostgresRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]StoredReport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, vehicle_id, score, date, analysis FROM reports WHERE vehicle_id = $1 ORDER BY date, id`,
		vehicleID)
	if err != nil {
		return nil, fmt.Errorf("report: list for %s: %w", vehicleID, err)
	}
	defer rows.Close()

	var reports []StoredReport
	for rows.Next() {
		var rep StoredReport
		if err := rows.Scan(&rep.ID, &rep.VehicleID, &rep.Score, &rep.Date, &rep.Analysis); err != nil {
			return nil, fmt.Errorf("report: scan: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
