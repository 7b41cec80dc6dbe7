package repository

import (
	"context"
	"database/sql"
	"errors"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// latestPerVehicle selects, per vehicle, the max timestamp. It is joined back
// to telemetry on (vehicle_id, timestamp) by both the fleet average and the
// latest-per-vehicle lookup so the two always agree.
const latestPerVehicle = `
	SELECT vehicle_id, MAX("timestamp") AS max_time
	FROM telemetry
	GROUP BY vehicle_id
`

const telemetryColumns = `t.id, t.vehicle_id, t."timestamp", t.soc, t.pack_voltage, t.pack_current, t.temperature`

// TelemetryRepository reads and appends telemetry rows.
type TelemetryRepository struct {
	db DBTX
}

// NewTelemetryRepository returns repository instance.
func NewTelemetryRepository(db DBTX) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

// Insert appends one reading. SoC outside [0,100] is rejected by the schema.
func (r *TelemetryRepository) Insert(ctx context.Context, t *models.Telemetry) error {
	const query = `
		INSERT INTO telemetry (vehicle_id, "timestamp", soc, pack_voltage, pack_current, temperature)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		t.VehicleID,
		t.Timestamp.UTC(),
		t.SoC,
		t.PackVoltage,
		t.PackCurrent,
		t.Temperature,
	).Scan(&t.ID)
}

// LatestForVehicle returns the newest reading of one vehicle.
func (r *TelemetryRepository) LatestForVehicle(ctx context.Context, vehicleID string) (*models.Telemetry, error) {
	query := `
		SELECT ` + telemetryColumns + `
		FROM telemetry t
		WHERE t.vehicle_id = $1
		ORDER BY t."timestamp" DESC, t.id DESC
		LIMIT 1
	`
	t, err := scanTelemetry(r.db.QueryRowContext(ctx, query, vehicleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTelemetryNotFound
		}
		return nil, err
	}
	return t, nil
}

// RecentForVehicle returns the last limit samples by timestamp, oldest first.
// It is "last N samples", not a time window; fewer rows are returned when the
// vehicle has fewer.
func (r *TelemetryRepository) RecentForVehicle(ctx context.Context, vehicleID string, limit int) ([]models.Telemetry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + telemetryColumns + `
		FROM telemetry t
		WHERE t.vehicle_id = $1
		ORDER BY t."timestamp" DESC, t.id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, vehicleID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series, err := collectTelemetry(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}
	return series, nil
}

// LatestByVehicle returns every vehicle's newest reading keyed by vehicle id,
// in one query. Rows sharing the max timestamp resolve to the highest id.
func (r *TelemetryRepository) LatestByVehicle(ctx context.Context) (map[string]models.Telemetry, error) {
	query := `
		SELECT DISTINCT ON (t.vehicle_id) ` + telemetryColumns + `
		FROM telemetry t
		JOIN (` + latestPerVehicle + `) latest
		  ON t.vehicle_id = latest.vehicle_id AND t."timestamp" = latest.max_time
		ORDER BY t.vehicle_id, t.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series, err := collectTelemetry(rows)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]models.Telemetry, len(series))
	for _, t := range series {
		latest[t.VehicleID] = t
	}
	return latest, nil
}

// FleetAverageSoC averages the SoC of each vehicle's latest reading(s). ok is
// false when there is no telemetry at all.
func (r *TelemetryRepository) FleetAverageSoC(ctx context.Context) (avg float64, ok bool, err error) {
	query := `
		SELECT AVG(t.soc)
		FROM telemetry t
		JOIN (` + latestPerVehicle + `) latest
		  ON t.vehicle_id = latest.vehicle_id AND t."timestamp" = latest.max_time
	`
	var result sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query).Scan(&result); err != nil {
		return 0, false, err
	}
	return result.Float64, result.Valid, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTelemetry(row rowScanner) (*models.Telemetry, error) {
	var t models.Telemetry
	if err := row.Scan(&t.ID, &t.VehicleID, &t.Timestamp, &t.SoC, &t.PackVoltage, &t.PackCurrent, &t.Temperature); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTelemetry(rows *sql.Rows) ([]models.Telemetry, error) {
	var out []models.Telemetry
	for rows.Next() {
		t, err := scanTelemetry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
