package repository

import (
	"context"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// AlertRepository handles alert rows.
type AlertRepository struct {
	db DBTX
}

// NewAlertRepository returns repository instance.
func NewAlertRepository(db DBTX) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts an alert.
func (r *AlertRepository) Create(ctx context.Context, a *models.Alert) error {
	const query = `
		INSERT INTO alert (vehicle_id, "timestamp", alert_type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query, a.VehicleID, a.Timestamp.UTC(), a.AlertType, string(a.Status)).Scan(&a.ID)
}

// ListAll returns every alert, newest first.
func (r *AlertRepository) ListAll(ctx context.Context) ([]models.Alert, error) {
	const query = `
		SELECT id, vehicle_id, "timestamp", alert_type, status
		FROM alert
		ORDER BY "timestamp" DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.VehicleID, &a.Timestamp, &a.AlertType, &a.Status); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return alerts, nil
}

// CountByStatus returns how many alerts are in the given status.
func (r *AlertRepository) CountByStatus(ctx context.Context, status models.AlertStatus) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM alert WHERE status = $1`, string(status))
}
