package repository

import (
	"context"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// ChargingSessionRepository handles charging_session rows.
type ChargingSessionRepository struct {
	db DBTX
}

// NewChargingSessionRepository returns repository instance.
func NewChargingSessionRepository(db DBTX) *ChargingSessionRepository {
	return &ChargingSessionRepository{db: db}
}

// Create inserts a session. Nil end time and energy are stored as NULL.
func (r *ChargingSessionRepository) Create(ctx context.Context, s *models.ChargingSession) error {
	const query = `
		INSERT INTO charging_session (vehicle_id, start_time, end_time, energy_added_kwh, charging_type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		s.VehicleID,
		s.StartTime.UTC(),
		s.EndTime,
		s.EnergyAddedKWh,
		s.ChargingType,
		string(s.Status),
	).Scan(&s.ID)
}

// ListAll returns every session, newest start first.
func (r *ChargingSessionRepository) ListAll(ctx context.Context) ([]models.ChargingSession, error) {
	const query = `
		SELECT id, vehicle_id, start_time, end_time, energy_added_kwh, COALESCE(charging_type, ''), status
		FROM charging_session
		ORDER BY start_time DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ChargingSession
	for rows.Next() {
		var s models.ChargingSession
		if err := rows.Scan(
			&s.ID,
			&s.VehicleID,
			&s.StartTime,
			&s.EndTime,
			&s.EnergyAddedKWh,
			&s.ChargingType,
			&s.Status,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
