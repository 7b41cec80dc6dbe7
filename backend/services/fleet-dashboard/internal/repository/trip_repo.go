package repository

import (
	"context"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// TripRepository handles trip rows. No page reads trips yet.
type TripRepository struct {
	db DBTX
}

// NewTripRepository returns repository instance.
func NewTripRepository(db DBTX) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a trip.
func (r *TripRepository) Create(ctx context.Context, t *models.Trip) error {
	const query = `
		INSERT INTO trip (vehicle_id, start_time, end_time, distance_km, energy_used_kwh)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query, t.VehicleID, t.StartTime.UTC(), t.EndTime, t.DistanceKm, t.EnergyUsedKWh).Scan(&t.ID)
}
