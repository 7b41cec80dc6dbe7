package repository

import (
	"context"
	"database/sql"
	"errors"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// BatteryPackRepository handles battery_pack rows.
type BatteryPackRepository struct {
	db DBTX
}

// NewBatteryPackRepository returns repository instance.
func NewBatteryPackRepository(db DBTX) *BatteryPackRepository {
	return &BatteryPackRepository{db: db}
}

// Create inserts a pack. The unique vehicle_id constraint rejects a second pack.
func (r *BatteryPackRepository) Create(ctx context.Context, p *models.BatteryPack) error {
	const query = `
		INSERT INTO battery_pack (id, vehicle_id, capacity_kwh)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.VehicleID, p.CapacityKWh)
	return err
}

// GetByVehicle returns the pack owned by a vehicle.
func (r *BatteryPackRepository) GetByVehicle(ctx context.Context, vehicleID string) (*models.BatteryPack, error) {
	const query = `
		SELECT id, vehicle_id, capacity_kwh
		FROM battery_pack
		WHERE vehicle_id = $1
	`
	var p models.BatteryPack
	if err := r.db.QueryRowContext(ctx, query, vehicleID).Scan(&p.ID, &p.VehicleID, &p.CapacityKWh); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBatteryPackNotFound
		}
		return nil, err
	}
	return &p, nil
}
