package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// VehicleRepository handles the vehicle table.
type VehicleRepository struct {
	db DBTX
}

// NewVehicleRepository returns repository instance.
func NewVehicleRepository(db DBTX) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a vehicle. A zero LastUpdate lets the database default apply.
func (r *VehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	if !v.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidVehicleStatus, v.Status)
	}
	const query = `
		INSERT INTO vehicle (id, driver_name, status, last_update)
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
		RETURNING last_update
	`
	lastUpdate := sql.NullTime{Time: v.LastUpdate, Valid: !v.LastUpdate.IsZero()}
	return r.db.QueryRowContext(ctx, query, v.ID, v.DriverName, string(v.Status), lastUpdate).Scan(&v.LastUpdate)
}

// Get returns the vehicle with the given id.
func (r *VehicleRepository) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	const query = `
		SELECT id, COALESCE(driver_name, ''), status, last_update
		FROM vehicle
		WHERE id = $1
	`
	var v models.Vehicle
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.DriverName, &v.Status, &v.LastUpdate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Exists reports whether a vehicle id is already taken.
func (r *VehicleRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := countRows(ctx, r.db, `SELECT COUNT(*) FROM vehicle WHERE id = $1`, id)
	return n > 0, err
}

// List returns the whole fleet ordered by id.
func (r *VehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	const query = `
		SELECT id, COALESCE(driver_name, ''), status, last_update
		FROM vehicle
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.DriverName, &v.Status, &v.LastUpdate); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Count returns the fleet size.
func (r *VehicleRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM vehicle`)
}

// CountByStatus returns how many vehicles are in the given status.
func (r *VehicleRepository) CountByStatus(ctx context.Context, status models.VehicleStatus) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM vehicle WHERE status = $1`, string(status))
}

// Delete removes a vehicle; the schema cascades to all of its child rows.
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicle WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}
