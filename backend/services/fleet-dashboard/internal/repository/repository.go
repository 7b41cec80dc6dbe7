package repository

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrUserNotFound represents a missing user_account row.
	ErrUserNotFound = errors.New("user not found")
	// ErrVehicleNotFound represents a missing vehicle row.
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrBatteryPackNotFound is returned when a vehicle has no pack.
	ErrBatteryPackNotFound = errors.New("battery pack not found")
	// ErrTelemetryNotFound is returned when a vehicle has no readings.
	ErrTelemetryNotFound = errors.New("telemetry not found")
	// ErrInvalidVehicleStatus is returned before writing an unknown status.
	ErrInvalidVehicleStatus = errors.New("invalid vehicle status")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func countRows(ctx context.Context, db DBTX, query string, args ...interface{}) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
