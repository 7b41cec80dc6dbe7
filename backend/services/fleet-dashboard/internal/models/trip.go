package models

import "time"

// Trip is a driven leg.
type Trip struct {
	ID            int64      `db:"id" json:"id"`
	VehicleID     string     `db:"vehicle_id" json:"vehicle_id"`
	StartTime     time.Time  `db:"start_time" json:"start_time"`
	EndTime       *time.Time `db:"end_time" json:"end_time,omitempty"`
	DistanceKm    *float64   `db:"distance_km" json:"distance_km,omitempty"`
	EnergyUsedKWh *float64   `db:"energy_used_kwh" json:"energy_used_kwh,omitempty"`
}
