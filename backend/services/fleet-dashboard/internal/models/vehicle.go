package models

import "time"

// VehicleStatus is the operating state of a vehicle.
type VehicleStatus string

// Vehicle statuses.
const (
	VehicleActive   VehicleStatus = "ACTIVE"
	VehicleCharging VehicleStatus = "CHARGING"
	VehicleInactive VehicleStatus = "INACTIVE"
)

// Valid reports whether s is one of the known statuses.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleActive, VehicleCharging, VehicleInactive:
		return true
	}
	return false
}

// Vehicle is the root of the fleet aggregate. Deleting it deletes its pack,
// telemetry, charging sessions, trips and alerts.
type Vehicle struct {
	ID         string        `db:"id" json:"id"`
	DriverName string        `db:"driver_name" json:"driver_name"`
	Status     VehicleStatus `db:"status" json:"status"`
	LastUpdate time.Time     `db:"last_update" json:"last_update"`
}

// BatteryPack belongs to exactly one vehicle.
type BatteryPack struct {
	ID          string  `db:"id" json:"id"`
	VehicleID   string  `db:"vehicle_id" json:"vehicle_id"`
	CapacityKWh float64 `db:"capacity_kwh" json:"capacity_kwh"`
}
