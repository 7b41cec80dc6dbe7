package models

import "time"

// ChargingStatus is the state of a charging session.
type ChargingStatus string

// Charging session statuses.
const (
	ChargingInProgress ChargingStatus = "CHARGING"
	ChargingCompleted  ChargingStatus = "COMPLETED"
)

// ChargingSession is a charger connection. EndTime and EnergyAddedKWh stay nil
// while the session is ongoing.
type ChargingSession struct {
	ID             int64          `db:"id" json:"id"`
	VehicleID      string         `db:"vehicle_id" json:"vehicle_id"`
	StartTime      time.Time      `db:"start_time" json:"start_time"`
	EndTime        *time.Time     `db:"end_time" json:"end_time,omitempty"`
	EnergyAddedKWh *float64       `db:"energy_added_kwh" json:"energy_added_kwh,omitempty"`
	ChargingType   string         `db:"charging_type" json:"charging_type"`
	Status         ChargingStatus `db:"status" json:"status"`
}

// Ongoing reports whether the session has no end time yet.
func (s ChargingSession) Ongoing() bool { return s.EndTime == nil }
