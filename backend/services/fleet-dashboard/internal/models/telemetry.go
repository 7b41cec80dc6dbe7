package models

import "time"

// SoC bounds, in percent.
const (
	MinSoC = 0.0
	MaxSoC = 100.0
)

// Telemetry is one timestamped reading for a vehicle. Rows are append-only.
type Telemetry struct {
	ID          int64     `db:"id" json:"id"`
	VehicleID   string    `db:"vehicle_id" json:"vehicle_id"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	SoC         float64   `db:"soc" json:"soc"`
	PackVoltage *float64  `db:"pack_voltage" json:"pack_voltage,omitempty"`
	PackCurrent *float64  `db:"pack_current" json:"pack_current,omitempty"`
	Temperature *float64  `db:"temperature" json:"temperature,omitempty"`
}

// ClampSoC limits v to [MinSoC, MaxSoC].
func ClampSoC(v float64) float64 {
	if v < MinSoC {
		return MinSoC
	}
	if v > MaxSoC {
		return MaxSoC
	}
	return v
}
