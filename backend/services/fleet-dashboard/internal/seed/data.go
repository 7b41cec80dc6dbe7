package seed

import (
	"math/rand"
	"strings"
	"time"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// AdminUsername is the account the generator creates.
const AdminUsername = "admin"

// Series shape.
const (
	SeriesPoints = 20
	SeriesStep   = 5 * time.Minute
)

// VehicleSpec describes one demo vehicle.
type VehicleSpec struct {
	ID         string
	DriverName string
	Status     models.VehicleStatus
}

// DemoFleet is the fixed set of demo vehicles.
var DemoFleet = []VehicleSpec{
	{ID: "EV-1001", DriverName: "Alice Smith", Status: models.VehicleActive},
	{ID: "EV-1002", DriverName: "Bob Jones", Status: models.VehicleCharging},
	{ID: "EV-1003", DriverName: "Charlie Brown", Status: models.VehicleInactive},
}

// PackCapacities are the pack sizes a demo vehicle may get, in kWh.
var PackCapacities = []float64{60, 75, 100}

// ChargingTypes are the charger kinds used for completed sessions.
var ChargingTypes = []string{"Level 2", "DCFC", "Level 1"}

func uniform(rnd *rand.Rand, lo, hi float64) float64 {
	return lo + rnd.Float64()*(hi-lo)
}

// Pack returns the battery pack for a demo vehicle: BP-<digits of the id>.
func Pack(rnd *rand.Rand, vehicleID string) models.BatteryPack {
	return models.BatteryPack{
		ID:          "BP-" + strings.TrimPrefix(vehicleID, "EV-"),
		VehicleID:   vehicleID,
		CapacityKWh: PackCapacities[rnd.Intn(len(PackCapacities))],
	}
}

// Series returns SeriesPoints readings ending one step before now, oldest
// first. Charging vehicles start at 40% and climb; the rest start anywhere in
// [20,90] and drain. SoC is clamped into [0,100].
func Series(rnd *rand.Rand, vehicleID string, status models.VehicleStatus, now time.Time) []models.Telemetry {
	base := uniform(rnd, 20, 90)
	if status == models.VehicleCharging {
		base = 40
	}

	out := make([]models.Telemetry, 0, SeriesPoints)
	for i := 0; i < SeriesPoints; i++ {
		var delta float64
		if status == models.VehicleCharging {
			delta = float64(i) * uniform(rnd, 1, 3)
		} else {
			delta = -float64(i) * uniform(rnd, 0.5, 4)
		}

		voltage := 350 + uniform(rnd, -10, 10)
		var current float64
		switch status {
		case models.VehicleActive:
			current = uniform(rnd, 5, 50)
		case models.VehicleCharging:
			current = uniform(rnd, -100, -50)
		}
		temperature := 25 + uniform(rnd, -5, 10)

		out = append(out, models.Telemetry{
			VehicleID:   vehicleID,
			Timestamp:   now.Add(-time.Duration(SeriesPoints-i) * SeriesStep),
			SoC:         models.ClampSoC(base + delta),
			PackVoltage: &voltage,
			PackCurrent: &current,
			Temperature: &temperature,
		})
	}
	return out
}

// Sessions returns the charging sessions for one vehicle: a completed one
// from yesterday half of the time, plus an open DCFC session for vehicles that
// are charging now.
func Sessions(rnd *rand.Rand, vehicleID string, status models.VehicleStatus, now time.Time) []models.ChargingSession {
	var out []models.ChargingSession
	if rnd.Intn(2) == 0 {
		start := now.Add(-24 * time.Hour)
		end := start.Add(2 * time.Hour)
		energy := uniform(rnd, 10, 40)
		out = append(out, models.ChargingSession{
			VehicleID:      vehicleID,
			StartTime:      start,
			EndTime:        &end,
			EnergyAddedKWh: &energy,
			ChargingType:   ChargingTypes[rnd.Intn(len(ChargingTypes))],
			Status:         models.ChargingCompleted,
		})
	}
	if status == models.VehicleCharging {
		out = append(out, models.ChargingSession{
			VehicleID:    vehicleID,
			StartTime:    now.Add(-time.Hour),
			ChargingType: "DCFC",
			Status:       models.ChargingInProgress,
		})
	}
	return out
}

// Alerts returns the two demo alerts for a vehicle.
func Alerts(vehicleID string, now time.Time) []models.Alert {
	return []models.Alert{
		{VehicleID: vehicleID, Timestamp: now.Add(-10 * time.Minute), AlertType: "Low Tire Pressure", Status: models.AlertActive},
		{VehicleID: vehicleID, Timestamp: now.Add(-48 * time.Hour), AlertType: "Battery Temperature High", Status: models.AlertResolved},
	}
}
