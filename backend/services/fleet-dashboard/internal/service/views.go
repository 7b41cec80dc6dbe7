package service

import (
	"fmt"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// SoCUnavailable is shown for vehicles that have never reported telemetry.
const SoCUnavailable = "N/A"

// ChartTimeLayout formats chart labels.
const ChartTimeLayout = "15:04:05"

// DashboardView is everything the dashboard page renders.
type DashboardView struct {
	TotalVehicles    int
	ActiveVehicles   int
	ChargingVehicles int
	AvgSoC           float64
	ActiveAlerts     int
	Vehicles         []VehicleRow
}

// VehicleRow pairs a vehicle with its latest SoC, if any.
type VehicleRow struct {
	models.Vehicle
	CurrentSoC *float64
}

// CurrentSoCLabel renders the latest SoC or SoCUnavailable.
func (r VehicleRow) CurrentSoCLabel() string {
	if r.CurrentSoC == nil {
		return SoCUnavailable
	}
	return fmt.Sprintf("%.1f", *r.CurrentSoC)
}

// ChartSeries is a chronological SoC series.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// VehicleDetailView is the vehicle page. Pack and Latest may be nil.
type VehicleDetailView struct {
	Vehicle models.Vehicle
	Pack    *models.BatteryPack
	Latest  *models.Telemetry
	Chart   ChartSeries
}

// LiveReading is one frame of the live feed.
type LiveReading struct {
	Timestamp   string   `json:"timestamp"`
	Label       string   `json:"label"`
	SoC         float64  `json:"soc"`
	Voltage     *float64 `json:"voltage,omitempty"`
	Current     *float64 `json:"current,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}
