package service

import (
	"context"
	"errors"
	"math"
	"time"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
	"fleetdash/backend/services/fleet-dashboard/internal/repository"
)

// ChartPoints is how many recent samples the vehicle chart shows.
const ChartPoints = 20

// VehicleReader is the vehicle lookup contract.
type VehicleReader interface {
	Get(ctx context.Context, id string) (*models.Vehicle, error)
	List(ctx context.Context) ([]models.Vehicle, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status models.VehicleStatus) (int, error)
}

// TelemetryReader is the telemetry query contract.
type TelemetryReader interface {
	LatestForVehicle(ctx context.Context, vehicleID string) (*models.Telemetry, error)
	RecentForVehicle(ctx context.Context, vehicleID string, limit int) ([]models.Telemetry, error)
	LatestByVehicle(ctx context.Context) (map[string]models.Telemetry, error)
	FleetAverageSoC(ctx context.Context) (float64, bool, error)
}

// BatteryPackReader returns a vehicle's pack.
type BatteryPackReader interface {
	GetByVehicle(ctx context.Context, vehicleID string) (*models.BatteryPack, error)
}

// ChargingSessionLister lists charging sessions.
type ChargingSessionLister interface {
	ListAll(ctx context.Context) ([]models.ChargingSession, error)
}

// AlertReader lists and counts alerts.
type AlertReader interface {
	ListAll(ctx context.Context) ([]models.Alert, error)
	CountByStatus(ctx context.Context, status models.AlertStatus) (int, error)
}

// FleetService composes read-only query results into page view models.
type FleetService struct {
	vehicles  VehicleReader
	telemetry TelemetryReader
	packs     BatteryPackReader
	sessions  ChargingSessionLister
	alerts    AlertReader
}

// NewFleetService builds the read service.
func NewFleetService(vehicles VehicleReader, telemetry TelemetryReader, packs BatteryPackReader, sessions ChargingSessionLister, alerts AlertReader) *FleetService {
	return &FleetService{
		vehicles:  vehicles,
		telemetry: telemetry,
		packs:     packs,
		sessions:  sessions,
		alerts:    alerts,
	}
}

// Dashboard gathers fleet counts, the average SoC and the vehicle table.
func (s *FleetService) Dashboard(ctx context.Context) (*DashboardView, error) {
	var (
		view DashboardView
		err  error
	)
	if view.TotalVehicles, err = s.vehicles.Count(ctx); err != nil {
		return nil, err
	}
	if view.ActiveVehicles, err = s.vehicles.CountByStatus(ctx, models.VehicleActive); err != nil {
		return nil, err
	}
	if view.ChargingVehicles, err = s.vehicles.CountByStatus(ctx, models.VehicleCharging); err != nil {
		return nil, err
	}

	avg, ok, err := s.telemetry.FleetAverageSoC(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		view.AvgSoC = math.Round(avg*10) / 10
	}

	if view.ActiveAlerts, err = s.alerts.CountByStatus(ctx, models.AlertActive); err != nil {
		return nil, err
	}

	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.telemetry.LatestByVehicle(ctx)
	if err != nil {
		return nil, err
	}

	view.Vehicles = make([]VehicleRow, 0, len(vehicles))
	for _, v := range vehicles {
		row := VehicleRow{Vehicle: v}
		if t, found := latest[v.ID]; found {
			soc := t.SoC
			row.CurrentSoC = &soc
		}
		view.Vehicles = append(view.Vehicles, row)
	}
	return &view, nil
}

// VehicleDetail returns the vehicle page bundle, or repository.ErrVehicleNotFound.
func (s *FleetService) VehicleDetail(ctx context.Context, id string) (*VehicleDetailView, error) {
	vehicle, err := s.vehicles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &VehicleDetailView{Vehicle: *vehicle}

	pack, err := s.packs.GetByVehicle(ctx, id)
	switch {
	case err == nil:
		view.Pack = pack
	case !errors.Is(err, repository.ErrBatteryPackNotFound):
		return nil, err
	}

	latest, err := s.telemetry.LatestForVehicle(ctx, id)
	switch {
	case err == nil:
		view.Latest = latest
	case !errors.Is(err, repository.ErrTelemetryNotFound):
		return nil, err
	}

	recent, err := s.telemetry.RecentForVehicle(ctx, id, ChartPoints)
	if err != nil {
		return nil, err
	}
	view.Chart = ChartSeries{
		Labels: make([]string, 0, len(recent)),
		Data:   make([]float64, 0, len(recent)),
	}
	for _, t := range recent {
		view.Chart.Labels = append(view.Chart.Labels, t.Timestamp.UTC().Format(ChartTimeLayout))
		view.Chart.Data = append(view.Chart.Data, t.SoC)
	}
	return view, nil
}

// LatestReading returns the newest sample of a vehicle as a live-feed frame.
// ok is false when the vehicle has no telemetry yet.
func (s *FleetService) LatestReading(ctx context.Context, vehicleID string) (LiveReading, bool, error) {
	t, err := s.telemetry.LatestForVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrTelemetryNotFound) {
			return LiveReading{}, false, nil
		}
		return LiveReading{}, false, err
	}
	ts := t.Timestamp.UTC()
	return LiveReading{
		Timestamp:   ts.Format(time.RFC3339Nano),
		Label:       ts.Format(ChartTimeLayout),
		SoC:         t.SoC,
		Voltage:     t.PackVoltage,
		Current:     t.PackCurrent,
		Temperature: t.Temperature,
	}, true, nil
}

// VehicleExists reports whether id names a vehicle.
func (s *FleetService) VehicleExists(ctx context.Context, id string) (bool, error) {
	_, err := s.vehicles.Get(ctx, id)
	if errors.Is(err, repository.ErrVehicleNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ChargingHistory returns all sessions, newest first.
func (s *FleetService) ChargingHistory(ctx context.Context) ([]models.ChargingSession, error) {
	return s.sessions.ListAll(ctx)
}

// Alerts returns all alerts, newest first.
func (s *FleetService) Alerts(ctx context.Context) ([]models.Alert, error) {
	return s.alerts.ListAll(ctx)
}
