// Package fleettest provides an in-memory fleet that satisfies the service
// layer's repository contracts, for handler and service tests.
package fleettest

import (
	"context"
	"sort"
	"sync"
	"time"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
	"fleetdash/backend/services/fleet-dashboard/internal/repository"
)

// Fleet holds rows in memory. Err, when set, is returned by every query.
type Fleet struct {
	mu       sync.Mutex
	users    []models.UserAccount
	vehicles []models.Vehicle
	packs    []models.BatteryPack
	readings []models.Telemetry
	sessions []models.ChargingSession
	alerts   []models.Alert
	nextID   int64

	Err error
}

// New returns an empty fleet.
func New() *Fleet { return &Fleet{} }

func (f *Fleet) id() int64 {
	f.nextID++
	return f.nextID
}

// AddUser stores an account.
func (f *Fleet) AddUser(u models.UserAccount) models.UserAccount {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.id()
	f.users = append(f.users, u)
	return u
}

// AddVehicle stores a vehicle.
func (f *Fleet) AddVehicle(v models.Vehicle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.LastUpdate.IsZero() {
		v.LastUpdate = time.Now().UTC()
	}
	f.vehicles = append(f.vehicles, v)
}

// AddPack stores a battery pack.
func (f *Fleet) AddPack(p models.BatteryPack) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.packs = append(f.packs, p)
}

// AddReading appends a telemetry row.
func (f *Fleet) AddReading(vehicleID string, ts time.Time, soc float64) models.Telemetry {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := models.Telemetry{ID: f.id(), VehicleID: vehicleID, Timestamp: ts, SoC: soc}
	f.readings = append(f.readings, t)
	return t
}

// AddSession stores a charging session.
func (f *Fleet) AddSession(s models.ChargingSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.id()
	f.sessions = append(f.sessions, s)
}

// AddAlert stores an alert.
func (f *Fleet) AddAlert(a models.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.id()
	f.alerts = append(f.alerts, a)
}

// Users returns the account repository view.
func (f *Fleet) Users() *Users { return &Users{f} }

// Vehicles returns the vehicle repository view.
func (f *Fleet) Vehicles() *Vehicles { return &Vehicles{f} }

// Telemetry returns the telemetry repository view.
func (f *Fleet) Telemetry() *Telemetry { return &Telemetry{f} }

// Packs returns the battery pack repository view.
func (f *Fleet) Packs() *Packs { return &Packs{f} }

// Sessions returns the charging session repository view.
func (f *Fleet) Sessions() *Sessions { return &Sessions{f} }

// Alerts returns the alert repository view.
func (f *Fleet) Alerts() *Alerts { return &Alerts{f} }

// Users implements service.UserRepository.
type Users struct{ f *Fleet }

// GetByUsername finds an account.
func (u *Users) GetByUsername(_ context.Context, username string) (*models.UserAccount, error) {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	if u.f.Err != nil {
		return nil, u.f.Err
	}
	for _, user := range u.f.users {
		if user.Username == username {
			out := user
			return &out, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// Vehicles implements service.VehicleReader.
type Vehicles struct{ f *Fleet }

// Get finds a vehicle.
func (v *Vehicles) Get(_ context.Context, id string) (*models.Vehicle, error) {
	v.f.mu.Lock()
	defer v.f.mu.Unlock()
	if v.f.Err != nil {
		return nil, v.f.Err
	}
	for _, vehicle := range v.f.vehicles {
		if vehicle.ID == id {
			out := vehicle
			return &out, nil
		}
	}
	return nil, repository.ErrVehicleNotFound
}

// List returns vehicles ordered by id.
func (v *Vehicles) List(_ context.Context) ([]models.Vehicle, error) {
	v.f.mu.Lock()
	defer v.f.mu.Unlock()
	if v.f.Err != nil {
		return nil, v.f.Err
	}
	out := append([]models.Vehicle(nil), v.f.vehicles...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Count returns the fleet size.
func (v *Vehicles) Count(_ context.Context) (int, error) {
	v.f.mu.Lock()
	defer v.f.mu.Unlock()
	if v.f.Err != nil {
		return 0, v.f.Err
	}
	return len(v.f.vehicles), nil
}

// CountByStatus counts vehicles in status.
func (v *Vehicles) CountByStatus(_ context.Context, status models.VehicleStatus) (int, error) {
	v.f.mu.Lock()
	defer v.f.mu.Unlock()
	if v.f.Err != nil {
		return 0, v.f.Err
	}
	n := 0
	for _, vehicle := range v.f.vehicles {
		if vehicle.Status == status {
			n++
		}
	}
	return n, nil
}

// Telemetry implements service.TelemetryReader with the same semantics as
// the SQL repository.
type Telemetry struct{ f *Fleet }

func (t *Telemetry) descending(vehicleID string) []models.Telemetry {
	var out []models.Telemetry
	for _, r := range t.f.readings {
		if r.VehicleID == vehicleID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// LatestForVehicle returns the newest reading.
func (t *Telemetry) LatestForVehicle(_ context.Context, vehicleID string) (*models.Telemetry, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if t.f.Err != nil {
		return nil, t.f.Err
	}
	rows := t.descending(vehicleID)
	if len(rows) == 0 {
		return nil, repository.ErrTelemetryNotFound
	}
	out := rows[0]
	return &out, nil
}

// RecentForVehicle returns the last limit readings, oldest first.
func (t *Telemetry) RecentForVehicle(_ context.Context, vehicleID string, limit int) ([]models.Telemetry, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if t.f.Err != nil {
		return nil, t.f.Err
	}
	rows := t.descending(vehicleID)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (t *Telemetry) maxTimes() map[string]time.Time {
	latest := map[string]time.Time{}
	for _, r := range t.f.readings {
		if cur, ok := latest[r.VehicleID]; !ok || r.Timestamp.After(cur) {
			latest[r.VehicleID] = r.Timestamp
		}
	}
	return latest
}

// LatestByVehicle maps vehicle id to its newest reading.
func (t *Telemetry) LatestByVehicle(_ context.Context) (map[string]models.Telemetry, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if t.f.Err != nil {
		return nil, t.f.Err
	}
	out := map[string]models.Telemetry{}
	for id := range t.maxTimes() {
		out[id] = t.descending(id)[0]
	}
	return out, nil
}

// FleetAverageSoC averages every row sitting at its vehicle's max timestamp.
func (t *Telemetry) FleetAverageSoC(_ context.Context) (float64, bool, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if t.f.Err != nil {
		return 0, false, t.f.Err
	}
	latest := t.maxTimes()
	var sum float64
	var n int
	for _, r := range t.f.readings {
		if r.Timestamp.Equal(latest[r.VehicleID]) {
			sum += r.SoC
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return sum / float64(n), true, nil
}

// Packs implements service.BatteryPackReader.
type Packs struct{ f *Fleet }

// GetByVehicle returns the vehicle's pack.
func (p *Packs) GetByVehicle(_ context.Context, vehicleID string) (*models.BatteryPack, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if p.f.Err != nil {
		return nil, p.f.Err
	}
	for _, pack := range p.f.packs {
		if pack.VehicleID == vehicleID {
			out := pack
			return &out, nil
		}
	}
	return nil, repository.ErrBatteryPackNotFound
}

// Sessions implements service.ChargingSessionLister.
type Sessions struct{ f *Fleet }

// ListAll returns sessions by start time, newest first.
func (s *Sessions) ListAll(_ context.Context) ([]models.ChargingSession, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	if s.f.Err != nil {
		return nil, s.f.Err
	}
	out := append([]models.ChargingSession(nil), s.f.sessions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

// Alerts implements service.AlertReader.
type Alerts struct{ f *Fleet }

// ListAll returns alerts by timestamp, newest first.
func (a *Alerts) ListAll(_ context.Context) ([]models.Alert, error) {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	if a.f.Err != nil {
		return nil, a.f.Err
	}
	out := append([]models.Alert(nil), a.f.alerts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// CountByStatus counts alerts in status.
func (a *Alerts) CountByStatus(_ context.Context, status models.AlertStatus) (int, error) {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	if a.f.Err != nil {
		return 0, a.f.Err
	}
	n := 0
	for _, alert := range a.f.alerts {
		if alert.Status == status {
			n++
		}
	}
	return n, nil
}
