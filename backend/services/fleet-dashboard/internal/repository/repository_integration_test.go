package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fleetdb "fleetdash/backend/services/fleet-dashboard/internal/db"
	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// openTestDB connects to FLEET_TEST_POSTGRES_DSN, migrates and empties the
// schema. Tests using it are skipped when the variable is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("FLEET_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FLEET_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := fleetdb.NewPostgres(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, fleetdb.Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `TRUNCATE user_account, vehicle RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func addVehicle(t *testing.T, db *sql.DB, id string, status models.VehicleStatus) {
	t.Helper()
	require.NoError(t, NewVehicleRepository(db).Create(context.Background(), &models.Vehicle{ID: id, DriverName: "Driver " + id, Status: status}))
}

func addReading(t *testing.T, db *sql.DB, vehicleID string, ts time.Time, soc float64) {
	t.Helper()
	require.NoError(t, NewTelemetryRepository(db).Insert(context.Background(), &models.Telemetry{VehicleID: vehicleID, Timestamp: ts, SoC: soc}))
}

func TestFleetAverageUsesLatestReadingPerVehicle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewTelemetryRepository(db)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, ok, err := repo.FleetAverageSoC(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	addVehicle(t, db, "EV-1", models.VehicleActive)
	addVehicle(t, db, "EV-2", models.VehicleCharging)
	addVehicle(t, db, "EV-3", models.VehicleInactive)

	addReading(t, db, "EV-1", base, 10)
	addReading(t, db, "EV-1", base.Add(time.Minute), 80)
	addReading(t, db, "EV-2", base.Add(-time.Hour), 95)
	addReading(t, db, "EV-2", base, 40)

	avg, ok, err := repo.FleetAverageSoC(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 60.0, avg, 1e-9)

	latest, err := repo.LatestByVehicle(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, 80.0, latest["EV-1"].SoC)
	assert.Equal(t, 40.0, latest["EV-2"].SoC)
	_, has := latest["EV-3"]
	assert.False(t, has)
}

func TestRecentForVehicleIsChronologicalAndBounded(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewTelemetryRepository(db)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	addVehicle(t, db, "EV-1", models.VehicleActive)
	for i := 0; i < 25; i++ {
		addReading(t, db, "EV-1", base.Add(time.Duration(i)*5*time.Minute), float64(i))
	}

	series, err := repo.RecentForVehicle(ctx, "EV-1", 20)
	require.NoError(t, err)
	require.Len(t, series, 20)
	assert.Equal(t, 5.0, series[0].SoC)
	assert.Equal(t, 24.0, series[19].SoC)
	for i := 1; i < len(series); i++ {
		assert.False(t, series[i].Timestamp.Before(series[i-1].Timestamp))
	}

	latest, err := repo.LatestForVehicle(ctx, "EV-1")
	require.NoError(t, err)
	assert.Equal(t, 24.0, latest.SoC)

	_, err = repo.LatestForVehicle(ctx, "EV-404")
	assert.ErrorIs(t, err, ErrTelemetryNotFound)
}

func TestSoCOutsideBoundsIsRejected(t *testing.T) {
	db := openTestDB(t)
	addVehicle(t, db, "EV-1", models.VehicleActive)

	err := NewTelemetryRepository(db).Insert(context.Background(), &models.Telemetry{VehicleID: "EV-1", Timestamp: time.Now(), SoC: 101})
	assert.Error(t, err)
}

func TestDeletingVehicleCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	addVehicle(t, db, "EV-1", models.VehicleCharging)
	require.NoError(t, NewBatteryPackRepository(db).Create(ctx, &models.BatteryPack{ID: "BP-1", VehicleID: "EV-1", CapacityKWh: 75}))
	assert.Error(t, NewBatteryPackRepository(db).Create(ctx, &models.BatteryPack{ID: "BP-1b", VehicleID: "EV-1", CapacityKWh: 60}))
	addReading(t, db, "EV-1", now, 50)
	require.NoError(t, NewChargingSessionRepository(db).Create(ctx, &models.ChargingSession{VehicleID: "EV-1", StartTime: now, ChargingType: "DCFC", Status: models.ChargingInProgress}))
	require.NoError(t, NewTripRepository(db).Create(ctx, &models.Trip{VehicleID: "EV-1", StartTime: now}))
	require.NoError(t, NewAlertRepository(db).Create(ctx, &models.Alert{VehicleID: "EV-1", Timestamp: now, AlertType: "Low Tire Pressure", Status: models.AlertActive}))

	vehicles := NewVehicleRepository(db)
	require.NoError(t, vehicles.Delete(ctx, "EV-1"))
	assert.ErrorIs(t, vehicles.Delete(ctx, "EV-1"), ErrVehicleNotFound)

	for _, table := range []string{"battery_pack", "telemetry", "charging_session", "trip", "alert"} {
		n, err := countRows(ctx, db, `SELECT COUNT(*) FROM `+table)
		require.NoError(t, err)
		assert.Zero(t, n, table)
	}
}

func TestListingsAndCounts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	addVehicle(t, db, "EV-2", models.VehicleCharging)
	addVehicle(t, db, "EV-1", models.VehicleActive)

	vehicles := NewVehicleRepository(db)
	list, err := vehicles.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "EV-1", list[0].ID)

	charging, err := vehicles.CountByStatus(ctx, models.VehicleCharging)
	require.NoError(t, err)
	assert.Equal(t, 1, charging)

	_, err = vehicles.Get(ctx, "EV-404")
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	sessions := NewChargingSessionRepository(db)
	energy := 21.5
	end := now.Add(-22 * time.Hour)
	require.NoError(t, sessions.Create(ctx, &models.ChargingSession{VehicleID: "EV-1", StartTime: now.Add(-24 * time.Hour), EndTime: &end, EnergyAddedKWh: &energy, ChargingType: "Level 2", Status: models.ChargingCompleted}))
	require.NoError(t, sessions.Create(ctx, &models.ChargingSession{VehicleID: "EV-2", StartTime: now.Add(-time.Hour), ChargingType: "DCFC", Status: models.ChargingInProgress}))

	all, err := sessions.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "EV-2", all[0].VehicleID)
	assert.True(t, all[0].Ongoing())
	require.NotNil(t, all[1].EnergyAddedKWh)
	assert.Equal(t, energy, *all[1].EnergyAddedKWh)

	alerts := NewAlertRepository(db)
	require.NoError(t, alerts.Create(ctx, &models.Alert{VehicleID: "EV-1", Timestamp: now.Add(-48 * time.Hour), AlertType: "Battery Temperature High", Status: models.AlertResolved}))
	require.NoError(t, alerts.Create(ctx, &models.Alert{VehicleID: "EV-1", Timestamp: now.Add(-10 * time.Minute), AlertType: "Low Tire Pressure", Status: models.AlertActive}))

	active, err := alerts.CountByStatus(ctx, models.AlertActive)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	listed, err := alerts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Low Tire Pressure", listed[0].AlertType)

	users := NewUserRepository(db)
	require.NoError(t, users.Create(ctx, &models.UserAccount{Username: "ops", PasswordHash: "h", IsAdmin: true}))
	u, err := users.GetByUsername(ctx, "ops")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	_, err = users.GetByUsername(ctx, " ops ")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
