// Package seed fills an empty or partially seeded database with demo data.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
	"fleetdash/backend/services/fleet-dashboard/internal/password"
	"fleetdash/backend/services/fleet-dashboard/internal/repository"
)

// Options control one run.
type Options struct {
	// AdminPassword is hashed into the admin account when it is created.
	AdminPassword string
	// Reset deletes the demo vehicles, and everything hanging off them, first.
	Reset bool
}

// Result summarises what a run inserted.
type Result struct {
	AdminCreated  bool
	VehiclesAdded []string
	Readings      int
	Sessions      int
	Alerts        int
}

// Generator writes demo rows through the repositories. The admin account and
// vehicles are only created when missing; readings, sessions and alerts are
// appended on every run.
type Generator struct {
	db     *sql.DB
	hasher password.Hasher
	rnd    *rand.Rand
	now    func() time.Time
	logger *zap.Logger
}

// NewGenerator builds a Generator. A nil now means time.Now.
func NewGenerator(db *sql.DB, hasher password.Hasher, rnd *rand.Rand, now func() time.Time, logger *zap.Logger) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{db: db, hasher: hasher, rnd: rnd, now: now, logger: logger}
}

// Run seeds in two transactions: accounts and vehicles first, then the time
// series, sessions and alerts. A failure rolls back only the current phase.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}
	now := g.now().UTC()

	if err := g.inTx(ctx, func(tx *sql.Tx) error { return g.seedFleet(ctx, tx, opts, res) }); err != nil {
		return nil, fmt.Errorf("seed: vehicles: %w", err)
	}
	g.logger.Info("vehicles and packs added", zap.Strings("vehicles", res.VehiclesAdded), zap.Bool("admin_created", res.AdminCreated))

	if err := g.inTx(ctx, func(tx *sql.Tx) error { return g.seedActivity(ctx, tx, now, res) }); err != nil {
		return nil, fmt.Errorf("seed: activity: %w", err)
	}
	g.logger.Info("seed complete",
		zap.Int("readings", res.Readings),
		zap.Int("sessions", res.Sessions),
		zap.Int("alerts", res.Alerts),
	)
	return res, nil
}

func (g *Generator) seedFleet(ctx context.Context, tx *sql.Tx, opts Options, res *Result) error {
	users := repository.NewUserRepository(tx)
	vehicles := repository.NewVehicleRepository(tx)
	packs := repository.NewBatteryPackRepository(tx)

	if opts.Reset {
		for _, spec := range DemoFleet {
			err := vehicles.Delete(ctx, spec.ID)
			if err != nil && !errors.Is(err, repository.ErrVehicleNotFound) {
				return fmt.Errorf("reset %s: %w", spec.ID, err)
			}
		}
	}

	_, err := users.GetByUsername(ctx, AdminUsername)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		if opts.AdminPassword == "" {
			return errors.New("admin password is required to create the admin account")
		}
		hash, err := g.hasher.Hash(opts.AdminPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		if err := users.Create(ctx, &models.UserAccount{Username: AdminUsername, PasswordHash: hash, IsAdmin: true}); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		res.AdminCreated = true
	case err != nil:
		return fmt.Errorf("lookup admin: %w", err)
	}

	for _, spec := range DemoFleet {
		exists, err := vehicles.Exists(ctx, spec.ID)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", spec.ID, err)
		}
		if exists {
			continue
		}
		v := &models.Vehicle{ID: spec.ID, DriverName: spec.DriverName, Status: spec.Status}
		if err := vehicles.Create(ctx, v); err != nil {
			return fmt.Errorf("create %s: %w", spec.ID, err)
		}
		pack := Pack(g.rnd, spec.ID)
		if err := packs.Create(ctx, &pack); err != nil {
			return fmt.Errorf("create pack for %s: %w", spec.ID, err)
		}
		res.VehiclesAdded = append(res.VehiclesAdded, spec.ID)
	}
	return nil
}

func (g *Generator) seedActivity(ctx context.Context, tx *sql.Tx, now time.Time, res *Result) error {
	vehicles := repository.NewVehicleRepository(tx)
	telemetry := repository.NewTelemetryRepository(tx)
	sessions := repository.NewChargingSessionRepository(tx)
	alerts := repository.NewAlertRepository(tx)

	fleet, err := vehicles.List(ctx)
	if err != nil {
		return err
	}

	for _, v := range fleet {
		for _, t := range Series(g.rnd, v.ID, v.Status, now) {
			t := t
			if err := telemetry.Insert(ctx, &t); err != nil {
				return fmt.Errorf("telemetry for %s: %w", v.ID, err)
			}
			res.Readings++
		}
	}

	for _, v := range fleet {
		for _, s := range Sessions(g.rnd, v.ID, v.Status, now) {
			s := s
			if err := sessions.Create(ctx, &s); err != nil {
				return fmt.Errorf("charging session for %s: %w", v.ID, err)
			}
			res.Sessions++
		}
	}

	if len(fleet) > 0 {
		for _, a := range Alerts(fleet[0].ID, now) {
			a := a
			if err := alerts.Create(ctx, &a); err != nil {
				return fmt.Errorf("alert for %s: %w", fleet[0].ID, err)
			}
			res.Alerts++
		}
	}
	return nil
}

func (g *Generator) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			g.logger.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}
