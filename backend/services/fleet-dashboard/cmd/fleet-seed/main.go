package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fleetdash/backend/libs/logging"
	"fleetdash/backend/services/fleet-dashboard/internal/config"
	"fleetdash/backend/services/fleet-dashboard/internal/db"
	"fleetdash/backend/services/fleet-dashboard/internal/password"
	"fleetdash/backend/services/fleet-dashboard/internal/seed"
)

func main() {
	adminPassword := flag.String("admin-password", "", "password for the admin account (default: seed.adminPassword / FLEET_SEED_ADMIN_PASSWORD)")
	randSeed := flag.Int64("rand-seed", 0, "random seed for generated data (0 = time based)")
	reset := flag.Bool("reset", false, "delete the demo vehicles and their data before seeding")
	flag.Parse()

	cfg, err := config.LoadSeed()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("fleet-seed")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	sqlDB, err := db.NewPostgres(ctx, cfg.DatabaseDSN(), cfg.Database.MaxOpenConns)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	pass := *adminPassword
	if pass == "" {
		pass = cfg.Seed.AdminPassword
	}
	if *randSeed == 0 {
		*randSeed = time.Now().UnixNano()
	}

	gen := seed.NewGenerator(sqlDB, password.NewBcryptHasher(0, false), rand.New(rand.NewSource(*randSeed)), time.Now, logger)
	if _, err := gen.Run(ctx, seed.Options{AdminPassword: pass, Reset: *reset}); err != nil {
		logger.Fatal("seed failed", zap.Error(err), zap.Int64("rand_seed", *randSeed))
	}
}
