package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/csrf"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "fleetdash/backend/libs/redis"
	appconfig "fleetdash/backend/services/fleet-dashboard/internal/config"
	"fleetdash/backend/services/fleet-dashboard/internal/db"
	httpserver "fleetdash/backend/services/fleet-dashboard/internal/http"
	"fleetdash/backend/services/fleet-dashboard/internal/http/handlers"
	"fleetdash/backend/services/fleet-dashboard/internal/http/middleware"
	"fleetdash/backend/services/fleet-dashboard/internal/metrics"
	"fleetdash/backend/services/fleet-dashboard/internal/password"
	redisstore "fleetdash/backend/services/fleet-dashboard/internal/redis"
	"fleetdash/backend/services/fleet-dashboard/internal/repository"
	"fleetdash/backend/services/fleet-dashboard/internal/service"
	"fleetdash/backend/services/fleet-dashboard/internal/session"
	"fleetdash/backend/services/fleet-dashboard/internal/views"
)

// App wires dependencies for the fleet dashboard.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (_ *App, err error) {
	a := &App{logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.db, err = db.NewPostgres(ctx, cfg.DatabaseDSN(), cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, a.db); err != nil {
			return nil, err
		}
		logger.Info("schema up to date")
	}

	var store session.Store
	if cfg.Redis.Addr != "" {
		a.redis, err = libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = redisstore.NewSessionStore(a.redis)
		logger.Info("sessions stored in redis", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Auth.AllowPlaintextPasswords {
		logger.Warn("plaintext stored passwords are accepted; do not use outside demo environments")
	}
	hasher := password.NewBcryptHasher(0, cfg.Auth.AllowPlaintextPasswords)

	userRepo := repository.NewUserRepository(a.db)
	vehicleRepo := repository.NewVehicleRepository(a.db)
	telemetryRepo := repository.NewTelemetryRepository(a.db)
	packRepo := repository.NewBatteryPackRepository(a.db)
	sessionRepo := repository.NewChargingSessionRepository(a.db)
	alertRepo := repository.NewAlertRepository(a.db)

	var fallback service.Fallback
	if cfg.FallbackEnabled() {
		fallback = service.Fallback{Username: cfg.Auth.FallbackUsername, Password: cfg.Auth.FallbackPassword}
		logger.Warn("fallback login enabled; do not use outside demo environments", zap.String("username", fallback.Username))
	}
	authSvc := service.NewAuthService(userRepo, hasher, fallback, logger)
	fleetSvc := service.NewFleetService(vehicleRepo, telemetryRepo, packRepo, sessionRepo, alertRepo)

	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(session.NewTokenService(cfg.Auth.SessionSecret, cfg.SessionTTL()), store, cfg.HTTP.CookieSecure)

	var observer handlers.Observer = handlers.NopObserver{}
	routes := httpserver.Routes{
		Health: handlers.NewHealthHandler(a.db),
		Static: views.Static(),
		Gate:   middleware.RequireSession(sessions, logger),
	}
	if cfg.Metrics.Enabled {
		m := metrics.New()
		observer = m
		routes.Metrics = m.Handler()
		routes.Observe = m.Middleware
	}
	if cfg.HTTP.CSRFKey != "" {
		routes.CSRF = csrf.Protect([]byte(cfg.HTTP.CSRFKey),
			csrf.Secure(cfg.HTTP.CookieSecure),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.Warn("csrf check failed", zap.String("path", r.URL.Path), zap.Error(csrf.FailureReason(r)))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			})),
		)
	}
	routes.Auth = handlers.NewAuthHandlers(authSvc, sessions, renderer, observer, logger)
	routes.Fleet = handlers.NewFleetHandlers(fleetSvc, renderer, logger)
	routes.Live = handlers.NewLiveHandler(fleetSvc, cfg.LivePollInterval(), observer, logger)

	a.server = httpserver.NewServer(
		cfg.HTTPAddress(),
		httpserver.NewRouter(routes),
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)
	return a, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return errors.New("app: not initialised")
	}
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
