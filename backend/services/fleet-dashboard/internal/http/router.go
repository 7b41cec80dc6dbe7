package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fleetdash/backend/services/fleet-dashboard/internal/http/handlers"
)

// Routes collects handler dependencies. Metrics, Observe and CSRF are
// optional.
type Routes struct {
	Auth    *handlers.AuthHandlers
	Fleet   *handlers.FleetHandlers
	Live    http.Handler
	Health  http.Handler
	Static  http.Handler
	Metrics http.Handler

	// Gate enforces the session on every non-exempt request.
	Gate func(http.Handler) http.Handler
	// Observe records request metrics; it needs the chi route context.
	Observe func(http.Handler) http.Handler
	// CSRF protects the login form.
	CSRF func(http.Handler) http.Handler
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(routes Routes) http.Handler {
	r := chi.NewRouter()
	if routes.Observe != nil {
		r.Use(routes.Observe)
	}
	r.Use(routes.Gate)

	r.NotFound(routes.Fleet.NotFound)

	r.Get("/health", routes.Health.ServeHTTP)
	if routes.Metrics != nil {
		r.Get("/metrics", routes.Metrics.ServeHTTP)
	}
	r.Handle("/static/*", routes.Static)

	r.Group(func(r chi.Router) {
		if routes.CSRF != nil {
			r.Use(routes.CSRF)
		}
		r.Get("/login", routes.Auth.LoginForm)
		r.Post("/login", routes.Auth.Login)
	})
	r.Get("/logout", routes.Auth.Logout)

	r.Get("/", routes.Fleet.Dashboard)
	r.Get("/dashboard", routes.Fleet.Dashboard)
	r.Get("/vehicle/{id}", routes.Fleet.VehicleDetail)
	r.Get("/vehicle/{id}/live", routes.Live.ServeHTTP)
	r.Get("/charging_history", routes.Fleet.ChargingHistory)
	r.Get("/alerts", routes.Fleet.Alerts)

	return r
}
