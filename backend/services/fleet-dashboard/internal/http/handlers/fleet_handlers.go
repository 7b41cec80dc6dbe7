package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
	"fleetdash/backend/services/fleet-dashboard/internal/repository"
	"fleetdash/backend/services/fleet-dashboard/internal/service"
	"fleetdash/backend/services/fleet-dashboard/internal/views"
)

// FleetReader is the read side the pages need.
type FleetReader interface {
	Dashboard(ctx context.Context) (*service.DashboardView, error)
	VehicleDetail(ctx context.Context, id string) (*service.VehicleDetailView, error)
	ChargingHistory(ctx context.Context) ([]models.ChargingSession, error)
	Alerts(ctx context.Context) ([]models.Alert, error)
}

// FleetHandlers serves the fleet pages.
type FleetHandlers struct {
	fleet    FleetReader
	renderer Renderer
	logger   *zap.Logger
}

// NewFleetHandlers builds FleetHandlers.
func NewFleetHandlers(fleet FleetReader, renderer Renderer, logger *zap.Logger) *FleetHandlers {
	return &FleetHandlers{fleet: fleet, renderer: renderer, logger: logger}
}

// Dashboard handles GET / and GET /dashboard.
func (h *FleetHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.fleet.Dashboard(r.Context())
	if err != nil {
		serverError(w, r, h.renderer, h.logger, "failed to load dashboard", err)
		return
	}
	render(w, r, h.renderer, h.logger, http.StatusOK, views.PageDashboard, views.Page{Title: "Dashboard", Data: view})
}

// VehicleDetail handles GET /vehicle/{id}.
func (h *FleetHandlers) VehicleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := h.fleet.VehicleDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			h.notFound(w, r, fmt.Sprintf("Vehicle %s was not found.", id))
			return
		}
		serverError(w, r, h.renderer, h.logger, "failed to load vehicle", err)
		return
	}
	render(w, r, h.renderer, h.logger, http.StatusOK, views.PageVehicleDetail, views.Page{Title: view.Vehicle.ID, Data: view})
}

// ChargingHistory handles GET /charging_history.
func (h *FleetHandlers) ChargingHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.fleet.ChargingHistory(r.Context())
	if err != nil {
		serverError(w, r, h.renderer, h.logger, "failed to load charging history", err)
		return
	}
	render(w, r, h.renderer, h.logger, http.StatusOK, views.PageChargingHistory, views.Page{Title: "Charging History", Data: sessions})
}

// Alerts handles GET /alerts.
func (h *FleetHandlers) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.fleet.Alerts(r.Context())
	if err != nil {
		serverError(w, r, h.renderer, h.logger, "failed to load alerts", err)
		return
	}
	render(w, r, h.renderer, h.logger, http.StatusOK, views.PageAlerts, views.Page{Title: "Alerts", Data: alerts})
}

// NotFound renders the 404 page for unknown routes.
func (h *FleetHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "")
}

func (h *FleetHandlers) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	var data any
	if msg != "" {
		data = msg
	}
	render(w, r, h.renderer, h.logger, http.StatusNotFound, views.PageNotFound, views.Page{Title: "Not found", Data: data})
}
