package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"fleetdash/backend/services/fleet-dashboard/internal/session"
	"fleetdash/backend/services/fleet-dashboard/internal/views"
)

// Renderer renders a named page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, page views.Page) error
}

// Observer receives login and live-feed events for metrics.
type Observer interface {
	Login(result string)
	LiveConnected() func()
}

// NopObserver discards events.
type NopObserver struct{}

// Login implements Observer.
func (NopObserver) Login(string) {}

// LiveConnected implements Observer.
func (NopObserver) LiveConnected() func() { return func() {} }

func render(w http.ResponseWriter, r *http.Request, renderer Renderer, logger *zap.Logger, status int, name string, page views.Page) {
	if id, ok := session.FromContext(r.Context()); ok && page.Username == "" {
		page.Username = id.Username
	}
	if err := renderer.Render(w, status, name, page); err != nil {
		logger.Error("render failed", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func serverError(w http.ResponseWriter, r *http.Request, renderer Renderer, logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.String("path", r.URL.Path), zap.Error(err))
	render(w, r, renderer, logger, http.StatusInternalServerError, views.PageError, views.Page{Title: "Error"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
