package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fleetdash/backend/services/fleet-dashboard/internal/service"
)

const liveWriteWait = 5 * time.Second

// LiveSource yields the newest reading of a vehicle.
type LiveSource interface {
	VehicleExists(ctx context.Context, id string) (bool, error)
	LatestReading(ctx context.Context, vehicleID string) (service.LiveReading, bool, error)
}

// LiveHandler streams a vehicle's newest telemetry over a websocket. Each
// connection polls on its own ticker and ends with the request.
type LiveHandler struct {
	source   LiveSource
	interval time.Duration
	observer Observer
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewLiveHandler builds LiveHandler. A nil observer discards events.
func NewLiveHandler(source LiveSource, interval time.Duration, observer Observer, logger *zap.Logger) *LiveHandler {
	if observer == nil {
		observer = NopObserver{}
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &LiveHandler{
		source:   source,
		interval: interval,
		observer: observer,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeHTTP handles GET /vehicle/{id}/live.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "id")
	ok, err := h.source.VehicleExists(r.Context(), vehicleID)
	if err != nil {
		h.logger.Error("live feed lookup failed", zap.String("vehicle_id", vehicleID), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("vehicle_id", vehicleID), zap.Error(err))
		return
	}
	defer conn.Close()
	defer h.observer.LiveConnected()()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends data; reading only detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Debug("live feed opened", zap.String("vehicle_id", vehicleID))
	err = h.stream(ctx, conn, vehicleID)
	if err != nil && ctx.Err() == nil {
		h.logger.Warn("live feed stopped", zap.String("vehicle_id", vehicleID), zap.Error(err))
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(liveWriteWait))
	h.logger.Debug("live feed closed", zap.String("vehicle_id", vehicleID))
}

func (h *LiveHandler) stream(ctx context.Context, conn *websocket.Conn, vehicleID string) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last string
	for {
		reading, ok, err := h.source.LatestReading(ctx, vehicleID)
		if err != nil {
			return err
		}
		if ok && reading.Timestamp != last {
			last = reading.Timestamp
			if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(reading); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
