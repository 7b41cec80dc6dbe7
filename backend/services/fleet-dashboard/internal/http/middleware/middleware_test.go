package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"fleetdash/backend/services/fleet-dashboard/internal/session"
)

type stubLoader struct {
	id  session.Identity
	err error
}

func (s stubLoader) Load(*http.Request) (session.Identity, error) { return s.id, s.err }

func okHandler(seen *session.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := session.FromContext(r.Context()); ok && seen != nil {
			*seen = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestExempt(t *testing.T) {
	for path, want := range map[string]bool{
		"/login":            true,
		"/static/js/app.js": true,
		"/health":           true,
		"/metrics":          true,
		"/":                 false,
		"/dashboard":        false,
		"/vehicle/EV-1001":  false,
		"/logout":           false,
		"/loginx":           false,
		"/static":           false,
	} {
		assert.Equal(t, want, Exempt(path), path)
	}
}

func TestRequireSessionRedirectsAnonymous(t *testing.T) {
	gate := RequireSession(stubLoader{err: session.ErrNoSession}, zap.NewNop())(okHandler(nil))

	for _, path := range []string{"/", "/dashboard", "/alerts", "/vehicle/EV-1001", "/nope"} {
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, LoginPath, rec.Header().Get("Location"), path)
	}

	for _, path := range []string{"/login", "/static/css/app.css", "/health"} {
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRequireSessionPassesIdentity(t *testing.T) {
	want := session.Identity{SessionID: "sid", UserID: 7, Username: "ops"}
	var seen session.Identity
	gate := RequireSession(stubLoader{id: want}, zap.NewNop())(okHandler(&seen))

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, seen)
}

func TestRequireSessionStoreFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	gate := RequireSession(stubLoader{err: errors.New("redis: connection refused")}, zap.New(core))(okHandler(nil))

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("session lookup failed").Len())
}

func TestRequireSessionStoreFailureStillServesExemptPaths(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	gate := RequireSession(stubLoader{err: errors.New("redis: connection refused")}, zap.New(core))(okHandler(nil))

	for _, path := range []string{"/login", "/static/css/app.css", "/health"} {
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	assert.Equal(t, 3, logs.FilterMessage("session lookup failed").Len())
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
		RecoveryMiddleware(zap.New(core)), LoggingMiddleware(zap.New(core)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic serving request").Len())
}

func TestLoggingMiddlewareRecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := LoggingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/alerts", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusTeapot), entries[0].ContextMap()["status"])
	assert.Equal(t, "/alerts", entries[0].ContextMap()["path"])
}
