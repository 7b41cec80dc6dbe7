package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"fleetdash/backend/services/fleet-dashboard/internal/session"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

var exemptPrefixes = []string{"/static/"}

var exemptPaths = map[string]bool{
	LoginPath:  true,
	"/health":  true,
	"/metrics": true,
}

// Exempt reports whether path may be served without a session.
func Exempt(path string) bool {
	if exemptPaths[path] {
		return true
	}
	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// SessionLoader reads the session of a request.
type SessionLoader interface {
	Load(r *http.Request) (session.Identity, error)
}

// RequireSession redirects requests without a valid session to the login
// page. Authenticated requests carry their identity in the context, exempt
// ones carry it too when a session happens to be present.
func RequireSession(sessions SessionLoader, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := sessions.Load(r)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), id)))
				return
			case !errors.Is(err, session.ErrNoSession):
				logger.Error("session lookup failed", zap.String("path", r.URL.Path), zap.Error(err))
				if !Exempt(r.URL.Path) {
					http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
					return
				}
			}

			if Exempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusFound)
		})
	}
}
