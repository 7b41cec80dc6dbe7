package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"fleetdash/backend/services/fleet-dashboard/internal/service"
	"fleetdash/backend/services/fleet-dashboard/internal/session"
	"fleetdash/backend/services/fleet-dashboard/internal/views"
)

// InvalidCredentialsMessage is flashed after a failed login.
const InvalidCredentialsMessage = "Invalid credentials. Please try again."

// Login results reported to the Observer.
const (
	LoginSuccess  = "success"
	LoginFallback = "fallback"
	LoginFailure  = "failure"
)

// Authenticator checks a username/password pair.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*service.Principal, error)
}

// SessionManager starts and ends browser sessions.
type SessionManager interface {
	Start(ctx context.Context, w http.ResponseWriter, userID int64, username string, admin bool) (session.Identity, error)
	Destroy(w http.ResponseWriter, r *http.Request) error
}

// AuthHandlers serves login and logout.
type AuthHandlers struct {
	auth     Authenticator
	sessions SessionManager
	renderer Renderer
	observer Observer
	logger   *zap.Logger
}

// NewAuthHandlers builds AuthHandlers. A nil observer discards events.
func NewAuthHandlers(auth Authenticator, sessions SessionManager, renderer Renderer, observer Observer, logger *zap.Logger) *AuthHandlers {
	if observer == nil {
		observer = NopObserver{}
	}
	return &AuthHandlers{auth: auth, sessions: sessions, renderer: renderer, observer: observer, logger: logger}
}

// LoginForm handles GET /login.
func (h *AuthHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "")
}

// Login handles POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, InvalidCredentialsMessage)
		return
	}

	principal, err := h.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.observer.Login(LoginFailure)
			h.renderForm(w, r, InvalidCredentialsMessage)
			return
		}
		serverError(w, r, h.renderer, h.logger, "login failed", err)
		return
	}

	if _, err := h.sessions.Start(r.Context(), w, principal.UserID, principal.Username, principal.Admin); err != nil {
		serverError(w, r, h.renderer, h.logger, "failed to start session", err)
		return
	}

	if principal.UserID == service.FallbackUserID {
		h.observer.Login(LoginFallback)
	} else {
		h.observer.Login(LoginSuccess)
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout handles GET /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		h.logger.Warn("failed to revoke session", zap.Error(err))
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandlers) renderForm(w http.ResponseWriter, r *http.Request, flash string) {
	render(w, r, h.renderer, h.logger, http.StatusOK, views.PageLogin, views.Page{
		Title:     "Login",
		Flash:     flash,
		CSRFField: csrf.TemplateField(r),
	})
}
