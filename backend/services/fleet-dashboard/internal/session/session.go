package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie.
const CookieName = "fleet_session"

// ErrNoSession means the request carries no valid, unrevoked session.
var ErrNoSession = errors.New("session: not authenticated")

// Identity is what a session remembers about the logged-in user.
type Identity struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Admin     bool   `json:"admin"`
}

// Manager issues, reads and destroys session cookies.
type Manager struct {
	tokens *TokenService
	store  Store
	secure bool
}

// NewManager returns a Manager. A nil store means StatelessStore.
func NewManager(tokens *TokenService, store Store, secureCookie bool) *Manager {
	if store == nil {
		store = StatelessStore{}
	}
	return &Manager{tokens: tokens, store: store, secure: secureCookie}
}

// Start creates a new session for the user and sets the cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, userID int64, username string, admin bool) (Identity, error) {
	id := Identity{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Username:  username,
		Admin:     admin,
	}
	token, expires, err := m.tokens.Issue(id)
	if err != nil {
		return Identity{}, err
	}
	if err := m.store.Save(ctx, id, m.tokens.TTL()); err != nil {
		return Identity{}, err
	}
	http.SetCookie(w, m.cookie(token, expires))
	return id, nil
}

// Load returns the identity of the request's session. Store failures are
// returned as-is; everything else is ErrNoSession.
func (m *Manager) Load(r *http.Request) (Identity, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Identity{}, ErrNoSession
	}
	claims, err := m.tokens.Parse(c.Value)
	if err != nil {
		return Identity{}, ErrNoSession
	}
	ok, err := m.store.Exists(r.Context(), claims.SessionID)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, ErrNoSession
	}
	return Identity{
		SessionID: claims.SessionID,
		UserID:    claims.UserID,
		Username:  claims.Username,
		Admin:     claims.Admin,
	}, nil
}

// Destroy revokes the request's session, if any, and expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	var err error
	if c, cerr := r.Cookie(CookieName); cerr == nil && c.Value != "" {
		if claims, perr := m.tokens.Parse(c.Value); perr == nil {
			err = m.store.Delete(r.Context(), claims.SessionID)
		}
	}
	expired := m.cookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	return err
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext retrieves the identity stored by the auth gate.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
