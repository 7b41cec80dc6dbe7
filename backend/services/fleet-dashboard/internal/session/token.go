package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload carried in the session cookie.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Admin     bool   `json:"admin"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with HS256.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns configured token service.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime given to new tokens.
func (t *TokenService) TTL() time.Duration { return t.ttl }

// Issue signs a token for id. User id 0 is valid: it marks the fallback admin.
func (t *TokenService) Issue(id Identity) (string, time.Time, error) {
	if id.SessionID == "" {
		return "", time.Time{}, errors.New("token: session id is required")
	}
	if id.Username == "" {
		return "", time.Time{}, errors.New("token: username is required")
	}

	now := t.now().UTC()
	expires := now.Add(t.ttl)
	claims := Claims{
		SessionID: id.SessionID,
		UserID:    id.UserID,
		Username:  id.Username,
		Admin:     id.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.SessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Parse verifies the signature and expiry of a token.
func (t *TokenService) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, errors.New("token: invalid claims")
	}
	return claims, nil
}
