// Package session holds the single authoritative access point for the bearer
// token. Every call site goes through Provider so the historical key-name
// tolerance lives in exactly one place.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// acceptedKeys lists token storage keys in priority order. Older portal
// builds persisted under "token" and "jwt"; reads honour all three, writes
// always use the first.
var acceptedKeys = []string{"accessToken", "token", "jwt"}

const expiryKey = "tokenExpiresAt"

// Session is the active sign-in state.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the session carries a known, passed expiry.
// A zero ExpiresAt means the expiry is unknown and the session is kept.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Store is durable client-side key-value storage.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Provider mediates all session reads and writes.
type Provider struct {
	store Store
}

// NewProvider wraps a Store.
func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

// Current returns the active session, if any. The first accepted key holding
// a token wins.
func (p *Provider) Current() (*Session, error) {
	for _, key := range acceptedKeys {
		token, ok, err := p.store.Get(key)
		if err != nil {
			return nil, err
		}
		if !ok || token == "" {
			continue
		}
		sess := &Session{Token: token}
		if raw, ok, err := p.store.Get(expiryKey); err == nil && ok {
			if ts, parseErr := time.Parse(time.RFC3339, raw); parseErr == nil {
				sess.ExpiresAt = ts
			}
		}
		return sess, nil
	}
	return nil, nil
}

// Token returns the bearer token or empty when signed out.
func (p *Provider) Token() string {
	sess, err := p.Current()
	if err != nil || sess == nil {
		return ""
	}
	return sess.Token
}

// Set persists a new session. Expiry is taken from the token's JWT exp claim
// when present; tokens without a readable claim are stored without expiry.
func (p *Provider) Set(token string) error {
	if err := p.store.Set(acceptedKeys[0], token); err != nil {
		return err
	}
	if exp, ok := tokenExpiry(token); ok {
		return p.store.Set(expiryKey, exp.Format(time.RFC3339))
	}
	return p.store.Delete(expiryKey)
}

// Clear removes the session under every accepted key.
func (p *Provider) Clear() error {
	for _, key := range acceptedKeys {
		if err := p.store.Delete(key); err != nil {
			return err
		}
	}
	return p.store.Delete(expiryKey)
}

// tokenExpiry reads the exp claim without verifying the signature. The
// client never validates tokens, it only schedules around their lifetime.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
