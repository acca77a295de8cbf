package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrSessionExpired = errors.New("session expired")
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// Session is a server-persisted login record. Expiry is absolute from
// creation; there is no renewal. Expired rows are treated as invalid lazily
// at check time and are never proactively purged. A user may hold any number
// of concurrent sessions.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at now. Plain
// timestamp compare, no clock-skew tolerance.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionClaims is the denormalized blob carried in the "session" cookie. It
// exists so the route guard can make page-routing decisions without a storage
// round-trip. It is a cache, never an authorization source: any data-scoping
// decision must re-fetch the user row, since the cookie goes stale when an
// admin reassigns a clinic or changes a role server-side.
type SessionClaims struct {
	UserID   string    `json:"userId"`
	Role     string    `json:"role"`
	ClinicID string    `json:"clinicId,omitempty"`
	Token    string    `json:"token"`
	Expires  time.Time `json:"expires"`
}

// ParseSessionClaims decodes a raw "session" cookie value: base64url around
// a JSON blob, since raw JSON carries quote bytes that net/http strips from
// cookie values. A malformed blob or one with no userId yields (nil, false)
// — indistinguishable from unauthenticated by design, never an error.
func ParseSessionClaims(raw string) (*SessionClaims, bool) {
	if raw == "" {
		return nil, false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, false
	}
	var c SessionClaims
	if err := json.Unmarshal(decoded, &c); err != nil {
		return nil, false
	}
	if c.UserID == "" {
		return nil, false
	}
	return &c, true
}

// Expired reports whether the cookie's embedded expiry is in the past.
func (c *SessionClaims) Expired(now time.Time) bool {
	return now.After(c.Expires)
}

// Encode renders the claims as a base64url-wrapped JSON cookie payload.
func (c *SessionClaims) Encode() string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}
