package ports

import (
	"context"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// LoginResult carries everything a handler needs to establish a logged-in
// client: the authoritative user row, the persisted session, and the encoded
// cookie claims.
type LoginResult struct {
	User    *domain.User
	Session *domain.Session
	Claims  *domain.SessionClaims
}

// TenantScope is the authoritative outcome of tenant resolution. TenantID ==
// "" with IsAdmin true means "unscoped, all tenants"; for non-admin roles
// TenantID is always the user's own clinic.
type TenantScope struct {
	TenantID string
	IsAdmin  bool
}

// Scoped reports whether queries must filter on TenantID.
func (s TenantScope) Scoped() bool {
	return s.TenantID != ""
}

type AuthService interface {
	// Login authenticates a normalized phone + password pair and creates
	// exactly one new session row.
	Login(ctx context.Context, phone, password string) (*LoginResult, error)

	// Logout deletes the session row for token. Deleting an unknown token is
	// not an error.
	Logout(ctx context.Context, token string) error

	// ResolveSession maps a raw "session" cookie value to the current user
	// row. Malformed input, a missing userId, or a vanished row all yield
	// (nil, nil): unauthenticated, never an error. The storage re-fetch is
	// mandatory — the cookie's cached role/clinic fields are never trusted.
	ResolveSession(ctx context.Context, cookieValue string) (*domain.User, error)

	// ResolveAuthorizedTenant derives the tenant scope for a request.
	// requestedID is honored only for the global admin role; tenant-scoped
	// roles always resolve to their own clinic.
	ResolveAuthorizedTenant(user *domain.User, requestedID string) (TenantScope, error)

	// RequestPasswordReset issues a short-lived magic-link token for the
	// account with the given phone and sends it over WhatsApp. Unknown
	// phones return domain.ErrUserNotFound.
	RequestPasswordReset(ctx context.Context, phone string) error

	// VerifyMagicLink exchanges a valid magic-link token for a fresh
	// session, without requiring a password.
	VerifyMagicLink(ctx context.Context, token string) (*LoginResult, error)

	// ResetPassword validates the magic-link token, stores the new password
	// hash, and logs the user in.
	ResetPassword(ctx context.Context, token, newPassword string) (*LoginResult, error)
}
