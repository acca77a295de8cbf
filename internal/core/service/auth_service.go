package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	defaultResetTTL   = time.Hour

	resetPurpose = "magic_link"
)

// AuthService implements login, logout, magic-link recovery, and the
// authorization resolver every tenant-scoped handler depends on.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionRepository
	messages   ports.MessageService
	jwtSecret  string
	sessionTTL time.Duration
	resetTTL   time.Duration
	verifyURL  string
	logger     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	messages ports.MessageService,
	jwtSecret, verifyURL string,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		messages:   messages,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		resetTTL:   defaultResetTTL,
		verifyURL:  verifyURL,
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, phone, password string) (*ports.LoginResult, error) {
	if phone == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	normalized, err := domain.NormalizePhone(phone)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}
	if user.PasswordHash == nil {
		// Account provisioned but password never set; the magic-link flow is
		// the only way in.
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("login")
	return result, nil
}

// Logout deletes the session row for token. Note the issued cookies stay
// structurally valid until their own expiry: the route guard's fast path
// never consults the session store, so a logged-out page cookie still passes
// coarse routing. Known gap, kept deliberately; see ResolveSession.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// ResolveSession maps a raw "session" cookie value to the current user row.
//
// The cookie's cached role/clinicId are deliberately discarded: the row
// re-fetch is what prevents stale-cookie privilege retention after an admin
// reassigns a clinic or changes a role. Session-row existence is NOT checked
// here — the cookie's userId alone authorizes the fetch until the cookie
// expires, so a logged-out-but-unexpired cookie still resolves. Matches the
// deployed behavior; flagged for review rather than silently tightened.
func (s *AuthService) ResolveSession(ctx context.Context, cookieValue string) (*domain.User, error) {
	claims, ok := domain.ParseSessionClaims(cookieValue)
	if !ok {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// ResolveAuthorizedTenant derives the tenant scope for a data query.
//
// The admin's requestedID is trusted: that role already has unrestricted
// capability, so the hint only narrows a query. Tenant-scoped roles can never
// pivot — requestedID is ignored outright and the user's own clinic wins.
func (s *AuthService) ResolveAuthorizedTenant(user *domain.User, requestedID string) (ports.TenantScope, error) {
	if user == nil {
		return ports.TenantScope{}, domain.ErrUnauthorized
	}

	if user.Role == domain.RoleAdmin {
		return ports.TenantScope{TenantID: requestedID, IsAdmin: true}, nil
	}

	if domain.TenantScoped(user.Role) {
		if user.ClinicID == nil || *user.ClinicID == "" {
			// Misprovisioned account, not an auth failure: distinct error so
			// operators can spot setup bugs.
			return ports.TenantScope{}, domain.ErrNoClinicAssigned
		}
		return ports.TenantScope{TenantID: *user.ClinicID}, nil
	}

	return ports.TenantScope{}, domain.ErrInvalidRole
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, phone string) error {
	normalized, err := domain.NormalizePhone(phone)
	if err != nil {
		return domain.ErrUserNotFound
	}

	user, err := s.users.FindByPhone(ctx, normalized)
	if err != nil {
		return err
	}
	if !user.Active {
		return domain.ErrUserInactive
	}

	token, err := s.signResetToken(user.ID)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}

	msg := domain.OutboundMessage{
		ID:        uuid.NewString(),
		ClinicID:  user.ClinicIDValue(),
		Channel:   domain.ChannelWhatsApp,
		Kind:      domain.KindMagicLink,
		To:        user.Phone,
		Body:      fmt.Sprintf("Sign in to your clinic account: %s?token=%s", s.verifyURL, token),
		Ref:       user.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("enqueue magic link: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("magic link issued")
	return nil
}

func (s *AuthService) VerifyMagicLink(ctx context.Context, token string) (*ports.LoginResult, error) {
	user, err := s.verifyResetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.createSession(ctx, user)
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (*ports.LoginResult, error) {
	if len(newPassword) < 8 {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.verifyResetToken(ctx, token)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return s.createSession(ctx, user)
}

// createSession persists one new session row and derives the cookie claims.
// Concurrent logins stack: there is no single-session-per-user invariant.
func (s *AuthService) createSession(ctx context.Context, user *domain.User) (*ports.LoginResult, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("last-login update failed")
	}

	claims := &domain.SessionClaims{
		UserID:   user.ID,
		Role:     user.Role,
		ClinicID: user.ClinicIDValue(),
		Token:    session.Token,
		Expires:  session.ExpiresAt,
	}

	return &ports.LoginResult{User: user, Session: session, Claims: claims}, nil
}

func (s *AuthService) signResetToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":     userID,
		"purpose": resetPurpose,
		"exp":     time.Now().Add(s.resetTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) verifyResetToken(ctx context.Context, token string) (*domain.User, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidResetToken
	}
	if purpose, _ := claims["purpose"].(string); purpose != resetPurpose {
		return nil, domain.ErrInvalidResetToken
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, domain.ErrInvalidResetToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}
