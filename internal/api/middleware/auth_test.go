package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// stubAuth resolves every session to a fixed user.
type stubAuth struct {
	user     *domain.User
	resolved string
}

func (s *stubAuth) Login(ctx context.Context, phone, password string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuth) Logout(ctx context.Context, token string) error { return nil }

func (s *stubAuth) ResolveSession(ctx context.Context, cookieValue string) (*domain.User, error) {
	s.resolved = cookieValue
	return s.user, nil
}

func (s *stubAuth) ResolveAuthorizedTenant(user *domain.User, requestedID string) (ports.TenantScope, error) {
	if user == nil {
		return ports.TenantScope{}, domain.ErrUnauthorized
	}
	return ports.TenantScope{TenantID: user.ClinicIDValue()}, nil
}

func (s *stubAuth) RequestPasswordReset(ctx context.Context, phone string) error { return nil }

func (s *stubAuth) VerifyMagicLink(ctx context.Context, token string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidResetToken
}

func (s *stubAuth) ResetPassword(ctx context.Context, token, newPassword string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidResetToken
}

func authRequest(t *testing.T, auth ports.AuthService, cookie string) (*httptest.ResponseRecorder, *echo.Echo, error, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := Authenticate(auth)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	return rec, e, handler(c), reached
}

func validCookie(role, clinicID string) string {
	claims := domain.SessionClaims{
		UserID:   "u1",
		Role:     role,
		ClinicID: clinicID,
		Token:    "tok-1",
		Expires:  time.Now().Add(time.Hour),
	}
	return claims.Encode()
}

func TestAuthenticateSetsUserFromStorage(t *testing.T) {
	clinic := "c-fresh"
	auth := &stubAuth{user: &domain.User{ID: "u1", Role: domain.RoleDoctor, ClinicID: &clinic, Active: true}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	cookie := validCookie(domain.RoleDoctor, "c-stale")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(auth)(func(c echo.Context) error {
		user, ok := c.Get(ContextUser).(*domain.User)
		if !ok {
			t.Fatal("user not set in context")
		}
		// The storage row wins over the cookie's cached clinic.
		if user.ClinicIDValue() != "c-fresh" {
			t.Fatalf("expected storage clinic, got %s", user.ClinicIDValue())
		}
		if c.Get(ContextSessionToken) != "tok-1" {
			t.Fatal("session token not set in context")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if auth.resolved != cookie {
		t.Fatal("ResolveSession not called with raw cookie value")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticateMissingCookie(t *testing.T) {
	auth := &stubAuth{user: &domain.User{ID: "u1", Active: true}}
	_, _, err, reached := authRequest(t, auth, "")
	if reached {
		t.Fatal("next should not run")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthenticateExpiredCookie(t *testing.T) {
	auth := &stubAuth{user: &domain.User{ID: "u1", Active: true}}
	claims := domain.SessionClaims{UserID: "u1", Role: domain.RoleDoctor, Token: "tok", Expires: time.Now().Add(-time.Minute)}
	_, _, err, reached := authRequest(t, auth, claims.Encode())
	if reached {
		t.Fatal("next should not run")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	auth := &stubAuth{user: nil}
	_, _, err, reached := authRequest(t, auth, validCookie(domain.RoleDoctor, "c1"))
	if reached {
		t.Fatal("next should not run")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	auth := &stubAuth{user: &domain.User{ID: "u1", Role: domain.RoleDoctor, Active: false}}
	_, _, err, reached := authRequest(t, auth, validCookie(domain.RoleDoctor, "c1"))
	if reached {
		t.Fatal("next should not run")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
