package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

func guardRequest(t *testing.T, path string, cookie string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := Guard()(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("guard error: %v", err)
	}
	return rec, reached
}

func claimsCookie(t *testing.T, role, clinicID string, expires time.Time) string {
	t.Helper()
	c := domain.SessionClaims{
		UserID:   "u1",
		Role:     role,
		ClinicID: clinicID,
		Token:    "tok-1",
		Expires:  expires,
	}
	return c.Encode()
}

func TestGuardNoCookieRedirectsToLogin(t *testing.T) {
	rec, reached := guardRequest(t, "/clinic/appointments", "")
	if reached {
		t.Fatal("next should not run")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie present, nothing should be cleared")
	}
}

func TestGuardMalformedCookieClearedAndRedirected(t *testing.T) {
	rec, reached := guardRequest(t, "/clinic", "{not json")
	if reached {
		t.Fatal("next should not run")
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d", rec.Code)
	}

	cleared := map[string]bool{}
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			cleared[ck.Name] = true
		}
	}
	for _, name := range []string{SessionCookie, SessionTokenCookie, UserCookie} {
		if !cleared[name] {
			t.Fatalf("cookie %s not cleared", name)
		}
	}
}

func TestGuardExpiredCookieRedirectsToLogin(t *testing.T) {
	cookie := claimsCookie(t, domain.RoleDoctor, "c1", time.Now().Add(-time.Hour))
	rec, reached := guardRequest(t, "/clinic", cookie)
	if reached {
		t.Fatal("next should not run")
	}
	if rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected /login, got %s", rec.Header().Get("Location"))
	}
}

func TestGuardTenantUserOutsideClinicRedirectsToClinic(t *testing.T) {
	cookie := claimsCookie(t, domain.RoleReceptionist, "c1", time.Now().Add(time.Hour))
	rec, reached := guardRequest(t, "/", cookie)
	if reached {
		t.Fatal("next should not run")
	}
	if rec.Header().Get("Location") != "/clinic" {
		t.Fatalf("expected /clinic, got %s", rec.Header().Get("Location"))
	}
}

func TestGuardAdminInsideClinicRedirectsHome(t *testing.T) {
	cookie := claimsCookie(t, domain.RoleAdmin, "", time.Now().Add(time.Hour))
	rec, reached := guardRequest(t, "/clinic/patients", cookie)
	if reached {
		t.Fatal("next should not run")
	}
	if rec.Header().Get("Location") != "/" {
		t.Fatalf("expected /, got %s", rec.Header().Get("Location"))
	}
}

func TestGuardNonAdminOnAdminPagesRedirectsHome(t *testing.T) {
	// A clinic user reaching /admin is first caught by the tenant rule and
	// sent to /clinic; only non-tenant non-admin roles would fall through to
	// the /admin check, and no such role exists today. Pin the tenant
	// behaviour.
	cookie := claimsCookie(t, domain.RoleClinic, "c1", time.Now().Add(time.Hour))
	rec, _ := guardRequest(t, "/admin/users", cookie)
	if rec.Header().Get("Location") != "/clinic" {
		t.Fatalf("expected /clinic, got %s", rec.Header().Get("Location"))
	}
}

func TestGuardValidTenantUserPassesOnClinicPages(t *testing.T) {
	cookie := claimsCookie(t, domain.RoleDoctor, "c1", time.Now().Add(time.Hour))
	rec, reached := guardRequest(t, "/clinic/appointments", cookie)
	if !reached {
		t.Fatal("next should run")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuardLoginBouncesAuthenticatedUsers(t *testing.T) {
	cookie := claimsCookie(t, domain.RoleDoctor, "c1", time.Now().Add(time.Hour))
	rec, reached := guardRequest(t, "/login", cookie)
	if reached {
		t.Fatal("next should not run")
	}
	if rec.Header().Get("Location") != "/clinic" {
		t.Fatalf("expected /clinic, got %s", rec.Header().Get("Location"))
	}

	rec, _ = guardRequest(t, "/login", claimsCookie(t, domain.RoleAdmin, "", time.Now().Add(time.Hour)))
	if rec.Header().Get("Location") != "/" {
		t.Fatalf("expected /, got %s", rec.Header().Get("Location"))
	}
}

func TestGuardLoginPassesUnauthenticated(t *testing.T) {
	_, reached := guardRequest(t, "/login", "")
	if !reached {
		t.Fatal("unauthenticated /login should pass through")
	}
}

func TestGuardResetPagesAlwaysPass(t *testing.T) {
	for _, path := range []string{"/auth/reset-password", "/auth/forgot-password"} {
		rec, reached := guardRequest(t, path, "")
		if !reached {
			t.Fatalf("%s should pass without a session", path)
		}
		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Fatalf("%s missing no-store header", path)
		}
	}
}

func TestGuardSkipsAPIAndOperationalRoutes(t *testing.T) {
	for _, path := range []string{"/api/patients", "/health", "/metrics", "/swagger/index.html"} {
		_, reached := guardRequest(t, path, "")
		if !reached {
			t.Fatalf("%s should bypass the guard", path)
		}
	}
}

// The guard never consults the session store: a cookie that is still within
// its embedded expiry passes even if the server-side session row is gone.
func TestGuardDoesNotCheckSessionStore(t *testing.T) {
	cookie := claimsCookie(t, domain.RoleDoctor, "c1", time.Now().Add(time.Hour))
	_, reached := guardRequest(t, "/clinic", cookie)
	if !reached {
		t.Fatal("cookie-valid request must pass without any store lookup")
	}
}
