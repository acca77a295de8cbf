package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/api/metrics"
	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// Cookie names shared by the guard, the auth middleware and the auth
// handlers.
const (
	SessionCookie      = "session"       // httpOnly JSON claims blob
	SessionTokenCookie = "session_token" // httpOnly raw session token
	UserCookie         = "user"          // client-readable display blob, never an authz source
)

// Guard is the edge gate for page routes. It decides purely on the cookie's
// embedded claims — no storage round-trip — so it is a coarse filter only;
// the storage-backed Authenticate middleware is the authoritative gate for
// anything that touches data. Because it never consults the session store, a
// logged-out-but-unexpired cookie still passes here; flagged upstream, kept
// as-is. Every branch redirects or passes through, never errors.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			// API and operational routes carry their own auth.
			if guardSkips(path) {
				return next(c)
			}

			// Reset/forgot pages are reachable in every session state and
			// must never be served from cache.
			if strings.HasPrefix(path, "/auth/reset-password") || strings.HasPrefix(path, "/auth/forgot-password") {
				c.Response().Header().Set("Cache-Control", "no-store")
				return next(c)
			}

			claims, present, valid := guardClaims(c)

			// Login and verify bounce already-authenticated users home.
			if path == "/login" || path == "/auth/verify" {
				if !valid {
					return next(c)
				}
				return redirectHome(c, claims.Role)
			}

			if !valid {
				if present {
					// Unparsable or expired: drop the dead cookie.
					clearSessionCookies(c)
				}
				metrics.GuardRedirectsTotal.WithLabelValues("login").Inc()
				return c.Redirect(http.StatusFound, "/login")
			}

			tenant := domain.TenantScoped(claims.Role)
			inClinic := path == "/clinic" || strings.HasPrefix(path, "/clinic/")

			// Tenant users live under /clinic; everyone else stays out of it.
			if tenant && !inClinic {
				metrics.GuardRedirectsTotal.WithLabelValues("clinic_home").Inc()
				return c.Redirect(http.StatusFound, "/clinic")
			}
			if !tenant && inClinic {
				metrics.GuardRedirectsTotal.WithLabelValues("admin_home").Inc()
				return c.Redirect(http.StatusFound, "/")
			}
			if strings.HasPrefix(path, "/admin") && claims.Role != domain.RoleAdmin {
				metrics.GuardRedirectsTotal.WithLabelValues("admin_home").Inc()
				return c.Redirect(http.StatusFound, "/")
			}

			return next(c)
		}
	}
}

func guardSkips(path string) bool {
	for _, prefix := range []string{"/api/", "/health", "/metrics", "/swagger"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// guardClaims reads the session cookie. present reports whether any cookie
// was sent; valid requires it to parse and to be unexpired.
func guardClaims(c echo.Context) (claims *domain.SessionClaims, present, valid bool) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false, false
	}
	parsed, ok := domain.ParseSessionClaims(cookie.Value)
	if !ok {
		return nil, true, false
	}
	if parsed.Expired(time.Now()) {
		return parsed, true, false
	}
	return parsed, true, true
}

func redirectHome(c echo.Context, role string) error {
	if domain.TenantScoped(role) {
		return c.Redirect(http.StatusFound, "/clinic")
	}
	return c.Redirect(http.StatusFound, "/")
}

// clearSessionCookies expires all three auth cookies on the client.
func clearSessionCookies(c echo.Context) {
	for _, name := range []string{SessionCookie, SessionTokenCookie, UserCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name != UserCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
