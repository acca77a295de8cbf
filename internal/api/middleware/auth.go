package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// Context keys set by Authenticate.
const (
	ContextUser         = "user"
	ContextSessionToken = "session_token"
)

// Authenticate guards API routes. Unlike the page Guard it re-fetches the
// user row from storage on every request, so role and clinic changes made
// after the cookie was issued take effect immediately. Session-row existence
// is still not verified — that matches ResolveSession's contract and keeps
// the known logout-until-expiry gap in one documented place.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			claims, ok := domain.ParseSessionClaims(cookie.Value)
			if !ok || claims.Expired(time.Now()) {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			user, err := auth.ResolveSession(c.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}
			if user == nil || !user.Active {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set(ContextUser, user)
			c.Set(ContextSessionToken, claims.Token)
			return next(c)
		}
	}
}
