package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/api/middleware"
	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// currentUser extracts the storage-backed user injected by the Authenticate
// middleware. Absence means the middleware did not run on this route — a
// wiring bug surfaced as 401 rather than a panic.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUser).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}

// tenantScope resolves the request's tenant via the authorization resolver.
// The clinic_id query parameter is the admin's optional scoping hint; for
// tenant roles it is passed through and ignored by the resolver, which is
// exactly the non-escalation property.
func tenantScope(c echo.Context, auth ports.AuthService) (ports.TenantScope, error) {
	user, err := currentUser(c)
	if err != nil {
		return ports.TenantScope{}, err
	}
	return auth.ResolveAuthorizedTenant(user, c.QueryParam("clinic_id"))
}
