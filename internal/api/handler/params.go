package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// Listing bounds shared by every paginated endpoint. Kept in lockstep with
// the service layer so the response envelope reports the values the query
// actually ran with.
const (
	listDefaultLimit = 50
	listMaxLimit     = 200
)

// timeParam parses an optional RFC3339 query parameter. Empty means the
// zero time (no bound); anything else must parse or the request is a 400.
func timeParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339", domain.ErrInvalidInput, name)
	}
	return t, nil
}

// pageParams reads page and limit and applies the listing bounds up front.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > listMaxLimit {
		limit = listDefaultLimit
	}
	return page, limit
}
