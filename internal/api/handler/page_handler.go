package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the browser-facing routes the session guard protects.
// The pages themselves are thin shells; all data flows through the JSON API.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) page(title string) echo.HandlerFunc {
	body := "<!DOCTYPE html><html><head><title>" + title +
		"</title></head><body><div id=\"app\" data-page=\"" + title + "\"></div></body></html>"
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		return c.HTML(http.StatusOK, body)
	}
}

// Register mounts every page route on e. The guard middleware decides who
// may reach which prefix, so the handlers stay uniform.
func (h *PageHandler) Register(e *echo.Echo) {
	e.GET("/", h.page("home"))
	e.GET("/login", h.page("login"))
	e.GET("/auth/verify", h.page("verify"))
	e.GET("/auth/forgot-password", h.page("forgot-password"))
	e.GET("/auth/reset-password", h.page("reset-password"))

	e.GET("/clinic", h.page("clinic"))
	e.GET("/clinic/appointments", h.page("appointments"))
	e.GET("/clinic/patients", h.page("patients"))
	e.GET("/clinic/doctors", h.page("doctors"))
	e.GET("/clinic/messages", h.page("messages"))
	e.GET("/clinic/reports", h.page("reports"))
	e.GET("/clinic/settings", h.page("settings"))

	e.GET("/admin", h.page("admin"))
	e.GET("/admin/clinics", h.page("admin-clinics"))
	e.GET("/admin/users", h.page("admin-users"))
}
