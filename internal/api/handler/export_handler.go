package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/core/ports"
)

type ExportHandler struct {
	service ports.ExportService
	auth    ports.AuthService
	locale  string
}

func NewExportHandler(service ports.ExportService, auth ports.AuthService, locale string) *ExportHandler {
	if locale == "" {
		locale = "en"
	}
	return &ExportHandler{service: service, auth: auth, locale: locale}
}

// Appointments streams the clinic's appointments for a date window as CSV.
//
// @Summary      Export appointments as CSV
// @Tags         exports
// @Produce      text/csv
// @Param        from  query  string  false  "Window start (RFC3339)"
// @Param        to    query  string  false  "Window end (RFC3339)"
// @Success      200   {string}  string  "CSV payload"
// @Failure      400   {object}  errorResponse
// @Router       /api/exports/appointments.csv [get]
func (h *ExportHandler) Appointments(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}

	from, err := timeParam(c, "from")
	if err != nil {
		return err
	}
	to, err := timeParam(c, "to")
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="appointments.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return h.service.AppointmentsCSV(c.Request().Context(), c.Response(), ports.ExportAppointmentsInput{
		ClinicID: scope.TenantID,
		From:     from,
		To:       to,
		Locale:   h.locale,
	})
}

// Patients streams the clinic's patient roster as CSV.
//
// @Summary      Export patients as CSV
// @Tags         exports
// @Produce      text/csv
// @Success      200  {string}  string  "CSV payload"
// @Router       /api/exports/patients.csv [get]
func (h *ExportHandler) Patients(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="patients.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return h.service.PatientsCSV(c.Request().Context(), c.Response(), scope.TenantID)
}
