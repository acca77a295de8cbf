package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/api/metrics"
	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// AppointmentHandler handles the appointment lifecycle endpoints. The locale
// drives the human-readable status_label in responses; the raw status field
// stays stable.
type AppointmentHandler struct {
	service ports.AppointmentService
	auth    ports.AuthService
	locale  string
}

func NewAppointmentHandler(service ports.AppointmentService, auth ports.AuthService, locale string) *AppointmentHandler {
	if locale == "" {
		locale = "en"
	}
	return &AppointmentHandler{service: service, auth: auth, locale: locale}
}

// Create books a new appointment and queues a confirmation message.
//
// @Summary      Create an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body      createAppointmentRequest  true  "Appointment details"
// @Success      201   {object}  appointmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}

	appt, err := h.service.Create(c.Request().Context(), ports.CreateAppointmentInput{
		ClinicID:  scope.TenantID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartsAt:  req.StartsAt,
		Duration:  time.Duration(req.DurationMin) * time.Minute,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.AppointmentsCreatedTotal.WithLabelValues(appt.ClinicID).Inc()
	return c.JSON(http.StatusCreated, toAppointmentResponse(appt, h.locale))
}

// Get returns one appointment.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Param        id  path  string  true  "Appointment id"
// @Success      200  {object}  appointmentResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}
	appt, err := h.service.Get(c.Request().Context(), scope.TenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(appt, h.locale))
}

// Update reschedules or annotates an appointment.
//
// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Appointment id"
// @Param        body  body      updateAppointmentRequest  true  "Fields to change"
// @Success      200   {object}  appointmentResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}

	appt, err := h.service.Update(c.Request().Context(), ports.UpdateAppointmentInput{
		ClinicID: scope.TenantID,
		ID:       c.Param("id"),
		DoctorID: req.DoctorID,
		StartsAt: req.StartsAt,
		Duration: time.Duration(req.DurationMin) * time.Minute,
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(appt, h.locale))
}

// ChangeStatus applies a lifecycle transition.
//
// @Summary      Change appointment status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Appointment id"
// @Param        body  body      changeStatusRequest  true  "Target status"
// @Success      200   {object}  appointmentResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/appointments/{id}/status [put]
func (h *AppointmentHandler) ChangeStatus(c echo.Context) error {
	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}

	appt, err := h.service.ChangeStatus(c.Request().Context(), scope.TenantID, c.Param("id"), domain.AppointmentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(appt, h.locale))
}

// Delete removes an appointment.
//
// @Summary      Delete an appointment
// @Tags         appointments
// @Param        id  path  string  true  "Appointment id"
// @Success      204  "deleted"
// @Router       /api/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), scope.TenantID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns appointments in a date window.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Param        from   query     string  false  "Window start (RFC3339)"
// @Param        to     query     string  false  "Window end (RFC3339)"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  listAppointmentsResponse
// @Failure      400    {object}  errorResponse
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
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
	page, limit := pageParams(c)

	appts, total, err := h.service.List(c.Request().Context(), ports.ListAppointmentsInput{
		ClinicID: scope.TenantID,
		From:     from,
		To:       to,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	data := make([]appointmentResponse, 0, len(appts))
	for i := range appts {
		data = append(data, toAppointmentResponse(&appts[i], h.locale))
	}
	return c.JSON(http.StatusOK, listAppointmentsResponse{Data: data, Pagination: paginate(total, page, limit)})
}
