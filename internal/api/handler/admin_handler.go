package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// AdminHandler exposes the global-admin surface: clinic management and user
// provisioning. Routes are mounted behind the manage:clinics / manage:users
// permission checks, so the handlers themselves don't re-verify the role.
type AdminHandler struct {
	service ports.ClinicService
}

func NewAdminHandler(service ports.ClinicService) *AdminHandler {
	return &AdminHandler{service: service}
}

// CreateClinic registers a new tenant.
//
// @Summary      Create a clinic
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createClinicRequest  true  "Clinic details"
// @Success      201   {object}  clinicResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/admin/clinics [post]
func (h *AdminHandler) CreateClinic(c echo.Context) error {
	var req createClinicRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	clinic, err := h.service.CreateClinic(c.Request().Context(), ports.CreateClinicInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toClinicResponse(clinic))
}

// ListClinics returns every tenant.
//
// @Summary      List clinics
// @Tags         admin
// @Produce      json
// @Success      200  {array}  clinicResponse
// @Router       /api/admin/clinics [get]
func (h *AdminHandler) ListClinics(c echo.Context) error {
	clinics, err := h.service.ListClinics(c.Request().Context())
	if err != nil {
		return err
	}
	data := make([]clinicResponse, 0, len(clinics))
	for i := range clinics {
		data = append(data, toClinicResponse(&clinics[i]))
	}
	return c.JSON(http.StatusOK, data)
}

// SetClinicActive toggles a tenant on or off.
//
// @Summary      Activate or deactivate a clinic
// @Tags         admin
// @Accept       json
// @Param        id    path  string            true  "Clinic id"
// @Param        body  body  setActiveRequest  true  "Activation flag"
// @Success      204   "updated"
// @Router       /api/admin/clinics/{id}/active [put]
func (h *AdminHandler) SetClinicActive(c echo.Context) error {
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.service.SetClinicActive(c.Request().Context(), c.Param("id"), *req.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateUser provisions a user. No password is set here; the user receives
// a magic link and sets one through the reset flow.
//
// @Summary      Provision a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Phone:    req.Phone,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		ClinicID: req.ClinicID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// ListUsers returns users, optionally filtered to one clinic.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        clinic_id  query  string  false  "Filter by clinic"
// @Success      200  {array}  userResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context(), c.QueryParam("clinic_id"))
	if err != nil {
		return err
	}
	data := make([]userResponse, 0, len(users))
	for i := range users {
		data = append(data, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, data)
}

// AssignClinic moves a user to another clinic, or detaches them when
// clinic_id is null. Sessions issued before the move pick up the new tenant
// on their next resolved request.
//
// @Summary      Assign a user to a clinic
// @Tags         admin
// @Accept       json
// @Param        id    path  string               true  "User id"
// @Param        body  body  assignClinicRequest  true  "Target clinic (null detaches)"
// @Success      204   "updated"
// @Router       /api/admin/users/{id}/clinic [put]
func (h *AdminHandler) AssignClinic(c echo.Context) error {
	var req assignClinicRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	if err := h.service.AssignUserClinic(c.Request().Context(), c.Param("id"), req.ClinicID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetUserActive toggles a user on or off. Deactivation locks the user out
// on their next resolved request without touching session rows.
//
// @Summary      Activate or deactivate a user
// @Tags         admin
// @Accept       json
// @Param        id    path  string            true  "User id"
// @Param        body  body  setActiveRequest  true  "Activation flag"
// @Success      204   "updated"
// @Router       /api/admin/users/{id}/active [put]
func (h *AdminHandler) SetUserActive(c echo.Context) error {
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.service.SetUserActive(c.Request().Context(), c.Param("id"), *req.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
