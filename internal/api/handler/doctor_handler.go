package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// DoctorHandler handles the practitioner directory.
type DoctorHandler struct {
	service ports.DoctorService
	auth    ports.AuthService
}

func NewDoctorHandler(service ports.DoctorService, auth ports.AuthService) *DoctorHandler {
	return &DoctorHandler{service: service, auth: auth}
}

// Create adds a doctor to the resolved clinic.
//
// @Summary      Create a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Param        body  body      createDoctorRequest  true  "Doctor details"
// @Success      201   {object}  doctorResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/doctors [post]
func (h *DoctorHandler) Create(c echo.Context) error {
	var req createDoctorRequest
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

	doctor, err := h.service.Create(c.Request().Context(), ports.CreateDoctorInput{
		ClinicID:  scope.TenantID,
		Name:      req.Name,
		Specialty: req.Specialty,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDoctorResponse(doctor))
}

// Get returns one doctor.
//
// @Summary      Get a doctor
// @Tags         doctors
// @Produce      json
// @Param        id  path  string  true  "Doctor id"
// @Success      200  {object}  doctorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/doctors/{id} [get]
func (h *DoctorHandler) Get(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}
	doctor, err := h.service.Get(c.Request().Context(), scope.TenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDoctorResponse(doctor))
}

// Update modifies a doctor record.
//
// @Summary      Update a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Doctor id"
// @Param        body  body      updateDoctorRequest  true  "Fields to change"
// @Success      200   {object}  doctorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/doctors/{id} [put]
func (h *DoctorHandler) Update(c echo.Context) error {
	var req updateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}

	doctor, err := h.service.Update(c.Request().Context(), ports.UpdateDoctorInput{
		ClinicID:  scope.TenantID,
		ID:        c.Param("id"),
		Name:      req.Name,
		Specialty: req.Specialty,
		Phone:     req.Phone,
		Active:    req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDoctorResponse(doctor))
}

// Delete removes a doctor record.
//
// @Summary      Delete a doctor
// @Tags         doctors
// @Param        id  path  string  true  "Doctor id"
// @Success      204  "deleted"
// @Router       /api/doctors/{id} [delete]
func (h *DoctorHandler) Delete(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), scope.TenantID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns the clinic's doctors.
//
// @Summary      List doctors
// @Tags         doctors
// @Produce      json
// @Success      200  {array}  doctorResponse
// @Router       /api/doctors [get]
func (h *DoctorHandler) List(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}
	doctors, err := h.service.List(c.Request().Context(), scope.TenantID)
	if err != nil {
		return err
	}
	out := make([]doctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, toDoctorResponse(&doctors[i]))
	}
	return c.JSON(http.StatusOK, out)
}
