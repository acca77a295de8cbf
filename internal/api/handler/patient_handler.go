package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// PatientHandler handles HTTP requests for patient records. Every method
// resolves the tenant through the authorization resolver before touching the
// service; the clinic_id query parameter only matters with an admin session.
type PatientHandler struct {
	service ports.PatientService
	auth    ports.AuthService
}

func NewPatientHandler(service ports.PatientService, auth ports.AuthService) *PatientHandler {
	return &PatientHandler{service: service, auth: auth}
}

// Create registers a new patient in the resolved clinic.
//
// @Summary      Create a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        body  body      createPatientRequest  true  "Patient details"
// @Success      201   {object}  patientResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	var req createPatientRequest
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

	patient, err := h.service.Create(c.Request().Context(), ports.CreatePatientInput{
		ClinicID:  scope.TenantID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPatientResponse(patient))
}

// Get returns one patient.
//
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Param        id  path      string  true  "Patient id"
// @Success      200  {object}  patientResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}

	patient, err := h.service.Get(c.Request().Context(), scope.TenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPatientResponse(patient))
}

// Update modifies a patient; empty fields are left unchanged.
//
// @Summary      Update a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Patient id"
// @Param        body  body      updatePatientRequest  true  "Fields to change"
// @Success      200   {object}  patientResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/patients/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	var req updatePatientRequest
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

	patient, err := h.service.Update(c.Request().Context(), ports.UpdatePatientInput{
		ClinicID:  scope.TenantID,
		ID:        c.Param("id"),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPatientResponse(patient))
}

// Delete removes a patient record.
//
// @Summary      Delete a patient
// @Tags         patients
// @Param        id  path  string  true  "Patient id"
// @Success      204  "deleted"
// @Failure      404  {object}  errorResponse
// @Router       /api/patients/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), scope.TenantID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns the clinic's patients, optionally filtered by a name or phone
// fragment (q).
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Param        q      query     string  false  "Name or phone fragment"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  listPatientsResponse
// @Router       /api/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	scope, err := tenantScope(c, h.auth)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)

	patients, total, err := h.service.List(c.Request().Context(), ports.ListPatientsInput{
		ClinicID: scope.TenantID,
		Query:    c.QueryParam("q"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	data := make([]patientResponse, 0, len(patients))
	for i := range patients {
		data = append(data, toPatientResponse(&patients[i]))
	}
	return c.JSON(http.StatusOK, listPatientsResponse{Data: data, Pagination: paginate(total, page, limit)})
}
