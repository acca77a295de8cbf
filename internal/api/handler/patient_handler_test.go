package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dentaflow/clinic-system/internal/api/middleware"
	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

type stubPatientService struct {
	listInput *ports.ListPatientsInput
	patients  []domain.Patient
	total     int64
}

func (s *stubPatientService) Create(_ context.Context, input ports.CreatePatientInput) (*domain.Patient, error) {
	return &domain.Patient{ID: "p1", ClinicID: input.ClinicID, Name: input.Name, Phone: input.Phone}, nil
}

func (s *stubPatientService) Get(_ context.Context, clinicID, id string) (*domain.Patient, error) {
	return nil, domain.ErrPatientNotFound
}

func (s *stubPatientService) Update(_ context.Context, input ports.UpdatePatientInput) (*domain.Patient, error) {
	return nil, domain.ErrPatientNotFound
}

func (s *stubPatientService) Delete(_ context.Context, clinicID, id string) error {
	return domain.ErrPatientNotFound
}

func (s *stubPatientService) List(_ context.Context, input ports.ListPatientsInput) ([]domain.Patient, int64, error) {
	s.listInput = &input
	return s.patients, s.total, nil
}

func patientListRequest(t *testing.T, target string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	clinic := "clinic-a"
	c.Set(middleware.ContextUser, &domain.User{ID: "u1", Role: domain.RoleClinic, ClinicID: &clinic, Active: true})
	return rec, c
}

// The bounds apply before the query runs, so the service and the response
// envelope always agree on page and limit.
func TestPatientListClampsPaginationBeforeQuery(t *testing.T) {
	cases := []struct {
		target    string
		wantPage  int
		wantLimit int
	}{
		{"/api/patients", 1, 50},
		{"/api/patients?page=0&limit=0", 1, 50},
		{"/api/patients?page=-3&limit=1000", 1, 50},
		{"/api/patients?page=2&limit=25", 2, 25},
		{"/api/patients?limit=200", 1, 200},
	}

	for _, tc := range cases {
		svc := &stubPatientService{total: 400}
		auth := &stubAuthService{scope: &ports.TenantScope{TenantID: "clinic-a"}}
		h := NewPatientHandler(svc, auth)

		rec, c := patientListRequest(t, tc.target)
		if err := h.List(c); err != nil {
			t.Fatalf("%s: list: %v", tc.target, err)
		}

		if svc.listInput == nil {
			t.Fatalf("%s: service not called", tc.target)
		}
		if svc.listInput.Page != tc.wantPage || svc.listInput.Limit != tc.wantLimit {
			t.Fatalf("%s: service saw page=%d limit=%d, want %d/%d",
				tc.target, svc.listInput.Page, svc.listInput.Limit, tc.wantPage, tc.wantLimit)
		}

		var resp listPatientsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", tc.target, err)
		}
		if resp.Pagination.Page != tc.wantPage || resp.Pagination.Limit != tc.wantLimit {
			t.Fatalf("%s: envelope reports page=%d limit=%d, want %d/%d",
				tc.target, resp.Pagination.Page, resp.Pagination.Limit, tc.wantPage, tc.wantLimit)
		}
	}
}

func TestPatientListForwardsSearchQuery(t *testing.T) {
	svc := &stubPatientService{}
	auth := &stubAuthService{scope: &ports.TenantScope{TenantID: "clinic-a"}}
	h := NewPatientHandler(svc, auth)

	_, c := patientListRequest(t, "/api/patients?q=maria")
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	if svc.listInput.Query != "maria" || svc.listInput.ClinicID != "clinic-a" {
		t.Fatalf("unexpected list input: %+v", svc.listInput)
	}
}
