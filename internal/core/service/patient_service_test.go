package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

type stubPatientRepo struct {
	byID map[string]*domain.Patient
}

func newStubPatientRepo() *stubPatientRepo {
	return &stubPatientRepo{byID: make(map[string]*domain.Patient)}
}

func (r *stubPatientRepo) matches(p *domain.Patient, clinicID string) bool {
	return clinicID == "" || p.ClinicID == clinicID
}

func (r *stubPatientRepo) Create(_ context.Context, p *domain.Patient) (*domain.Patient, error) {
	clone := *p
	r.byID[p.ID] = &clone
	return p, nil
}

func (r *stubPatientRepo) FindByID(_ context.Context, clinicID, id string) (*domain.Patient, error) {
	if p, ok := r.byID[id]; ok && r.matches(p, clinicID) {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrPatientNotFound
}

func (r *stubPatientRepo) FindByPhone(_ context.Context, clinicID, phone string) (*domain.Patient, error) {
	for _, p := range r.byID {
		if r.matches(p, clinicID) && p.Phone == phone {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrPatientNotFound
}

func (r *stubPatientRepo) Update(_ context.Context, p *domain.Patient) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrPatientNotFound
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPatientRepo) Delete(_ context.Context, clinicID, id string) error {
	if p, ok := r.byID[id]; ok && r.matches(p, clinicID) {
		delete(r.byID, id)
		return nil
	}
	return domain.ErrPatientNotFound
}

func (r *stubPatientRepo) List(_ context.Context, clinicID, query string, page, limit int) ([]domain.Patient, int64, error) {
	var out []domain.Patient
	for _, p := range r.byID {
		if !r.matches(p, clinicID) {
			continue
		}
		if query != "" && !strings.Contains(p.Name, query) && !strings.Contains(p.Phone, query) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func TestPatientService_Create_NormalizesPhone(t *testing.T) {
	repo := newStubPatientRepo()
	svc := NewPatientService(repo, zerolog.Nop())

	p, err := svc.Create(context.Background(), ports.CreatePatientInput{
		ClinicID: "clinic-a",
		Name:     "Maria P",
		Phone:    "691 234 5678",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Phone != "+306912345678" {
		t.Fatalf("phone not normalized: %q", p.Phone)
	}
}

func TestPatientService_Create_DuplicatePhoneWithinClinic(t *testing.T) {
	repo := newStubPatientRepo()
	svc := NewPatientService(repo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.CreatePatientInput{ClinicID: "clinic-a", Name: "Maria", Phone: "6912345678"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	// Same number, differently formatted.
	if _, err := svc.Create(ctx, ports.CreatePatientInput{ClinicID: "clinic-a", Name: "Maria again", Phone: "+30 691 234 5678"}); !errors.Is(err, domain.ErrPatientExists) {
		t.Fatalf("expected ErrPatientExists, got %v", err)
	}
	// Same number in another clinic is fine.
	if _, err := svc.Create(ctx, ports.CreatePatientInput{ClinicID: "clinic-b", Name: "Maria B", Phone: "6912345678"}); err != nil {
		t.Fatalf("cross-clinic create: %v", err)
	}
}

func TestPatientService_Update_PreservesUnsetFields(t *testing.T) {
	repo := newStubPatientRepo()
	svc := NewPatientService(repo, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, ports.CreatePatientInput{
		ClinicID: "clinic-a", Name: "Maria", Phone: "6912345678", Email: "maria@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, ports.UpdatePatientInput{ClinicID: "clinic-a", ID: created.ID, Name: "Maria Papadopoulou"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Maria Papadopoulou" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Email != "maria@example.com" || updated.Phone != "+306912345678" {
		t.Fatalf("unset fields must be preserved: %+v", updated)
	}
}

func TestPatientService_Update_WrongClinic(t *testing.T) {
	repo := newStubPatientRepo()
	svc := NewPatientService(repo, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, ports.CreatePatientInput{ClinicID: "clinic-a", Name: "Maria", Phone: "6912345678"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, ports.UpdatePatientInput{ClinicID: "clinic-b", ID: created.ID, Name: "X"}); !errors.Is(err, domain.ErrPatientNotFound) {
		t.Fatalf("cross-tenant update must look like not-found, got %v", err)
	}
	if err := svc.Delete(ctx, "clinic-b", created.ID); !errors.Is(err, domain.ErrPatientNotFound) {
		t.Fatalf("cross-tenant delete must look like not-found, got %v", err)
	}
}

func TestPatientService_List_PhoneQueryNormalized(t *testing.T) {
	repo := newStubPatientRepo()
	svc := NewPatientService(repo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.CreatePatientInput{ClinicID: "clinic-a", Name: "Maria", Phone: "6912345678"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	out, total, err := svc.List(ctx, ports.ListPatientsInput{ClinicID: "clinic-a", Query: "691 234 5678"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(out) != 1 {
		t.Fatalf("expected one match, got %d", total)
	}
}
