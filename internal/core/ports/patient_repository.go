package ports

import (
	"context"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// PatientRepository persists patient records. clinicID == "" means unscoped
// (admin): no tenant filter is applied.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) (*domain.Patient, error)
	FindByID(ctx context.Context, clinicID, id string) (*domain.Patient, error)
	FindByPhone(ctx context.Context, clinicID, phone string) (*domain.Patient, error)
	Update(ctx context.Context, patient *domain.Patient) error
	Delete(ctx context.Context, clinicID, id string) error
	List(ctx context.Context, clinicID, query string, page, limit int) ([]domain.Patient, int64, error)
}

// DoctorRepository persists practitioner directory records.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *domain.Doctor) (*domain.Doctor, error)
	FindByID(ctx context.Context, clinicID, id string) (*domain.Doctor, error)
	Update(ctx context.Context, doctor *domain.Doctor) error
	Delete(ctx context.Context, clinicID, id string) error
	List(ctx context.Context, clinicID string) ([]domain.Doctor, error)
}

// ClinicRepository persists tenants.
type ClinicRepository interface {
	Create(ctx context.Context, clinic *domain.Clinic) (*domain.Clinic, error)
	FindByID(ctx context.Context, id string) (*domain.Clinic, error)
	List(ctx context.Context) ([]domain.Clinic, error)
	SetActive(ctx context.Context, id string, active bool) error
}
