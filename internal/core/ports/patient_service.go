package ports

import (
	"context"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

type CreatePatientInput struct {
	ClinicID  string
	Name      string
	Phone     string
	Email     string
	BirthDate string
	Notes     string
}

type UpdatePatientInput struct {
	ClinicID  string
	ID        string
	Name      string
	Phone     string
	Email     string
	BirthDate string
	Notes     string
}

type ListPatientsInput struct {
	ClinicID string
	Query    string
	Page     int
	Limit    int
}

type PatientService interface {
	Create(ctx context.Context, input CreatePatientInput) (*domain.Patient, error)
	Get(ctx context.Context, clinicID, id string) (*domain.Patient, error)
	Update(ctx context.Context, input UpdatePatientInput) (*domain.Patient, error)
	Delete(ctx context.Context, clinicID, id string) error
	List(ctx context.Context, input ListPatientsInput) ([]domain.Patient, int64, error)
}

type CreateDoctorInput struct {
	ClinicID  string
	Name      string
	Specialty string
	Phone     string
}

type UpdateDoctorInput struct {
	ClinicID  string
	ID        string
	Name      string
	Specialty string
	Phone     string
	Active    *bool
}

type DoctorService interface {
	Create(ctx context.Context, input CreateDoctorInput) (*domain.Doctor, error)
	Get(ctx context.Context, clinicID, id string) (*domain.Doctor, error)
	Update(ctx context.Context, input UpdateDoctorInput) (*domain.Doctor, error)
	Delete(ctx context.Context, clinicID, id string) error
	List(ctx context.Context, clinicID string) ([]domain.Doctor, error)
}
