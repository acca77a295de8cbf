package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// DoctorService implements the tenant-scoped practitioner directory.
type DoctorService struct {
	repo   ports.DoctorRepository
	logger zerolog.Logger
}

func NewDoctorService(repo ports.DoctorRepository, logger zerolog.Logger) *DoctorService {
	return &DoctorService{repo: repo, logger: logger}
}

func (s *DoctorService) Create(ctx context.Context, input ports.CreateDoctorInput) (*domain.Doctor, error) {
	if input.ClinicID == "" || input.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	phone := ""
	if input.Phone != "" {
		normalized, err := domain.NormalizePhone(input.Phone)
		if err != nil {
			return nil, err
		}
		phone = normalized
	}

	now := time.Now().UTC()
	doctor := &domain.Doctor{
		ID:        uuid.NewString(),
		ClinicID:  input.ClinicID,
		Name:      input.Name,
		Specialty: input.Specialty,
		Phone:     phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, doctor)
	if err != nil {
		s.logger.Error().Err(err).Str("clinic_id", input.ClinicID).Msg("create doctor failed")
		return nil, err
	}
	return created, nil
}

func (s *DoctorService) Get(ctx context.Context, clinicID, id string) (*domain.Doctor, error) {
	return s.repo.FindByID(ctx, clinicID, id)
}

func (s *DoctorService) Update(ctx context.Context, input ports.UpdateDoctorInput) (*domain.Doctor, error) {
	doctor, err := s.repo.FindByID(ctx, input.ClinicID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		doctor.Name = input.Name
	}
	if input.Specialty != "" {
		doctor.Specialty = input.Specialty
	}
	if input.Phone != "" {
		phone, err := domain.NormalizePhone(input.Phone)
		if err != nil {
			return nil, err
		}
		doctor.Phone = phone
	}
	if input.Active != nil {
		doctor.Active = *input.Active
	}
	doctor.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorService) Delete(ctx context.Context, clinicID, id string) error {
	return s.repo.Delete(ctx, clinicID, id)
}

func (s *DoctorService) List(ctx context.Context, clinicID string) ([]domain.Doctor, error) {
	return s.repo.List(ctx, clinicID)
}
