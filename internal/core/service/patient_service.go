package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

const defaultPageLimit = 50

// PatientService implements tenant-scoped patient CRUD. Every input carries
// the clinic id already resolved by the authorization resolver; this layer
// never sees a raw client-supplied tenant hint.
type PatientService struct {
	repo   ports.PatientRepository
	logger zerolog.Logger
}

func NewPatientService(repo ports.PatientRepository, logger zerolog.Logger) *PatientService {
	return &PatientService{repo: repo, logger: logger}
}

func (s *PatientService) Create(ctx context.Context, input ports.CreatePatientInput) (*domain.Patient, error) {
	if input.ClinicID == "" || input.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	phone, err := domain.NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByPhone(ctx, input.ClinicID, phone); err == nil && existing != nil {
		return nil, domain.ErrPatientExists
	} else if err != nil && !errors.Is(err, domain.ErrPatientNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	patient := &domain.Patient{
		ID:        uuid.NewString(),
		ClinicID:  input.ClinicID,
		Name:      input.Name,
		Phone:     phone,
		Email:     input.Email,
		BirthDate: input.BirthDate,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, patient)
	if err != nil {
		s.logger.Error().Err(err).Str("clinic_id", input.ClinicID).Msg("create patient failed")
		return nil, err
	}

	s.logger.Info().Str("patient_id", created.ID).Str("clinic_id", created.ClinicID).Msg("patient created")
	return created, nil
}

func (s *PatientService) Get(ctx context.Context, clinicID, id string) (*domain.Patient, error) {
	return s.repo.FindByID(ctx, clinicID, id)
}

func (s *PatientService) Update(ctx context.Context, input ports.UpdatePatientInput) (*domain.Patient, error) {
	patient, err := s.repo.FindByID(ctx, input.ClinicID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Phone != "" {
		phone, err := domain.NormalizePhone(input.Phone)
		if err != nil {
			return nil, err
		}
		patient.Phone = phone
	}
	if input.Name != "" {
		patient.Name = input.Name
	}
	if input.Email != "" {
		patient.Email = input.Email
	}
	if input.BirthDate != "" {
		patient.BirthDate = input.BirthDate
	}
	if input.Notes != "" {
		patient.Notes = input.Notes
	}
	patient.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Delete(ctx context.Context, clinicID, id string) error {
	return s.repo.Delete(ctx, clinicID, id)
}

func (s *PatientService) List(ctx context.Context, input ports.ListPatientsInput) ([]domain.Patient, int64, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 || limit > 200 {
		limit = defaultPageLimit
	}

	query := input.Query
	// A digits-looking query is matched against normalized phones.
	if normalized, err := domain.NormalizePhone(query); err == nil {
		query = normalized
	}

	return s.repo.List(ctx, input.ClinicID, query, page, limit)
}
