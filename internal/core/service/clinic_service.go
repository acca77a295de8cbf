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

// ClinicService covers the global-admin surface: tenants and user accounts.
// Authorization happens upstream (manage:clinics / manage:users); this layer
// only enforces data invariants.
type ClinicService struct {
	clinics ports.ClinicRepository
	users   ports.UserRepository
	logger  zerolog.Logger
}

func NewClinicService(clinics ports.ClinicRepository, users ports.UserRepository, logger zerolog.Logger) *ClinicService {
	return &ClinicService{clinics: clinics, users: users, logger: logger}
}

func (s *ClinicService) CreateClinic(ctx context.Context, input ports.CreateClinicInput) (*domain.Clinic, error) {
	if input.Name == "" {
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
	clinic := &domain.Clinic{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Phone:     phone,
		Email:     input.Email,
		Address:   input.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.clinics.Create(ctx, clinic)
	if err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("create clinic failed")
		return nil, err
	}

	s.logger.Info().Str("clinic_id", created.ID).Str("name", created.Name).Msg("clinic created")
	return created, nil
}

func (s *ClinicService) ListClinics(ctx context.Context) ([]domain.Clinic, error) {
	return s.clinics.List(ctx)
}

func (s *ClinicService) SetClinicActive(ctx context.Context, id string, active bool) error {
	return s.clinics.SetActive(ctx, id, active)
}

// CreateUser provisions an account without a password; the user sets one via
// the magic-link flow. A tenant-scoped role may be created before its clinic
// assignment exists — the authorization resolver rejects such accounts until
// an admin assigns one.
func (s *ClinicService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if !domain.KnownRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}

	phone, err := domain.NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	if input.ClinicID != nil {
		if _, err := s.clinics.FindByID(ctx, *input.ClinicID); err != nil {
			return nil, err
		}
	}

	if _, err := s.users.FindByPhone(ctx, phone); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Phone:     phone,
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		ClinicID:  input.ClinicID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

// AssignUserClinic is the server-side change that makes issued session
// cookies stale. The storage-backed resolver picks up the new assignment on
// the next request; the cookie's cached clinicId keeps lying until expiry,
// which is exactly why it is never trusted for data scoping.
func (s *ClinicService) AssignUserClinic(ctx context.Context, userID string, clinicID *string) error {
	if clinicID != nil {
		if _, err := s.clinics.FindByID(ctx, *clinicID); err != nil {
			return err
		}
	}
	if err := s.users.AssignClinic(ctx, userID, clinicID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("user clinic reassigned")
	return nil
}

func (s *ClinicService) SetUserActive(ctx context.Context, userID string, active bool) error {
	return s.users.SetActive(ctx, userID, active)
}

func (s *ClinicService) ListUsers(ctx context.Context, clinicID string) ([]domain.User, error) {
	return s.users.ListByClinic(ctx, clinicID)
}
