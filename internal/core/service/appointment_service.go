package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

const defaultAppointmentDuration = 30 * time.Minute

// AppointmentService implements the appointment lifecycle. Creating or
// confirming an appointment queues a patient notification; delivery is
// asynchronous and failures never roll back the booking.
type AppointmentService struct {
	repo     ports.AppointmentRepository
	patients ports.PatientRepository
	messages ports.MessageService
	locale   string
	logger   zerolog.Logger
}

func NewAppointmentService(
	repo ports.AppointmentRepository,
	patients ports.PatientRepository,
	messages ports.MessageService,
	locale string,
	logger zerolog.Logger,
) *AppointmentService {
	if locale == "" {
		locale = "en"
	}
	return &AppointmentService{repo: repo, patients: patients, messages: messages, locale: locale, logger: logger}
}

func (s *AppointmentService) Create(ctx context.Context, input ports.CreateAppointmentInput) (*domain.Appointment, error) {
	if input.ClinicID == "" || input.PatientID == "" || input.StartsAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	patient, err := s.patients.FindByID(ctx, input.ClinicID, input.PatientID)
	if err != nil {
		return nil, err
	}

	duration := input.Duration
	if duration <= 0 {
		duration = defaultAppointmentDuration
	}

	now := time.Now().UTC()
	appt := &domain.Appointment{
		ID:        uuid.NewString(),
		ClinicID:  input.ClinicID,
		PatientID: input.PatientID,
		DoctorID:  input.DoctorID,
		StartsAt:  input.StartsAt.UTC(),
		Duration:  duration,
		Status:    domain.StatusScheduled,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, appt)
	if err != nil {
		s.logger.Error().Err(err).Str("clinic_id", input.ClinicID).Msg("create appointment failed")
		return nil, err
	}

	s.notify(ctx, created, patient, domain.KindConfirmation)

	s.logger.Info().
		Str("appointment_id", created.ID).
		Str("clinic_id", created.ClinicID).
		Time("starts_at", created.StartsAt).
		Msg("appointment created")
	return created, nil
}

func (s *AppointmentService) Get(ctx context.Context, clinicID, id string) (*domain.Appointment, error) {
	return s.repo.FindByID(ctx, clinicID, id)
}

func (s *AppointmentService) Update(ctx context.Context, input ports.UpdateAppointmentInput) (*domain.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, input.ClinicID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.DoctorID != "" {
		appt.DoctorID = input.DoctorID
	}
	if !input.StartsAt.IsZero() {
		appt.StartsAt = input.StartsAt.UTC()
	}
	if input.Duration > 0 {
		appt.Duration = input.Duration
	}
	if input.Notes != "" {
		appt.Notes = input.Notes
	}
	appt.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) ChangeStatus(ctx context.Context, clinicID, id string, next domain.AppointmentStatus) (*domain.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}

	if !appt.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, appt.Status, next)
	}

	appt.Status = next
	appt.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}

	if next == domain.StatusConfirmed {
		if patient, err := s.patients.FindByID(ctx, appt.ClinicID, appt.PatientID); err == nil {
			s.notify(ctx, appt, patient, domain.KindConfirmation)
		}
	}

	s.logger.Info().Str("appointment_id", appt.ID).Str("status", string(next)).Msg("appointment status changed")
	return appt, nil
}

func (s *AppointmentService) Delete(ctx context.Context, clinicID, id string) error {
	return s.repo.Delete(ctx, clinicID, id)
}

func (s *AppointmentService) List(ctx context.Context, input ports.ListAppointmentsInput) ([]domain.Appointment, int64, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 || limit > 200 {
		limit = defaultPageLimit
	}
	return s.repo.List(ctx, input.ClinicID, input.From, input.To, page, limit)
}

func (s *AppointmentService) notify(ctx context.Context, appt *domain.Appointment, patient *domain.Patient, kind domain.MessageKind) {
	body := fmt.Sprintf(
		"%s, your appointment on %s is %s.",
		patient.Name,
		appt.StartsAt.Format("Mon 02 Jan 15:04"),
		appt.Status.Label(s.locale),
	)
	msg := domain.OutboundMessage{
		ID:       uuid.NewString(),
		ClinicID: appt.ClinicID,
		Channel:  domain.ChannelWhatsApp,
		Kind:     kind,
		To:       patient.Phone,
		Body:     body,
		// The status is part of the ref so the booking notice and a later
		// confirmation notice dedup independently.
		Ref:       appt.ID + ":" + string(appt.Status),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Enqueue(ctx, msg); err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", appt.ID).Msg("notification enqueue failed")
	}
}
