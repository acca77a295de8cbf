package ports

import (
	"context"
	"time"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

type CreateAppointmentInput struct {
	ClinicID  string
	PatientID string
	DoctorID  string
	StartsAt  time.Time
	Duration  time.Duration
	Notes     string
}

type UpdateAppointmentInput struct {
	ClinicID string
	ID       string
	DoctorID string
	StartsAt time.Time
	Duration time.Duration
	Notes    string
}

type ListAppointmentsInput struct {
	ClinicID string
	From     time.Time
	To       time.Time
	Page     int
	Limit    int
}

type AppointmentService interface {
	Create(ctx context.Context, input CreateAppointmentInput) (*domain.Appointment, error)
	Get(ctx context.Context, clinicID, id string) (*domain.Appointment, error)
	Update(ctx context.Context, input UpdateAppointmentInput) (*domain.Appointment, error)
	// ChangeStatus applies a lifecycle transition, rejecting illegal ones
	// with domain.ErrInvalidTransition.
	ChangeStatus(ctx context.Context, clinicID, id string, next domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, clinicID, id string) error
	List(ctx context.Context, input ListAppointmentsInput) ([]domain.Appointment, int64, error)
}
