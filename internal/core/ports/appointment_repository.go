package ports

import (
	"context"
	"time"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// AppointmentRepository persists appointments. clinicID == "" means unscoped
// (admin).
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, clinicID, id string) (*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
	Delete(ctx context.Context, clinicID, id string) error
	List(ctx context.Context, clinicID string, from, to time.Time, page, limit int) ([]domain.Appointment, int64, error)
	// ListWindow returns all appointments starting inside [from, to) across
	// every clinic when clinicID is empty; used by the reminder job.
	ListWindow(ctx context.Context, clinicID string, from, to time.Time) ([]domain.Appointment, error)
}
