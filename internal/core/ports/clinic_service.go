package ports

import (
	"context"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

type CreateClinicInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

type CreateUserInput struct {
	Phone    string
	Name     string
	Email    string
	Role     string
	ClinicID *string
}

// ClinicService covers the global-admin surface: tenant management and user
// provisioning. All methods assume the caller already passed an admin
// permission check.
type ClinicService interface {
	CreateClinic(ctx context.Context, input CreateClinicInput) (*domain.Clinic, error)
	ListClinics(ctx context.Context) ([]domain.Clinic, error)
	SetClinicActive(ctx context.Context, id string, active bool) error

	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// AssignUserClinic moves a user between tenants (nil detaches). This is
	// the server-side change that makes issued session cookies stale; the
	// storage-backed resolver picks it up on the next request.
	AssignUserClinic(ctx context.Context, userID string, clinicID *string) error
	SetUserActive(ctx context.Context, userID string, active bool) error
	ListUsers(ctx context.Context, clinicID string) ([]domain.User, error)
}
