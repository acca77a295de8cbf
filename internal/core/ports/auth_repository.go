package ports

import (
	"context"
	"time"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

// UserRepository defines persistence for user accounts. Every lookup returns
// either a row or domain.ErrUserNotFound — never a partial result.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	SetPassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	AssignClinic(ctx context.Context, id string, clinicID *string) error
	SetActive(ctx context.Context, id string, active bool) error
	ListByClinic(ctx context.Context, clinicID string) ([]domain.User, error)
}

// SessionRepository defines persistence for session rows, keyed by the
// opaque token. FindByToken returns domain.ErrSessionNotFound for a missing
// or already-deleted row.
type SessionRepository interface {
	Insert(ctx context.Context, session *domain.Session) error
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
}
