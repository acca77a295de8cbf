package domain

import (
	"errors"
	"time"
)

// Roles. RoleAdmin is global (cross-tenant); the rest are confined to a
// single clinic and require a non-nil ClinicID before any tenant-scoped
// operation is authorized.
const (
	RoleAdmin        = "admin"
	RoleClinic       = "clinic"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
)

var ErrInvalidInput = errors.New("invalid input")
var ErrUnauthorized = errors.New("unauthorized")
var ErrNoClinicAssigned = errors.New("no clinic assigned")
var ErrInvalidRole = errors.New("invalid role")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUserInactive = errors.New("user is deactivated")

// KnownRole reports whether role belongs to the fixed enumeration. Anything
// outside it is a hard authorization failure, never defaulted to a
// permissive role.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleClinic, RoleDoctor, RoleReceptionist:
		return true
	}
	return false
}

// TenantScoped reports whether role is confined to a single clinic.
func TenantScoped(role string) bool {
	return role == RoleClinic || role == RoleDoctor || role == RoleReceptionist
}

// User models an authenticated actor. ClinicID is nil only for a global
// admin; a tenant-scoped user may transiently exist without one but is
// rejected at authorization-resolution time, not at creation time.
// PasswordHash is nil until the user completes the magic-link flow.
type User struct {
	ID           string     `json:"id"`
	Phone        string     `json:"phone"`
	Name         string     `json:"name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Role         string     `json:"role"`
	ClinicID     *string    `json:"clinic_id,omitempty"`
	Active       bool       `json:"active"`
	PasswordHash *string    `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ClinicIDValue returns the clinic id or "" when unassigned.
func (u *User) ClinicIDValue() string {
	if u == nil || u.ClinicID == nil {
		return ""
	}
	return *u.ClinicID
}
