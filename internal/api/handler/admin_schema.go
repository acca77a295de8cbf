package handler

import (
	"time"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

type createClinicRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type createUserRequest struct {
	Phone    string  `json:"phone" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Role     string  `json:"role" validate:"required,oneof=admin clinic doctor receptionist"`
	ClinicID *string `json:"clinic_id"`
}

type assignClinicRequest struct {
	ClinicID *string `json:"clinic_id"`
}

type clinicResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	ClinicID  string    `json:"clinic_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toClinicResponse(cl *domain.Clinic) clinicResponse {
	return clinicResponse{
		ID:        cl.ID,
		Name:      cl.Name,
		Phone:     cl.Phone,
		Email:     cl.Email,
		Address:   cl.Address,
		Active:    cl.Active,
		CreatedAt: cl.CreatedAt,
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		ClinicID:  u.ClinicIDValue(),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
