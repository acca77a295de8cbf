package domain

import (
	"errors"
	"time"
)

var ErrClinicNotFound = errors.New("clinic not found")
var ErrClinicExists = errors.New("clinic already exists")

// Clinic is a tenant: the unit of data isolation. Every patient, doctor and
// appointment row carries a clinic id, and every tenant-scoped query filters
// on it.
type Clinic struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
