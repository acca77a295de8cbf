package domain

import (
	"errors"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled: {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrAppointmentNotFound = errors.New("appointment not found")
var ErrAppointmentConflict = errors.New("appointment slot already taken")

// CanTransitionTo reports whether a transition from the current status to
// next is valid. Completed, cancelled and no-show are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// statusLabels holds per-locale display strings. The raw status values are
// the storage/API contract; labels are what patients see in messages and
// exports.
var statusLabels = map[string]map[AppointmentStatus]string{
	"en": {
		StatusScheduled: "Scheduled",
		StatusConfirmed: "Confirmed",
		StatusCompleted: "Completed",
		StatusCancelled: "Cancelled",
		StatusNoShow:    "No show",
	},
	"el": {
		StatusScheduled: "Προγραμματισμένο",
		StatusConfirmed: "Επιβεβαιωμένο",
		StatusCompleted: "Ολοκληρωμένο",
		StatusCancelled: "Ακυρωμένο",
		StatusNoShow:    "Δεν προσήλθε",
	},
}

// Label returns the display string for s in the given locale, falling back
// to English and finally to the raw status value.
func (s AppointmentStatus) Label(locale string) string {
	if l, ok := statusLabels[locale][s]; ok {
		return l
	}
	if l, ok := statusLabels["en"][s]; ok {
		return l
	}
	return string(s)
}

// Appointment is a booked visit. ClinicID scopes every read and write.
type Appointment struct {
	ID        string            `json:"id"`
	ClinicID  string            `json:"clinic_id"`
	PatientID string            `json:"patient_id"`
	DoctorID  string            `json:"doctor_id,omitempty"`
	StartsAt  time.Time         `json:"starts_at"`
	Duration  time.Duration     `json:"duration"`
	Status    AppointmentStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
