package handler

import (
	"time"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

type createAppointmentRequest struct {
	PatientID   string    `json:"patient_id" validate:"required"`
	DoctorID    string    `json:"doctor_id"`
	StartsAt    time.Time `json:"starts_at"  validate:"required"`
	DurationMin int       `json:"duration_min"`
	Notes       string    `json:"notes"`
}

type updateAppointmentRequest struct {
	DoctorID    string    `json:"doctor_id"`
	StartsAt    time.Time `json:"starts_at"`
	DurationMin int       `json:"duration_min"`
	Notes       string    `json:"notes"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed completed cancelled no_show"`
}

type appointmentResponse struct {
	ID          string    `json:"id"`
	ClinicID    string    `json:"clinic_id"`
	PatientID   string    `json:"patient_id"`
	DoctorID    string    `json:"doctor_id,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	DurationMin int       `json:"duration_min"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type listAppointmentsResponse struct {
	Data       []appointmentResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}

func toAppointmentResponse(a *domain.Appointment, locale string) appointmentResponse {
	return appointmentResponse{
		ID:          a.ID,
		ClinicID:    a.ClinicID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		StartsAt:    a.StartsAt,
		DurationMin: int(a.Duration.Minutes()),
		Status:      string(a.Status),
		StatusLabel: a.Status.Label(locale),
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
	}
}
