package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

// ExportService renders tenant-scoped CSV reports. The clinic id comes from
// the authorization resolver; "" means an admin's all-tenants export.
type ExportService struct {
	appointments ports.AppointmentRepository
	patients     ports.PatientRepository
	logger       zerolog.Logger
}

func NewExportService(appointments ports.AppointmentRepository, patients ports.PatientRepository, logger zerolog.Logger) *ExportService {
	return &ExportService{appointments: appointments, patients: patients, logger: logger}
}

func (s *ExportService) AppointmentsCSV(ctx context.Context, w io.Writer, input ports.ExportAppointmentsInput) error {
	locale := input.Locale
	if locale == "" {
		locale = "en"
	}

	appts, err := s.appointments.ListWindow(ctx, input.ClinicID, input.From, input.To)
	if err != nil {
		return fmt.Errorf("export appointments: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "clinic_id", "patient_id", "doctor_id", "starts_at", "duration_min", "status", "status_label", "notes"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range appts {
		row := []string{
			a.ID,
			a.ClinicID,
			a.PatientID,
			a.DoctorID,
			a.StartsAt.UTC().Format(time.RFC3339),
			fmt.Sprintf("%d", int(a.Duration.Minutes())),
			string(a.Status),
			a.Status.Label(locale),
			a.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	s.logger.Info().Str("clinic_id", input.ClinicID).Int("rows", len(appts)).Msg("appointments exported")
	return nil
}

func (s *ExportService) PatientsCSV(ctx context.Context, w io.Writer, clinicID string) error {
	var all []domain.Patient
	page := 1
	for {
		batch, _, err := s.patients.List(ctx, clinicID, "", page, 500)
		if err != nil {
			return fmt.Errorf("export patients: %w", err)
		}
		all = append(all, batch...)
		if len(batch) < 500 {
			break
		}
		page++
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "clinic_id", "name", "phone", "email", "birth_date", "created_at"}); err != nil {
		return err
	}
	for _, p := range all {
		row := []string{p.ID, p.ClinicID, p.Name, p.Phone, p.Email, p.BirthDate, p.CreatedAt.UTC().Format(time.RFC3339)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	s.logger.Info().Str("clinic_id", clinicID).Int("rows", len(all)).Msg("patients exported")
	return nil
}
