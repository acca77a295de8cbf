package ports

import (
	"context"
	"io"
	"time"
)

type ExportAppointmentsInput struct {
	ClinicID string
	From     time.Time
	To       time.Time
	Locale   string
}

// ExportService writes tenant-scoped CSV reports. ClinicID == "" (admin)
// exports across all tenants.
type ExportService interface {
	AppointmentsCSV(ctx context.Context, w io.Writer, input ExportAppointmentsInput) error
	PatientsCSV(ctx context.Context, w io.Writer, clinicID string) error
}
