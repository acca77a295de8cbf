package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

func TestExportService_AppointmentsCSV_TenantScoped(t *testing.T) {
	appts := newStubAppointmentRepo()
	patients := newStubPatientRepo()
	svc := NewExportService(appts, patients, zerolog.Nop())
	ctx := context.Background()
	base := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

	seed := []domain.Appointment{
		{ID: "a1", ClinicID: "clinic-a", PatientID: "p1", StartsAt: base, Duration: 30 * time.Minute, Status: domain.StatusConfirmed},
		{ID: "a2", ClinicID: "clinic-a", PatientID: "p2", StartsAt: base.Add(time.Hour), Duration: time.Hour, Status: domain.StatusScheduled},
		{ID: "a3", ClinicID: "clinic-b", PatientID: "p3", StartsAt: base, Duration: 30 * time.Minute, Status: domain.StatusScheduled},
	}
	for i := range seed {
		if _, err := appts.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	var buf bytes.Buffer
	err := svc.AppointmentsCSV(ctx, &buf, ports.ExportAppointmentsInput{
		ClinicID: "clinic-a",
		From:     base.Add(-time.Hour),
		To:       base.AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 { // header + 2 tenant rows
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" || rows[0][6] != "status" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	for _, row := range rows[1:] {
		if row[1] != "clinic-a" {
			t.Fatalf("foreign tenant row leaked: %v", row)
		}
	}
}

func TestExportService_AppointmentsCSV_LocalizedLabels(t *testing.T) {
	appts := newStubAppointmentRepo()
	svc := NewExportService(appts, newStubPatientRepo(), zerolog.Nop())
	ctx := context.Background()

	a := domain.Appointment{ID: "a1", ClinicID: "clinic-a", PatientID: "p1", StartsAt: time.Now().UTC(), Duration: 30 * time.Minute, Status: domain.StatusCancelled}
	if _, err := appts.Create(ctx, &a); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.AppointmentsCSV(ctx, &buf, ports.ExportAppointmentsInput{ClinicID: "clinic-a", Locale: "el"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "Ακυρωμένο") {
		t.Fatalf("expected localized status label in output:\n%s", buf.String())
	}
}

func TestExportService_PatientsCSV(t *testing.T) {
	patients := newStubPatientRepo()
	svc := NewExportService(newStubAppointmentRepo(), patients, zerolog.Nop())
	ctx := context.Background()

	for _, p := range []domain.Patient{
		{ID: "p1", ClinicID: "clinic-a", Name: "Maria", Phone: "+306912345678", CreatedAt: time.Now().UTC()},
		{ID: "p2", ClinicID: "clinic-b", Name: "Nikos", Phone: "+306900000000", CreatedAt: time.Now().UTC()},
	} {
		clone := p
		if _, err := patients.Create(ctx, &clone); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := svc.PatientsCSV(ctx, &buf, "clinic-a"); err != nil {
		t.Fatalf("export: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][2] != "Maria" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}
