package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
)

const defaultSpec = "0 9 * * *" // 09:00 daily

// ReminderScheduler runs the daily reminder sweep: every appointment
// scheduled or confirmed for tomorrow gets one reminder message. Re-running
// the sweep is safe; the message layer dedups on (recipient, kind, ref).
type ReminderScheduler struct {
	appointments ports.AppointmentRepository
	patients     ports.PatientRepository
	messages     ports.MessageService
	channel      domain.MessageChannel
	locale       string
	cron         *cron.Cron
	log          zerolog.Logger
}

func NewReminderScheduler(
	appointments ports.AppointmentRepository,
	patients ports.PatientRepository,
	messages ports.MessageService,
	channel domain.MessageChannel,
	locale string,
	log zerolog.Logger,
) *ReminderScheduler {
	if locale == "" {
		locale = "en"
	}
	return &ReminderScheduler{
		appointments: appointments,
		patients:     patients,
		messages:     messages,
		channel:      channel,
		locale:       locale,
		cron:         cron.New(),
		log:          log,
	}
}

// Start registers the sweep under spec (cron syntax) and launches the
// scheduler. An empty spec falls back to the 09:00 daily run.
func (s *ReminderScheduler) Start(ctx context.Context, spec string) error {
	if spec == "" {
		spec = defaultSpec
	}
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.Run(ctx, time.Now().UTC()); err != nil {
			s.log.Error().Err(err).Msg("reminder sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder sweep: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *ReminderScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Run performs one sweep for the day after now. Exported so an operator can
// trigger it out of schedule.
func (s *ReminderScheduler) Run(ctx context.Context, now time.Time) error {
	from := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	appts, err := s.appointments.ListWindow(ctx, "", from, to)
	if err != nil {
		return fmt.Errorf("load reminder window: %w", err)
	}

	var sent, skipped int
	for _, appt := range appts {
		if appt.Status != domain.StatusScheduled && appt.Status != domain.StatusConfirmed {
			skipped++
			continue
		}

		patient, err := s.patients.FindByID(ctx, appt.ClinicID, appt.PatientID)
		if err != nil {
			s.log.Warn().Err(err).
				Str("appointment_id", appt.ID).
				Msg("reminder skipped, patient lookup failed")
			skipped++
			continue
		}

		msg := domain.OutboundMessage{
			ClinicID:  appt.ClinicID,
			Channel:   s.channel,
			Kind:      domain.KindReminder,
			To:        patient.Phone,
			Body:      reminderBody(patient.Name, appt.StartsAt, s.locale),
			Ref:       appt.ID,
			CreatedAt: now,
		}
		if err := s.messages.Enqueue(ctx, msg); err != nil {
			s.log.Warn().Err(err).
				Str("appointment_id", appt.ID).
				Msg("reminder enqueue failed")
			continue
		}
		sent++
	}

	s.log.Info().
		Int("sent", sent).
		Int("skipped", skipped).
		Time("window_start", from).
		Msg("reminder sweep finished")
	return nil
}

func reminderBody(name string, startsAt time.Time, locale string) string {
	when := startsAt.Format("02/01 15:04")
	if locale == "el" {
		return fmt.Sprintf("%s, υπενθύμιση για το ραντεβού σας στις %s.", name, when)
	}
	return fmt.Sprintf("%s, reminder for your appointment on %s.", name, when)
}
