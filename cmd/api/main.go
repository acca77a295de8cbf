package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dentaflow/clinic-system/internal/api"
	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
	"github.com/dentaflow/clinic-system/internal/core/service"
	mongodb "github.com/dentaflow/clinic-system/internal/infrastructure/db/mongo"
	redisdb "github.com/dentaflow/clinic-system/internal/infrastructure/db/redis"
	"github.com/dentaflow/clinic-system/internal/infrastructure/messaging"
	"github.com/dentaflow/clinic-system/internal/infrastructure/queue"
	"github.com/dentaflow/clinic-system/internal/infrastructure/scheduler"
	"github.com/dentaflow/clinic-system/internal/pkg/config"
	"github.com/dentaflow/clinic-system/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Service: "clinic-api", Pretty: !cfg.Production()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, PoolSize: cfg.Redis.PoolSize})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	sessionRepo := mongodb.NewSessionRepository(db)
	clinicRepo := mongodb.NewClinicRepository(db)
	patientRepo := mongodb.NewPatientRepository(db)
	doctorRepo := mongodb.NewDoctorRepository(db)
	apptRepo := mongodb.NewAppointmentRepository(db)

	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{userRepo, sessionRepo, patientRepo, apptRepo} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// --- Messaging ---
	notifiers := []ports.Notifier{
		messaging.NewWhatsAppNotifier(cfg.WhatsApp.BaseURL, cfg.WhatsApp.Token),
		messaging.NewViberNotifier(cfg.Viber.BaseURL, cfg.Viber.Token),
	}
	messageService := service.NewMessageService(notifiers, redisdb.NewMessageDeduper(rdb, cfg.Redis.DedupTTL), log)

	dispatcher := queue.NewDispatcher(cfg.MessageWorkers, messageService, log)
	dispatcher.Start(ctx)
	messageService.Bind(dispatcher)

	// --- Services ---
	authService := service.NewAuthService(userRepo, sessionRepo, messageService, cfg.JWTSecret, cfg.VerifyURL, cfg.SessionTTL, log)
	patientService := service.NewPatientService(patientRepo, log)
	doctorService := service.NewDoctorService(doctorRepo, log)
	appointmentService := service.NewAppointmentService(apptRepo, patientRepo, messageService, cfg.Locale, log)
	clinicService := service.NewClinicService(clinicRepo, userRepo, log)
	exportService := service.NewExportService(apptRepo, patientRepo, log)

	// --- Reminder sweep ---
	reminders := scheduler.NewReminderScheduler(
		apptRepo, patientRepo, messageService,
		domain.MessageChannel(cfg.ReminderChannel), cfg.Locale, log,
	)
	if err := reminders.Start(ctx, cfg.ReminderCron); err != nil {
		log.Fatal().Err(err).Msg("reminder scheduler failed to start")
	}
	defer reminders.Stop()

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Patients:      patientService,
		Doctors:       doctorService,
		Appointments:  appointmentService,
		Clinics:       clinicService,
		Exports:       exportService,
		DB:            db,
		Redis:         rdb,
		Locale:        cfg.Locale,
		SecureCookies: cfg.Production(),
		Logger:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("clinic api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
