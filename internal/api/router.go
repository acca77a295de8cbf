package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentaflow/clinic-system/internal/api/handler"
	"github.com/dentaflow/clinic-system/internal/api/middleware"
	"github.com/dentaflow/clinic-system/internal/core/domain"
	"github.com/dentaflow/clinic-system/internal/core/ports"
	httphandlers "github.com/dentaflow/clinic-system/internal/infrastructure/http/handlers"
)

// Deps bundles everything the router needs. Services are built in main so
// the message dispatcher and the reminder scheduler can share them.
type Deps struct {
	Auth         ports.AuthService
	Patients     ports.PatientService
	Doctors      ports.DoctorService
	Appointments ports.AppointmentService
	Clinics      ports.ClinicService
	Exports      ports.ExportService

	DB    *mongo.Database
	Redis *redis.Client

	Locale        string
	SecureCookies bool
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("clinic"))
	e.Use(middleware.Guard())

	// --- Operational surface ---
	healthHandler := httphandlers.NewHealthHandler()
	healthDepsHandler := httphandlers.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Pages (guard decides who reaches which prefix) ---
	handler.NewPageHandler().Register(e)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.SecureCookies)

	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/logout", authHandler.Logout)
	e.POST("/api/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/api/auth/verify", authHandler.Verify)
	e.POST("/api/auth/reset-password", authHandler.ResetPassword)

	// --- Authenticated API ---
	apiGroup := e.Group("/api", middleware.Authenticate(deps.Auth))

	patientHandler := handler.NewPatientHandler(deps.Patients, deps.Auth)
	patients := apiGroup.Group("/patients")
	patients.POST("", patientHandler.Create, middleware.RequirePermission(domain.PermCreatePatients))
	patients.GET("", patientHandler.List, middleware.RequirePermission(domain.PermViewPatients))
	patients.GET("/:id", patientHandler.Get, middleware.RequirePermission(domain.PermViewPatients))
	patients.PUT("/:id", patientHandler.Update, middleware.RequirePermission(domain.PermEditPatients))
	patients.DELETE("/:id", patientHandler.Delete, middleware.RequirePermission(domain.PermDeletePatients))

	doctorHandler := handler.NewDoctorHandler(deps.Doctors, deps.Auth)
	doctors := apiGroup.Group("/doctors")
	doctors.POST("", doctorHandler.Create, middleware.RequirePermission(domain.PermCreateDoctors))
	doctors.GET("", doctorHandler.List, middleware.RequirePermission(domain.PermViewDoctors))
	doctors.GET("/:id", doctorHandler.Get, middleware.RequirePermission(domain.PermViewDoctors))
	doctors.PUT("/:id", doctorHandler.Update, middleware.RequirePermission(domain.PermEditDoctors))
	doctors.DELETE("/:id", doctorHandler.Delete, middleware.RequirePermission(domain.PermDeleteDoctors))

	appointmentHandler := handler.NewAppointmentHandler(deps.Appointments, deps.Auth, deps.Locale)
	appointments := apiGroup.Group("/appointments")
	appointments.POST("", appointmentHandler.Create, middleware.RequirePermission(domain.PermCreateAppointments))
	appointments.GET("", appointmentHandler.List, middleware.RequirePermission(domain.PermViewAppointments))
	appointments.GET("/:id", appointmentHandler.Get, middleware.RequirePermission(domain.PermViewAppointments))
	appointments.PUT("/:id", appointmentHandler.Update, middleware.RequirePermission(domain.PermEditAppointments))
	appointments.PUT("/:id/status", appointmentHandler.ChangeStatus, middleware.RequirePermission(domain.PermEditAppointments))
	appointments.DELETE("/:id", appointmentHandler.Delete, middleware.RequirePermission(domain.PermDeleteAppointments))

	exportHandler := handler.NewExportHandler(deps.Exports, deps.Auth, deps.Locale)
	exports := apiGroup.Group("/exports", middleware.RequirePermission(domain.PermViewReports))
	exports.GET("/appointments.csv", exportHandler.Appointments)
	exports.GET("/patients.csv", exportHandler.Patients)

	adminHandler := handler.NewAdminHandler(deps.Clinics)
	admin := apiGroup.Group("/admin")

	clinics := admin.Group("/clinics", middleware.RequirePermission(domain.PermManageClinics))
	clinics.POST("", adminHandler.CreateClinic)
	clinics.GET("", adminHandler.ListClinics)
	clinics.PUT("/:id/active", adminHandler.SetClinicActive)

	users := admin.Group("/users", middleware.RequirePermission(domain.PermManageUsers))
	users.POST("", adminHandler.CreateUser)
	users.GET("", adminHandler.ListUsers)
	users.PUT("/:id/clinic", adminHandler.AssignClinic)
	users.PUT("/:id/active", adminHandler.SetUserActive)

	return e
}
