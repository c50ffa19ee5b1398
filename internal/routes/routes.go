package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/petcarelabs/vetclinic-api/internal/audit"
	"github.com/petcarelabs/vetclinic-api/internal/config"
	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/handlers"
	infraRepo "github.com/petcarelabs/vetclinic-api/internal/infra/repository"
	"github.com/petcarelabs/vetclinic-api/internal/infra/slotlock"
	"github.com/petcarelabs/vetclinic-api/internal/middleware"
	ucAppointment "github.com/petcarelabs/vetclinic-api/internal/usecase/appointment"
)

const (
	roleAdmin  = string(domain.RoleAdmin)
	roleVet    = string(domain.RoleVet)
	roleClient = string(domain.RoleClient)
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	locker slotlock.Locker,
	logger *zap.Logger,
) *ucAppointment.SweepOverdueAppointments {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		locker,
		auditDispatcher,
		logger,
	)

	editStaffUC := ucAppointment.NewEditAppointmentStaff(
		appointmentRepo,
		locker,
		auditDispatcher,
		logger,
	)

	editClientUC := ucAppointment.NewEditAppointmentClient(
		appointmentRepo,
		locker,
		auditDispatcher,
		logger,
	)

	cancelClientUC := ucAppointment.NewCancelAppointmentClient(
		appointmentRepo,
		auditDispatcher,
		logger,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		appointmentRepo,
		auditDispatcher,
		logger,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	availableSlotsUC := ucAppointment.NewGetAvailableSlots(appointmentRepo)

	sweepUC := ucAppointment.NewSweepOverdueAppointments(appointmentRepo, logger)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	userHandler := handlers.NewUserHandler(db, auditDispatcher)
	petHandler := handlers.NewPetHandler(db, auditDispatcher)
	typeHandler := handlers.NewAppointmentTypeHandler(db)
	recordHandler := handlers.NewMedicalRecordHandler(db, auditDispatcher)
	supplyHandler := handlers.NewSupplyHandler(db, auditDispatcher)
	treatmentHandler := handlers.NewTreatmentHandler(db)
	invoiceHandler := handlers.NewInvoiceHandler(db, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		editStaffUC,
		editClientUC,
		cancelClientUC,
		deleteAppointmentUC,
		listAppointmentsUC,
		availableSlotsUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.POST("/me/password", meHandler.ChangePassword)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/slots", appointmentHandler.AvailableSlots)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.GET("/appointments/:id/cancel", appointmentHandler.CancelCheck)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			// Veterinarians for the booking form.
			secured.GET("/veterinarians", userHandler.Veterinarians)

			// ------------------------------
			// PETS
			// ------------------------------
			secured.GET("/pets", petHandler.List)
			secured.POST("/pets", petHandler.Create)
			secured.GET("/pets/:id", petHandler.Get)
			secured.PATCH("/pets/:id", petHandler.Update)
			secured.DELETE("/pets/:id", petHandler.Delete)

			secured.GET("/pets/:id/medical-records", recordHandler.ListByPet)

			// ------------------------------
			// CATALOG (read for everyone)
			// ------------------------------
			secured.GET("/appointment-types", typeHandler.List)
			secured.GET("/treatments", treatmentHandler.List)

			// ------------------------------
			// INVOICES (clients see their own)
			// ------------------------------
			secured.GET("/invoices", invoiceHandler.List)
			secured.GET("/invoices/:id", invoiceHandler.Get)

			// ------------------------------
			// STAFF
			// ------------------------------
			staff := secured.Group("/")
			staff.Use(middleware.RequireRoles(roleAdmin, roleVet))
			{
				staff.DELETE("/appointments/:id", appointmentHandler.Delete)

				staff.POST("/medical-records", recordHandler.Create)
				staff.PATCH("/medical-records/:id", recordHandler.Update)
				staff.DELETE("/medical-records/:id", recordHandler.Delete)

				staff.GET("/supplies", supplyHandler.List)
				staff.POST("/supplies", supplyHandler.Create)
				staff.PATCH("/supplies/:id", supplyHandler.Update)
				staff.POST("/supplies/:id/stock", supplyHandler.AdjustStock)
				staff.DELETE("/supplies/:id", supplyHandler.Delete)

				staff.POST("/treatments", treatmentHandler.Create)
				staff.PATCH("/treatments/:id", treatmentHandler.Update)
				staff.DELETE("/treatments/:id", treatmentHandler.Delete)

				staff.POST("/invoices", invoiceHandler.Create)
				staff.PATCH("/invoices/:id/pay", invoiceHandler.MarkPaid)
				staff.PATCH("/invoices/:id/void", invoiceHandler.Void)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireRoles(roleAdmin))
			{
				admin.GET("/users", userHandler.List)
				admin.POST("/users", userHandler.Create)
				admin.GET("/users/:id", userHandler.Get)
				admin.PATCH("/users/:id", userHandler.Update)
				admin.DELETE("/users/:id", userHandler.Delete)

				admin.POST("/appointment-types", typeHandler.Create)
				admin.PATCH("/appointment-types/:id", typeHandler.Update)
				admin.DELETE("/appointment-types/:id", typeHandler.Delete)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}

	return sweepUC
}
