package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberflow/internal/audit"
	"github.com/BruksfildServices01/barberflow/internal/config"
	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barberflow/internal/infra/repository"
	"github.com/BruksfildServices01/barberflow/internal/middleware"
	ucScheduling "github.com/BruksfildServices01/barberflow/internal/usecase/scheduling"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	notifier domain.Notifier,
) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// 🧠 USE CASES — SCHEDULING
	// ======================================================
	findAlternativesUC := ucScheduling.NewFindAlternatives(schedulingRepo, cfg)

	smartInsertUC := ucScheduling.NewSmartInsert(
		schedulingRepo,
		cfg,
		findAlternativesUC,
		auditDispatcher,
		notifier,
	)

	getAvailabilityUC := ucScheduling.NewGetAvailability(schedulingRepo, cfg)
	queueStatusUC := ucScheduling.NewQueueStatus(schedulingRepo, cfg)

	rescheduleUC := ucScheduling.NewReschedule(schedulingRepo, cfg, auditDispatcher, notifier)
	confirmUC := ucScheduling.NewConfirmAppointment(schedulingRepo, cfg, auditDispatcher, notifier)
	startUC := ucScheduling.NewStartService(schedulingRepo, cfg, auditDispatcher, notifier)
	completeUC := ucScheduling.NewCompleteAppointment(schedulingRepo, cfg, auditDispatcher, notifier)
	cancelUC := ucScheduling.NewCancelAppointment(schedulingRepo, cfg, auditDispatcher, notifier)

	listByDateUC := ucScheduling.NewListAppointmentsByDate(schedulingRepo, cfg)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db)

	catalogHandler := handlers.NewCatalogHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	barbersHandler := handlers.NewBarbersHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)

	schedulingHandler := handlers.NewSchedulingHandler(
		smartInsertUC,
		getAvailabilityUC,
		findAlternativesUC,
		rescheduleUC,
		confirmUC,
		startUC,
		completeUC,
		cancelUC,
		listByDateUC,
	)

	queueHandler := handlers.NewQueueHandler(queueStatusUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(
		db,
		smartInsertUC,
		getAvailabilityUC,
		queueStatusUC,
	)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/catalog", publicHandler.ListCatalog)
			publicAPI.GET("/:slug/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.GET("/:slug/queue", publicHandler.Queue)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/barbershop", barbershopHandler.GetMeBarbershop)
			secured.PATCH("/me/barbershop", barbershopHandler.UpdateMeBarbershop)

			secured.GET("/me/clients", clientHandler.List)

			secured.GET("/me/barbers", barbersHandler.List)
			secured.POST("/me/barbers", barbersHandler.Create)

			secured.GET("/me/services", catalogHandler.ListServices)
			secured.POST("/me/services", catalogHandler.CreateService)
			secured.PATCH("/me/services/:id", catalogHandler.UpdateService)
			secured.GET("/me/add-ons", catalogHandler.ListAddOns)
			secured.POST("/me/add-ons", catalogHandler.CreateAddOn)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// SCHEDULING
			// ------------------------------
			secured.POST("/me/appointments", schedulingHandler.Create)
			secured.GET("/me/appointments", schedulingHandler.ListByDate)
			secured.GET("/me/availability", schedulingHandler.Availability)
			secured.GET("/me/alternatives", schedulingHandler.Alternatives)
			secured.GET("/me/queue", queueHandler.Get)
			secured.PATCH("/me/appointments/:id/confirm", schedulingHandler.Confirm)
			secured.PATCH("/me/appointments/:id/start", schedulingHandler.Start)
			secured.PATCH("/me/appointments/:id/complete", schedulingHandler.Complete)
			secured.PATCH("/me/appointments/:id/cancel", schedulingHandler.Cancel)
			secured.PATCH("/me/appointments/:id/reschedule", schedulingHandler.Reschedule)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
