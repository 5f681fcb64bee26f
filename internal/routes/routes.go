package routes

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driftwoodweb/studio-api/internal/audit"
	"github.com/driftwoodweb/studio-api/internal/config"
	"github.com/driftwoodweb/studio-api/internal/counter"
	domain "github.com/driftwoodweb/studio-api/internal/domain/booking"
	"github.com/driftwoodweb/studio-api/internal/handlers"
	infraRepo "github.com/driftwoodweb/studio-api/internal/infra/repository"
	"github.com/driftwoodweb/studio-api/internal/middleware"
	"github.com/driftwoodweb/studio-api/internal/notify"
	"github.com/driftwoodweb/studio-api/internal/payments"
	"github.com/driftwoodweb/studio-api/internal/ratelimit"
	"github.com/driftwoodweb/studio-api/internal/storage"
	"github.com/driftwoodweb/studio-api/internal/timezone"
	ucBooking "github.com/driftwoodweb/studio-api/internal/usecase/booking"
	"github.com/driftwoodweb/studio-api/internal/visits"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	var counterStore counter.Store
	if cfg.RedisAddr != "" {
		rs, err := counter.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("counter: redis unavailable (%v), falling back to in-memory", err)
			counterStore = counter.NewMemoryStore()
		} else {
			counterStore = rs
		}
	} else {
		counterStore = counter.NewMemoryStore()
	}

	limiter := ratelimit.New(counterStore)
	tracker := visits.NewTracker(counterStore, cfg.SiteTimezone)

	var notifier notify.Notifier
	switch {
	case cfg.MailEnabled():
		notifier = notify.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	default:
		notifier = notify.NewConsole()
	}
	notifyDispatcher := notify.NewDispatcher(notifier)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	var files *storage.FileStore
	if cfg.FileStoreEnabled() {
		files = storage.NewFileStore(storage.Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}

	var provider payments.Provider = payments.Disabled{}
	if cfg.PaymentsEnabled() {
		mp, err := payments.NewMercadoPago(cfg.MPAccessToken)
		if err != nil {
			log.Printf("payments: invalid MP_ACCESS_TOKEN (%v), payment links disabled", err)
		} else {
			provider = mp
		}
	}

	var blockKey []byte
	if cfg.CookieBlockKey != "" {
		blockKey = []byte(cfg.CookieBlockKey)
	}
	sessions := middleware.NewSessionManager([]byte(cfg.CookieHashKey), blockKey)

	// ======================================================
	// 🧠 USE CASES — BOOKINGS
	// ======================================================
	rules := domain.Rules{
		StartHour:     cfg.BookingStartHour,
		EndHour:       cfg.BookingEndHour,
		Buffer:        time.Duration(cfg.BufferMinutes) * time.Minute,
		DaysAhead:     cfg.DaysAhead,
		AllowWeekends: cfg.AllowWeekends,
		Durations:     cfg.AllowedDurations,
		Services:      cfg.ServiceLabels(),
		Blackout:      domain.BlackoutSet(cfg.BlackoutDates),
		Location:      timezone.Location(cfg.SiteTimezone),
	}

	bookingStore := infraRepo.NewBookingGormStore(db)

	submitUC := ucBooking.NewSubmit(
		bookingStore,
		rules,
		cfg.SiteTimezone,
		cfg.OperatorEmail,
		cfg.StrictEmailDomainCheck,
		notifyDispatcher,
		auditDispatcher,
	)

	availabilityUC := ucBooking.NewAvailability(
		bookingStore,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(cfg, submitUC, availabilityUC)
	contactHandler := handlers.NewContactHandler(db, notifyDispatcher, auditDispatcher, cfg.OperatorEmail)
	proposalHandler := handlers.NewProposalHandler(db, notifyDispatcher, auditDispatcher, cfg.OperatorEmail)
	visitHandler := handlers.NewVisitHandler(tracker)

	adminAuthHandler := handlers.NewAdminAuthHandler(db, sessions, auditDispatcher)
	adminStatsHandler := handlers.NewAdminStatsHandler(db, cfg, tracker)
	adminBookingHandler := handlers.NewAdminBookingHandler(db, cfg, provider, auditDispatcher)
	adminExportHandler := handlers.NewAdminExportHandler(db, cfg)
	adminPortalHandler := handlers.NewAdminPortalHandler(db, cfg, files, notifyDispatcher, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, cfg)

	portalAuthHandler := handlers.NewPortalAuthHandler(db, cfg, notifyDispatcher, auditDispatcher)
	portalHandler := handlers.NewPortalHandler(db, cfg, files, notifyDispatcher, auditDispatcher)

	webhookHandler := handlers.NewPaymentWebhookHandler(db, cfg, provider, notifyDispatcher, auditDispatcher)

	bookingRL := middleware.RateLimitMiddleware(limiter, "booking", cfg.BookingRatePerMinute)
	formsRL := middleware.RateLimitMiddleware(limiter, "forms", cfg.FormRatePerMinute)
	visitsRL := middleware.RateLimitMiddleware(limiter, "visits", cfg.VisitRatePerMinute)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC SITE
		// ------------------------------
		api.GET("/booking/config", bookingHandler.Config)
		api.GET("/booking/availability", bookingHandler.Availability)
		api.POST("/booking", bookingRL, bookingHandler.Create)

		api.POST("/contact", formsRL, contactHandler.Create)
		api.POST("/proposal", formsRL, proposalHandler.Create)
		api.POST("/visits", visitsRL, visitHandler.Record)

		api.POST("/payments/webhook", webhookHandler.Receive)

		// ------------------------------
		// 🔐 ADMIN AUTH
		// ------------------------------
		api.POST("/admin/login", adminAuthHandler.Login)
		api.POST("/admin/logout", adminAuthHandler.Logout)

		// ------------------------------
		// 🔐 ADMIN DASHBOARD
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(db, sessions))
		{
			admin.GET("/me", adminAuthHandler.Me)
			admin.GET("/stats", adminStatsHandler.Stats)

			admin.GET("/bookings", adminBookingHandler.List)
			admin.PATCH("/bookings/:id", adminBookingHandler.Update)
			admin.POST("/bookings/:id/payment-link", adminBookingHandler.CreatePaymentLink)

			admin.GET("/contacts", contactHandler.List)
			admin.PATCH("/contacts/:id", contactHandler.UpdateStatus)

			admin.GET("/proposals", proposalHandler.List)
			admin.PATCH("/proposals/:id", proposalHandler.UpdateStatus)

			admin.GET("/export/bookings.csv", adminExportHandler.Bookings)
			admin.GET("/export/contacts.csv", adminExportHandler.Contacts)
			admin.GET("/export/proposals.csv", adminExportHandler.Proposals)

			admin.GET("/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// PORTAL MANAGEMENT
			// ------------------------------
			admin.POST("/portal/clients", adminPortalHandler.CreateClient)
			admin.GET("/portal/clients", adminPortalHandler.ListClients)
			admin.GET("/portal/clients/:id", adminPortalHandler.GetClient)
			admin.POST("/portal/clients/:id/invite", adminPortalHandler.Invite)
			admin.POST("/portal/clients/:id/projects", adminPortalHandler.CreateProject)

			admin.PATCH("/portal/projects/:id", adminPortalHandler.UpdateProject)
			admin.POST("/portal/projects/:id/milestones", adminPortalHandler.CreateMilestone)
			admin.POST("/portal/projects/:id/files", adminPortalHandler.UploadFile)
			admin.POST("/portal/projects/:id/feedback", adminPortalHandler.PostFeedback)

			admin.PATCH("/portal/milestones/:id", adminPortalHandler.UpdateMilestone)
		}

		// ------------------------------
		// 🔑 CLIENT PORTAL
		// ------------------------------
		api.POST("/portal/request-link", formsRL, portalAuthHandler.RequestLink)
		api.POST("/portal/exchange", portalAuthHandler.Exchange)

		portal := api.Group("/portal")
		portal.Use(middleware.PortalAuthMiddleware(cfg))
		{
			portal.GET("/projects", portalHandler.ListProjects)
			portal.GET("/projects/:id", portalHandler.GetProject)
			portal.POST("/projects/:id/files", portalHandler.UploadFile)
			portal.POST("/projects/:id/feedback", portalHandler.PostFeedback)
			portal.POST("/milestones/:id/approve", portalHandler.ApproveMilestone)
		}
	}
}
