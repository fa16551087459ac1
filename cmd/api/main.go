package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/serenispa/serenity-api/docs" // Swagger docs
	"github.com/serenispa/serenity-api/internal/config"
	"github.com/serenispa/serenity-api/internal/database"
	"github.com/serenispa/serenity-api/internal/gateway"
	"github.com/serenispa/serenity-api/internal/handlers"
	"github.com/serenispa/serenity-api/internal/jobs"
	"github.com/serenispa/serenity-api/internal/middleware"
	"github.com/serenispa/serenity-api/internal/repository"
	"github.com/serenispa/serenity-api/internal/seed"
	"github.com/serenispa/serenity-api/internal/services"
	"github.com/serenispa/serenity-api/internal/storage"
	"github.com/serenispa/serenity-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Serenity API
// @version 1.0
// @description REST API for the Serenity Massage & Wellness practice management system

// @contact.name API Support
// @contact.email support@serenityspa.app

// @host localhost:8081
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Set them in .env and ensure the From domain is verified in Resend dashboard.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Payment gateway (simulated processor)
	gw := gateway.NewSimulatedGateway(
		gateway.WithLatency(time.Duration(cfg.GatewayLatencyMs)*time.Millisecond),
		gateway.WithDeclineRate(cfg.GatewayDeclineRate),
	)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, gw, cfg, db)

	// Development-only demo data
	if cfg.SeedData && cfg.Environment != "production" {
		if err := seed.Run(context.Background(), db); err != nil {
			logger.Error("Seeding failed", "error", err)
		} else {
			logger.Info("Seeded demo data")
		}
	}

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, cfg)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Password recovery (public)
		v1.POST("/users/send_recovery_code", h.User.SendRecoveryCode)
		v1.POST("/users/verify_recovery_code", h.User.VerifyRecoveryCode)
		v1.POST("/users/update_password_with_code", h.User.UpdatePasswordWithCode)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// Staff management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.PUT("/users/:user_id/toggle_status", h.User.ToggleStatus)
				admin.POST("/users/:user_id/restore", h.User.Restore)

				// Refunds
				admin.POST("/payments/:payment_id/refund", h.Payment.Refund)

				// Ledger corrections
				admin.PUT("/transactions/:transaction_id", h.Transaction.Update)
				admin.DELETE("/transactions/:transaction_id", h.Transaction.Delete)

				// Financial reports
				admin.GET("/reports/profit_loss", h.Report.ProfitLoss)
				admin.GET("/reports/profit_loss/quarterly", h.Report.QuarterlyProfitLoss)
				admin.GET("/reports/cash_flow", h.Report.CashFlow)
				admin.GET("/reports/tax", h.Report.Tax)

				// Audit trail
				admin.GET("/audits", h.Audit.Index)

				// Background job stats
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Staff profile access (admin or the profile owner)
			protected.GET("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.PATCH("/users/:user_id/change_password", h.User.ChangePassword)

			// Front desk routes (admin or receptionist)
			frontDesk := protected.Group("")
			frontDesk.Use(middleware.RequireRole("admin", "receptionist"))
			{
				// Client records
				frontDesk.POST("/clients", h.Client.Create)
				frontDesk.PUT("/clients/:client_id", h.Client.Update)
				frontDesk.DELETE("/clients/:client_id", h.Client.Archive)
				frontDesk.POST("/clients/:client_id/restore", h.Client.Restore)

				// Billing
				frontDesk.POST("/invoices", h.Invoice.Create)
				frontDesk.POST("/payments", h.Payment.Create)
				frontDesk.GET("/payments/stats", h.Payment.Stats)

				// Manual ledger entries
				frontDesk.POST("/transactions", h.Transaction.Create)
				frontDesk.POST("/transactions/:transaction_id/receipt", h.Transaction.AttachReceipt)
				frontDesk.GET("/transactions/export", h.Transaction.Export)
			}

			// All staff (therapists included)
			protected.GET("/users/therapists", h.User.Therapists)

			protected.GET("/clients", h.Client.Index)
			protected.GET("/clients/:client_id", h.Client.Show)
			protected.GET("/clients/:client_id/appointments", h.Client.Appointments)
			protected.GET("/clients/:client_id/invoices", h.Client.Invoices)

			protected.GET("/appointments", h.Appointment.Index)
			protected.POST("/appointments", h.Appointment.Create)
			protected.GET("/appointments/:appointment_id", h.Appointment.Show)
			protected.PUT("/appointments/:appointment_id/complete", h.Appointment.Complete)
			protected.PUT("/appointments/:appointment_id/cancel", h.Appointment.Cancel)
			protected.PUT("/appointments/:appointment_id/no_show", h.Appointment.NoShow)

			// Clinical notes
			protected.GET("/appointments/:appointment_id/soap_note", h.SOAPNote.ShowByAppointment)
			protected.POST("/appointments/:appointment_id/soap_note", h.SOAPNote.Create)
			protected.GET("/soap_notes/:note_id", h.SOAPNote.Show)
			protected.PUT("/soap_notes/:note_id", h.SOAPNote.Update)
			protected.PUT("/soap_notes/:note_id/lock", h.SOAPNote.Lock)

			// Billing views
			protected.GET("/invoices", h.Invoice.Index)
			protected.GET("/invoices/:invoice_id", h.Invoice.Show)
			protected.GET("/invoices/:invoice_id/payments", h.Invoice.Payments)
			protected.GET("/invoices/:invoice_id/pdf", h.Invoice.DownloadPDF)

			protected.GET("/payments", h.Payment.Index)
			protected.GET("/payments/:payment_id", h.Payment.Show)
			protected.GET("/payments/:payment_id/receipt", h.Receipt.Download)
			protected.POST("/payments/:payment_id/receipt/email", h.Receipt.Email)

			protected.GET("/transactions", h.Transaction.Index)
			protected.GET("/transactions/:transaction_id", h.Transaction.Show)

			// Notifications (users can manage their own notifications)
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.PUT("/:notification_id", h.Notification.Update)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	gracePeriod := time.Duration(cfg.OverdueGraceDays) * 24 * time.Hour

	// Flag overdue invoices every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue invoices...")
		count, err := svcs.Invoice.MarkOverdueInvoices(ctx, gracePeriod, svcs.Notification)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Info("[Job] Flagged overdue invoices", "count", count)
		}
		return nil
	})

	// Daily appointment reminder emails
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sending appointment reminders...")
		count, err := svcs.Appointment.SendReminders(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Info("[Job] Sent appointment reminders", "count", count)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
