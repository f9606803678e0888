package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lead_followup_engine/internal/app"
	"lead_followup_engine/internal/infra/alert"
	"lead_followup_engine/internal/infra/config"
	idb "lead_followup_engine/internal/infra/database"
	httphandlers "lead_followup_engine/internal/infra/http/handlers"
	"lead_followup_engine/internal/infra/logger"
	"lead_followup_engine/internal/infra/metrics"
	"lead_followup_engine/internal/infra/notify"
	"lead_followup_engine/internal/infra/queue"
	"lead_followup_engine/internal/infra/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Database
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Repositories
	leadRepo := idb.NewPostgresLeadRepository(db)
	demoRepo := idb.NewPostgresDemoRepository(db)
	activityRepo := idb.NewPostgresActivityRepository(db)
	followUpRepo := idb.NewPostgresFollowUpRepository(db)
	settingsRepo := idb.NewPostgresSettingsRepository(db)

	// Notification channels
	emailSender := notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	smsSender := notify.NewSMSSender(cfg.SMSGatewayURL, cfg.SMSGatewayAPIKey, cfg.SMSFrom)

	// Optional dispatch event stream
	var events app.EventPublisher
	if cfg.RabbitMQURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to RabbitMQ: %v", err)
		}
		defer rabbit.Close()
		events = queue.NewProducer(rabbit.Ch)
		log.Info("RabbitMQ dispatch event stream enabled")
	}

	// Optional operator alerting
	var alerts app.AlertNotifier
	if cfg.TelegramToken != "" {
		notifier, err := alert.NewTelegramNotifier(cfg.TelegramToken, cfg.AdminTelegramID)
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram alert notifier: %v", err)
		}
		alerts = notifier
		log.Info("Telegram operator alerting enabled")
	}

	// Services
	suggestionService := app.NewSuggestionService(leadRepo, demoRepo, activityRepo, log)
	followUpService := app.NewFollowUpService(followUpRepo, leadRepo, activityRepo, log)
	dispatchService := app.NewDispatchService(
		followUpRepo, leadRepo, activityRepo, settingsRepo,
		emailSender, smsSender, events, alerts, log, cfg.DispatchBatchSize,
	)
	prefs := app.NewAutoSendPreferences()

	// Dispatch worker schedule
	dispatchScheduler := scheduler.NewDispatchScheduler(dispatchService, log, cfg.CronSpecDispatch)
	if err := dispatchScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start dispatch scheduler: %v", err)
	}

	// HTTP API
	suggestionHandler := httphandlers.NewSuggestionHandler(suggestionService, followUpService, prefs, log)
	followUpHandler := httphandlers.NewFollowUpHandler(followUpService, log)
	activityHandler := httphandlers.NewActivityHandler(activityRepo, log)
	settingsHandler := httphandlers.NewSettingsHandler(settingsRepo, log)
	healthHandler := httphandlers.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/suggestions", suggestionHandler.HandleList)

		r.Get("/autosend", suggestionHandler.HandleGetPrefs)
		r.Put("/autosend", suggestionHandler.HandleUpdatePrefs)
		r.Post("/autosend/approvals/{suggestionId}", suggestionHandler.HandleApprove)
		r.Delete("/autosend/approvals/{suggestionId}", suggestionHandler.HandleRevoke)
		r.Post("/autosend/disclaimer", suggestionHandler.HandleDisclaimer)

		r.Post("/followups", followUpHandler.HandleSchedule)
		r.Post("/followups/{id}/cancel", followUpHandler.HandleCancel)
		r.Post("/leads/{id}/cancel-followups", followUpHandler.HandleCancelAllForLead)
		r.Put("/leads/{id}/quiet-mode", followUpHandler.HandleQuietMode)
		r.Get("/leads/{id}/activities", activityHandler.HandleListForLead)

		r.Get("/settings/auto-send", settingsHandler.HandleGetAutoSend)
		r.Put("/settings/auto-send", settingsHandler.HandleSetAutoSend)
	})
	r.Get("/healthz", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}
	dispatchScheduler.Stop()
	log.Info("Shut down gracefully")
}
