package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carebridge/internal/config"
	"carebridge/internal/core"
	"carebridge/internal/database"
	"carebridge/internal/handlers"
	"carebridge/internal/oracle"
	"carebridge/internal/repository"
	"carebridge/internal/security"
	"carebridge/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load persisted state; first boot falls back to the demo profile
	stateRepo := repository.NewStateRepository(db)
	initial := core.InitialState{
		User:        stateRepo.LoadUser(),
		Children:    stateRepo.LoadChildren(),
		Logs:        stateRepo.LoadLogs(),
		Connections: stateRepo.LoadConnections(),
	}

	// Oracle: live Gemini analysis, or the stand-in without an API key
	oracleClient := oracle.New(cfg.GeminiAPIKey, cfg.GeminiModel)

	// Notification center and the optional email mirror for criticals
	notifier := core.NewNotificationCenter(cfg.NotificationDwell)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	engine := core.NewEngine(stateRepo, oracleClient, notifier, initial)

	if emailService.IsEnabled() {
		notifier.SetAlerter(service.NewAlertService(emailService, engine.CurrentUser))
	}

	// Initialize handlers
	issuer := security.NewTokenIssuer(cfg.SessionSecret, cfg.SessionDuration)
	middleware := handlers.NewMiddleware(engine, issuer)
	authHandler := handlers.NewAuthHandler(engine, issuer)
	childHandler := handlers.NewChildHandler(engine)
	connectHandler := handlers.NewConnectHandler(engine)
	logHandler := handlers.NewLogHandler(engine)
	riskHandler := handlers.NewRiskHandler(engine)
	notificationHandler := handlers.NewNotificationHandler(notifier)

	// Setup routes
	mux := http.NewServeMux()

	// Session routes
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("POST /api/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/session", middleware.RequireSession(authHandler.Session))

	// Child profile routes; mutation is parent-only
	mux.HandleFunc("GET /api/children", middleware.RequireSession(childHandler.List))
	mux.HandleFunc("POST /api/children", middleware.RequireParent(childHandler.Create))
	mux.HandleFunc("PUT /api/children/{id}", middleware.RequireParent(childHandler.Update))
	mux.HandleFunc("DELETE /api/children/{id}", middleware.RequireParent(childHandler.Delete))
	mux.HandleFunc("POST /api/children/{id}/select", middleware.RequireSession(childHandler.Select))
	mux.HandleFunc("GET /api/children/{id}/invite", middleware.RequireParent(childHandler.Invite))
	mux.HandleFunc("GET /api/children/{id}/invite/qr", middleware.RequireParent(childHandler.InviteQR))

	// Connection protocol; redemption is educator-only
	mux.HandleFunc("POST /api/connect", middleware.RequireEducator(connectHandler.Connect))

	// Ledger routes
	mux.HandleFunc("POST /api/logs", middleware.RequireSession(logHandler.Append))
	mux.HandleFunc("GET /api/logs", middleware.RequireSession(logHandler.List))
	mux.HandleFunc("POST /api/logs/import", middleware.RequireSession(logHandler.Import))

	// Risk assessment routes
	mux.HandleFunc("GET /api/risk", middleware.RequireSession(riskHandler.Latest))
	mux.HandleFunc("POST /api/risk/refresh", middleware.RequireSession(riskHandler.Refresh))

	// Notification routes
	mux.HandleFunc("GET /api/notifications", middleware.RequireSession(notificationHandler.List))
	mux.HandleFunc("DELETE /api/notifications/{id}", middleware.RequireSession(notificationHandler.Dismiss))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
