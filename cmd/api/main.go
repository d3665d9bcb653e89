package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/careshare/careshare-api/internal/auth"
	"github.com/careshare/careshare-api/internal/config"
	"github.com/careshare/careshare-api/internal/database"
	"github.com/careshare/careshare-api/internal/document"
	httpServer "github.com/careshare/careshare-api/internal/http"
	"github.com/careshare/careshare-api/internal/logging"
	"github.com/careshare/careshare-api/internal/user"

	_ "github.com/careshare/careshare-api/docs" // Swagger docs
)

// @title           CareShare API
// @version         1.0
// @description     REST backend for the CareShare charity platform: donations, volunteers, testimonials, feedback and password-based authentication.

// @host      localhost:5000
// @BasePath  /

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration; a missing signing key fails here, not later
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Apply schema migrations (includes the unique email index)
	if err := database.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize PASETO service
	pasetoService, err := auth.NewPasetoService(cfg.Auth.PasetoKey)
	if err != nil {
		return fmt.Errorf("failed to initialize PASETO service: %w", err)
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)

	// Initialize auth service and handler
	authService := auth.NewService(userRepo, pasetoService, logger, cfg.Auth.TokenTTL)
	authHandler := auth.NewHandler(authService)

	// Initialize resource collection handlers
	resources := httpServer.ResourceHandlers{
		Donation:     document.NewHandler(document.NewRepository(db, "donation")),
		Leaderboard:  document.NewHandler(document.NewRepository(db, "leaderboard")),
		Volunteer:    document.NewHandler(document.NewRepository(db, "volunteer")),
		Testimonials: document.NewHandler(document.NewRepository(db, "testimonial")),
		Feedback:     document.NewHandler(document.NewRepository(db, "feedback")),
	}

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, resources, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}
