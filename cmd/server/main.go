package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/config"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/db"
	"github.com/joho/godotenv"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Load configuration from environment
	cfg := config.Load()

	// Connect to database using config struct
	dbConn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Handle migrate-only flag
	if *migrateOnlyFlag {
		mode := cfg.App.Migrations
		if mode == config.MigrateOff {
			mode = config.MigrateAuto
		}
		if err := db.Migrate(dbConn, migrationMode(cfg.Database, mode), cfg.Database.DSN()); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
		return
	}

	// Handle seed-only flag
	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Seeding completed successfully")
		return
	}

	// Run migrations on startup if enabled
	if cfg.App.Migrations != config.MigrateOff {
		if err := db.Migrate(dbConn, migrationMode(cfg.Database, cfg.App.Migrations), cfg.Database.DSN()); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Printf("Migrations completed (mode=%s)", cfg.App.Migrations)
	}

	// Seed baseline master data
	if cfg.App.Seed {
		if err := db.Seed(dbConn); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	// Create application handler
	appHandler, err := NewApp(dbConn, cfg)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	// Create server with config timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (dev=%v)", cfg.Server.Port, cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// migrationMode falls back to AutoMigrate on sqlite, which has no SQL
// migration files.
func migrationMode(dbCfg config.DatabaseConfig, mode string) string {
	if dbCfg.Driver == "sqlite" && mode == config.MigrateSQL {
		return config.MigrateAuto
	}
	return mode
}
