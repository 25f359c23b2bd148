package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/roster/internal/handlers"
	"github.com/alimgiray/roster/internal/middleware"
	"github.com/alimgiray/roster/internal/repositories"
	"github.com/alimgiray/roster/internal/services"
	"github.com/alimgiray/roster/pkg/config"
	"github.com/alimgiray/roster/pkg/database"
	"github.com/alimgiray/roster/pkg/logger"
	"github.com/gin-gonic/gin"
)

// personStore is what the server needs from a repository
type personStore interface {
	services.PersonStore
	services.PersonSeeder
	handlers.Pinger
}

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	logger.Init(cfg.Log.Level)
	gin.SetMode(cfg.Server.Mode)

	// Initialize storage
	var store personStore
	switch cfg.Database.Driver {
	case "memory":
		store = repositories.NewMemoryPersonRepository()
		logger.Warnf("Using in-memory store, data will not survive a restart")
	case "sqlite":
		if err := database.Init(cfg.Database.Path); err != nil {
			logger.Fatalf("Failed to initialize database: %v", err)
		}
		defer database.Close()
		store = repositories.NewPersonRepository(database.DB)
	default:
		logger.Fatalf("Unknown DB_DRIVER %q, expected sqlite or memory", cfg.Database.Driver)
	}

	if _, err := services.NewSeedService(store).SeedIfEmpty(cfg.Seed.Count); err != nil {
		logger.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize dependencies
	personService := services.NewPersonService(store)
	importService := services.NewImportService(personService)
	exportService := services.NewExportService(personService)
	personHandler := handlers.NewPersonHandler(personService, importService, exportService)
	healthHandler := handlers.NewHealthHandler(store)

	// Initialize router
	router := gin.New()

	// Apply middleware
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins))

	// Setup routes
	handlers.SetupRoutes(router, personHandler, healthHandler)

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Backend running at http://localhost:%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server stopped")
}
