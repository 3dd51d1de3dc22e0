package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"runplan/marathon-planner/internal/api"
	"runplan/marathon-planner/internal/config"
	"runplan/marathon-planner/internal/gcal"
	mongorepo "runplan/marathon-planner/internal/repository/mongo"
	"runplan/marathon-planner/internal/service"
	"runplan/marathon-planner/internal/storage"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load configuration: %v", err)
	}
	log.Println("INFO: Configuration loaded successfully.")

	// --- Database Connection ---
	mongoClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongorepo.DisconnectDB(mongoClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.Database.Name)

	// Index creation can take a moment on large collections; do not hold
	// up startup for it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		mongorepo.EnsureUserIndexes(ctx, db.Collection("users"))
		mongorepo.EnsurePlanIndexes(ctx, db.Collection("training_plans"))
	}()

	// --- File Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize S3 storage: %v", err)
	}
	log.Println("INFO: S3 storage initialized.")

	// --- Google Calendar Client ---
	// Credentials are validated lazily on first use, so a deployment
	// without calendar sync configured still starts cleanly.
	calendarClient := gcal.NewClient(gcal.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		APIKey:       cfg.Google.APIKey,
		RefreshToken: cfg.Google.RefreshToken,
		CalendarID:   cfg.Google.CalendarID,
	})

	// --- Repositories ---
	userRepo := mongorepo.NewMongoUserRepository(db)
	planRepo := mongorepo.NewMongoPlanRepository(db)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(planRepo)
	exportService := service.NewExportService(planService, planRepo, fileStorage)
	syncService := service.NewSyncService(planService, calendarClient)

	// --- Router ---
	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, authService, planService, exportService, syncService)

	// --- HTTP Server with graceful shutdown ---
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Printf("INFO: Starting server on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("INFO: Server exiting.")
}
