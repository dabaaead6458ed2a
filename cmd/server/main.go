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

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/api"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/catalog"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/coach"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/config"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository/memory"
	mongorepo "github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository/mongo"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/scheduler"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/service"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Recovery Plan API
// @version 1.0
// @description API for recovery plans, daily check-ins, progress tracking, health reports and AI coaching.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Recovery Plan Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Repositories (mongo or in-memory per config) ---
	var (
		userRepo   repository.UserRepository
		planRepo   repository.PlanRepository
		reportRepo repository.ReportRepository
	)
	switch cfg.Database.Driver {
	case "memory":
		log.Println("Using in-memory store (data is lost on restart).")
		userRepo = memory.NewUserRepository()
		planRepo = memory.NewPlanRepository()
		reportRepo = memory.NewReportRepository()
	default:
		dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
		}
		defer func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongorepo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Println("Database connection established.")

		// Index creation runs in the background so a slow Mongo does not
		// delay startup.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			mongorepo.EnsureUserIndexes(ctx, appDB.Collection("users"))
			mongorepo.EnsurePlanIndexes(ctx, appDB.Collection("recovery_plans"), appDB.Collection("plan_checkins"))
			mongorepo.EnsureReportIndexes(ctx, appDB.Collection("health_reports"))
			log.Println("Index creation process completed.")
		}()

		userRepo = mongorepo.NewMongoUserRepository(appDB)
		planRepo = mongorepo.NewMongoPlanRepository(appDB)
		reportRepo = mongorepo.NewMongoReportRepository(appDB)
	}

	// --- Template catalog ---
	templates := catalog.Default()
	if cfg.Templates.Path != "" {
		templates, err = catalog.LoadFile(cfg.Templates.Path)
		if err != nil {
			log.Fatalf("FATAL: Could not load template catalog: %v", err)
		}
		log.Printf("Loaded %d plan templates from %s", len(templates.List()), cfg.Templates.Path)
	}

	// --- File storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(planRepo, templates)
	reportService := service.NewReportService(reportRepo, fileStorage)
	coachClient := coach.NewHTTPCoach(coach.Config{
		Endpoint: cfg.Coach.Endpoint,
		APIKey:   cfg.Coach.APIKey,
		Model:    cfg.Coach.Model,
		Timeout:  cfg.Coach.Timeout,
	})

	// --- Reminder scheduler ---
	reminders := scheduler.New(planService, nil, nil, cfg.Reminder.PollInterval)
	if cfg.Reminder.Enabled {
		reminders.Start()
		defer reminders.Stop()
		// Drain raised prompts. A push transport would subscribe here; the
		// notifier already logged each prompt.
		go func() {
			for range reminders.Events() {
			}
		}()
	}

	// --- HTTP server ---
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, planService, reportService, coachClient)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
