package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitvida/workout-app/internal/api"
	"fitvida/workout-app/internal/config"
	"fitvida/workout-app/internal/events"
	"fitvida/workout-app/internal/repository/mongo"
	"fitvida/workout-app/internal/service"
	"fitvida/workout-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// @title Workout App API
// @version 1.0
// @description API for workout plans, training sessions and progress tracking.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Local development convenience; in deployment the environment is real.
	if err := godotenv.Load(); err == nil {
		log.Debug(".env file loaded")
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("could not load config")
	}

	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("starting workout app server")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureWorkoutPlanIndexes(ctx, appDB.Collection("workout_plans"), appDB.Collection("plan_items"))
		mongo.EnsureProgressIndexes(ctx, appDB.Collection("progress_sessions"), appDB.Collection("session_results"))
		mongo.EnsureMeasurementIndexes(ctx, appDB.Collection("measurements"))
		log.Info("index creation completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize S3 storage")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	planRepo := mongo.NewMongoWorkoutPlanRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	measurementRepo := mongo.NewMongoMeasurementRepository(appDB)
	achievementRepo := mongo.NewMongoAchievementRepository(appDB)

	// --- Event Bus ---
	bus := events.NewBus()
	defer bus.Close()
	go func() {
		// Placeholder consumer until real ones (achievements, notifications)
		// attach. Keeps completed sessions visible in the logs.
		for event := range bus.Subscribe() {
			log.WithFields(log.Fields{
				"sessionId":       event.SessionID.Hex(),
				"ownerId":         event.OwnerID.Hex(),
				"durationSeconds": event.DurationSeconds,
				"status":          event.Status,
			}).Info("session completed")
		}
	}()

	// --- Initialize Services ---
	policy := service.NewAuthorizationPolicy()
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo)
	mediaService := service.NewMediaService(exerciseRepo, fileStorage)
	planService := service.NewWorkoutPlanService(planRepo, userRepo, exerciseService, policy)
	progressService := service.NewProgressService(progressRepo, planService, exerciseService, policy, bus)
	measurementService := service.NewMeasurementService(measurementRepo)
	statsService := service.NewStatsService(progressRepo, measurementRepo)
	achievementService := service.NewAchievementService(achievementRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		exerciseService,
		mediaService,
		planService,
		progressService,
		measurementService,
		statsService,
		achievementService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen and serve error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exiting")
}
