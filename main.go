package main

import (
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/repository"
	"clinic-app-server/internal/routes"
	"clinic-app-server/internal/services"
)

func main() {
	// Load environment variables; a missing .env is fine in production
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading config")
	}

	// Create a DatabaseConfig for models
	modelDbConfig := models.DatabaseConfig{
		DSN: cfg.Database.DSN,
	}

	// Initialize database connection
	db, err := models.InitDB(modelDbConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Pick the notification backend: AMQP when configured, then webhook,
	// falling back to log-only delivery.
	var notifier services.Notifier
	switch {
	case cfg.Notifier.AMQPURL != "":
		amqpNotifier, err := services.NewAMQPNotifier(cfg.Notifier.AMQPURL, cfg.Notifier.AMQPExchange)
		if err != nil {
			logger.Warn().Err(err).Msg("AMQP notifier unavailable, falling back to log notifier")
			notifier = &services.LogNotifier{Log: logger}
		} else {
			defer amqpNotifier.Close()
			notifier = amqpNotifier
		}
	case cfg.Notifier.WebhookURL != "":
		notifier = services.NewWebhookNotifier(cfg.Notifier.WebhookURL)
	default:
		notifier = &services.LogNotifier{Log: logger}
	}
	dispatcher := services.NewDispatcher(notifier, logger)

	// Wire repositories and services
	userRepo := repository.NewUserRepo(db)
	appointmentRepo := repository.NewAppointmentRepo(db)
	availabilityRepo := repository.NewAvailabilityRepo(db)
	documentRepo := repository.NewDocumentRepo(db)
	blobRepo := repository.NewBlobRepo(db)

	booking := services.NewBookingService(appointmentRepo, availabilityRepo, userRepo, dispatcher, cfg.StrictDoctorOwnership, logger)
	documents := services.NewDocumentService(documentRepo, appointmentRepo, userRepo, blobRepo, dispatcher, cfg.StrictDoctorOwnership, logger)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes - passing DB, config and services to let routes.go create the handlers
	routes.SetupRoutes(router, db, cfg, booking, documents)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info().Str("port", cfg.Port).Msg("Server running")
	if err := router.Run(serverAddr); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
