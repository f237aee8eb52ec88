package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/handlers"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, booking *services.BookingService, documents *services.DocumentService) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(booking)
	documentHandler := handlers.NewDocumentHandler(documents)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/me", authHandler.GetProfile)
			userRoutes.POST("/change-password", authHandler.ChangePassword)
		}

		// Doctor directory and availability
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", userHandler.GetDoctors)
			doctorRoutes.GET("/:id/availability", appointmentHandler.GetAvailability)
			doctorRoutes.POST("/availability", middleware.RoleAuthMiddleware(models.RoleDoctor), appointmentHandler.SetAvailability)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("/my", appointmentHandler.GetMyAppointments)

			// Ownership checked in the service (owning patient or doctor)
			appointmentRoutes.DELETE("/:id", appointmentHandler.CancelAppointment)

			// Agenda clients send POST, PUT or PATCH for status changes
			statusUpdate := middleware.RoleAuthMiddleware(models.RoleDoctor)
			appointmentRoutes.POST("/:id/status", statusUpdate, appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PUT("/:id/status", statusUpdate, appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PATCH("/:id/status", statusUpdate, appointmentHandler.UpdateAppointmentStatus)
		}

		// Report routes
		reportRoutes := private.Group("/reports")
		{
			reportRoutes.POST("/upload", middleware.RoleAuthMiddleware(models.RoleDoctor), documentHandler.UploadDocument)
			reportRoutes.PATCH("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor), documentHandler.UpdateDocumentNotes)
			reportRoutes.GET("/my", documentHandler.GetMyDocuments)
			reportRoutes.GET("/:id/download", documentHandler.DownloadDocument)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
