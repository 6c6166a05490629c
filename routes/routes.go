package routes

import (
	"CogniCare/cache"
	"CogniCare/config"
	"CogniCare/controllers"
	"CogniCare/handlers"
	"CogniCare/middlewares"
	"CogniCare/repositories"
	"CogniCare/services"
	"CogniCare/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Access-Token"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories
	patientRepo := repositories.NewPatientRepository(cache)
	assessmentRepo := repositories.NewAssessmentRepository(cache)
	questionRepo := repositories.NewQuestionRepository(cache)
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	notificationRepo := repositories.NewNotificationRepository()
	userRepo := repositories.NewUserRepository(db, cache)

	// External collaborators
	mailer := utils.NewSMTPSender()
	meetings := utils.NewHTTPMeetingClient()

	// Services
	patientService := services.NewPatientService(patientRepo)
	questionService := services.NewQuestionService(questionRepo)
	assessmentService := services.NewAssessmentService(assessmentRepo, questionRepo, patientService, services.NewRedisDraftLocker())
	reviewService := services.NewReviewService(assessmentRepo, patientRepo, notificationRepo, mailer)
	appointmentService := services.NewAppointmentService(appointmentRepo, patientRepo, notificationRepo, meetings, mailer)
	userService := services.NewUserService(userRepo)

	// Handlers
	patientHandler := handlers.NewPatientHandler(patientService)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService, reviewService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	authHandler := handlers.NewAuthHandler(userService)

	// Register routes
	controllers.SetupClinicRoutes(
		router,
		patientHandler,
		assessmentHandler,
		appointmentHandler,
		questionHandler,
	)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
