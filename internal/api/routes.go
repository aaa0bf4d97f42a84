package api

import (
	"net/http"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	mediaService service.MediaService,
	planService service.WorkoutPlanService,
	progressService service.ProgressService,
	measurementService service.MeasurementService,
	statsService service.StatsService,
	achievementService service.AchievementService,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService, mediaService)
	planHandler := NewPlanHandler(planService)
	progressHandler := NewProgressHandler(progressService, measurementService, statsService, achievementService)

	authMiddleware := AuthMiddleware(jwtSecret)
	catalogAdmin := RoleMiddleware(domain.RoleProfessional, domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			caller, err := getCallerFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user identity from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": caller.ID.Hex(), "role": caller.Role})
		})

		// --- Exercise Catalog Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.List)
			exerciseGroup.GET("/:id", exerciseHandler.GetByID)
			exerciseGroup.GET("/:id/media", exerciseHandler.GetMediaDownloadURL)

			// Catalog writes are restricted to professionals and admins.
			exerciseGroup.POST("", catalogAdmin, exerciseHandler.Create)
			exerciseGroup.PUT("/:id", catalogAdmin, exerciseHandler.Update)
			exerciseGroup.DELETE("/:id", catalogAdmin, exerciseHandler.Delete)
			exerciseGroup.POST("/:id/media/upload-url", catalogAdmin, exerciseHandler.RequestUploadURL)
			exerciseGroup.POST("/:id/media/confirm", catalogAdmin, exerciseHandler.ConfirmUpload)
		}

		// --- Workout Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.Create)
			planGroup.GET("", planHandler.List)
			planGroup.GET("/:id", planHandler.GetByID)
			planGroup.PUT("/:id", planHandler.Update)
			planGroup.DELETE("/:id", planHandler.Delete)
			planGroup.POST("/:id/items", planHandler.AddItem)
			planGroup.DELETE("/:id/items/:exerciseId", planHandler.RemoveItem)
		}

		// --- Progress Routes ---
		progressGroup := protected.Group("/progress")
		{
			progressGroup.POST("/sessions", progressHandler.CreateSession)
			progressGroup.GET("/sessions", progressHandler.ListSessions)
			progressGroup.GET("/sessions/:id", progressHandler.GetSession)
			progressGroup.PUT("/sessions/:id", progressHandler.UpdateSession)
			progressGroup.DELETE("/sessions/:id", progressHandler.DeleteSession)

			progressGroup.POST("/measurements", progressHandler.CreateMeasurement)
			progressGroup.GET("/measurements", progressHandler.ListMeasurements)
			progressGroup.DELETE("/measurements/:id", progressHandler.DeleteMeasurement)

			progressGroup.GET("/stats", progressHandler.GetOverview)
			progressGroup.GET("/compare", progressHandler.CompareWeight)
			progressGroup.GET("/achievements", progressHandler.ListAchievements)
		}
	}
}
