package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"runplan/marathon-planner/internal/service"
)

// SetupRoutes defines all the API routes and applies middleware.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	exportService service.ExportService,
	syncService service.SyncService,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService, exportService, syncService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		protected := apiV1.Group("")
		protected.Use(AuthMiddleware(jwtSecret))
		{
			protected.GET("/me", func(c *gin.Context) {
				userID, err := getUserIDFromContext(c)
				if err != nil {
					abortWithError(c, http.StatusUnauthorized, err.Error())
					return
				}
				c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
			})

			planRoutes := protected.Group("/plans")
			{
				planRoutes.POST("", planHandler.GeneratePlan)
				planRoutes.GET("", planHandler.ListPlans)
				planRoutes.GET("/:planId", planHandler.GetPlan)
				planRoutes.DELETE("/:planId", planHandler.DeletePlan)
				planRoutes.GET("/:planId/calendar", planHandler.MonthGrid)
				planRoutes.GET("/:planId/export", planHandler.ExportPlan)
				planRoutes.POST("/:planId/export/link", planHandler.PublishPlan)
				planRoutes.POST("/:planId/sync", planHandler.SyncPlan)
			}

			protected.DELETE("/sync", planHandler.RemoveSyncedEvents)
		}
	}
}
