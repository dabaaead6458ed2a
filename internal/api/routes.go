package api

import (
	"net/http"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/coach"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	reportService service.ReportService,
	coachClient coach.Coach,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	reportHandler := NewReportHandler(reportService)
	coachHandler := NewCoachHandler(coachClient)

	authMiddleware := AuthMiddleware(jwtSecret)

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
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Template catalog ---
		protected.GET("/templates", planHandler.ListTemplates)

		// --- Plan lifecycle ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListMyPlans)
			planGroup.GET("/active", planHandler.GetActivePlan)
			planGroup.POST("/:planId/checkins", planHandler.RecordCheckIn)
			planGroup.GET("/:planId/progress", planHandler.GetProgress)
			planGroup.GET("/:planId/summary", planHandler.GetSummary)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)

			// Administrative force-close, independent of the end date.
			planGroup.POST("/:planId/close", RoleMiddleware(domain.RoleAdmin), planHandler.ClosePlan)
		}

		// --- AI coach (optional collaborator) ---
		protected.POST("/coach/chat", coachHandler.Chat)

		// --- Health report uploads ---
		reportGroup := protected.Group("/reports")
		{
			reportGroup.POST("/upload-url", reportHandler.RequestUploadURL)
			reportGroup.POST("/confirm", reportHandler.ConfirmUpload)
			reportGroup.GET("", reportHandler.ListMyReports)
		}
	}
}
