package api

import (
	"net/http"

	"jobtrail-backend/internal/auth/delivery"
	authUsecase "jobtrail-backend/internal/auth/usecase"
	emailDelivery "jobtrail-backend/internal/email/delivery"
	emailUsecase "jobtrail-backend/internal/email/usecase"
	jobDelivery "jobtrail-backend/internal/job/delivery"
	jobUsecase "jobtrail-backend/internal/job/usecase"
	"jobtrail-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, jobUc jobUsecase.JobUsecase, monitorUc emailUsecase.MonitorUsecase, sseManager *sse.Manager) {
	authHandler := delivery.NewAuthHandler(authUc)
	jobHandler := jobDelivery.NewJobHandler(jobUc)
	monitorHandler := emailDelivery.NewMonitorHandler(monitorUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint
		api.GET("/events", delivery.AuthMiddleware(authUc), func(c *gin.Context) {
			userID := c.GetString("userID")
			sseManager.ServeHTTP(c, userID)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/imap", delivery.AuthMiddleware(authUc), authHandler.ConnectIMAP)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
			auth.POST("/logout", authHandler.Logout)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(delivery.AuthMiddleware(authUc))
		{
			fcm.POST("/register", authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", authHandler.UnregisterFCMToken)
		}

		// Job routes (protected)
		jobs := api.Group("/jobs")
		jobs.Use(delivery.AuthMiddleware(authUc))
		{
			jobs.GET("", jobHandler.GetJobs)
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("/:id", jobHandler.GetJobByID)
			jobs.PUT("/:id", jobHandler.UpdateJob)
			jobs.POST("/:id/status", jobHandler.ResetStatus)
			jobs.DELETE("/:id", jobHandler.DeleteJob)
		}

		// Monitoring routes (protected)
		monitor := api.Group("/monitor")
		monitor.Use(delivery.AuthMiddleware(authUc))
		{
			monitor.POST("/start", monitorHandler.StartMonitoring)
			monitor.POST("/stop", monitorHandler.StopMonitoring)
			monitor.POST("/check-now", monitorHandler.CheckNow)
			monitor.GET("/status", monitorHandler.GetStatus)
			monitor.POST("/rules/reload", monitorHandler.ReloadRules)
		}

		// Email event routes (protected)
		events := api.Group("/email-events")
		events.Use(delivery.AuthMiddleware(authUc))
		{
			events.GET("", monitorHandler.ListEmailEvents)
			events.DELETE("/:id", monitorHandler.DeleteEmailEvent)
			events.POST("/bulk-delete", monitorHandler.BulkDeleteEmailEvents)
		}
	}
}
