package api

import (
	authUsecase "jobtrail-backend/internal/auth/usecase"
	emailUsecase "jobtrail-backend/internal/email/usecase"
	jobUsecase "jobtrail-backend/internal/job/usecase"
	"jobtrail-backend/pkg/config"
	"jobtrail-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	jobUsecase     jobUsecase.JobUsecase
	monitorUsecase emailUsecase.MonitorUsecase
	sseManager     *sse.Manager
	config         *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, jobUc jobUsecase.JobUsecase, monitorUc emailUsecase.MonitorUsecase, sseManager *sse.Manager, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:    authUc,
		jobUsecase:     jobUc,
		monitorUsecase: monitorUc,
		sseManager:     sseManager,
		config:         cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.jobUsecase, h.monitorUsecase, h.sseManager)

	return r.Run(addr)
}
