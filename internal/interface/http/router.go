package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charityfund/faqbot/internal/domain/auth"
	"github.com/charityfund/faqbot/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, admin *AdminHandler, authSvc auth.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/ask", handler.Ask)
		api.GET("/groups", handler.Groups)
		api.GET("/questions", handler.Questions)
		api.GET("/answers", handler.Answers)
		api.POST("/auth/login", handler.Login)
	}

	adminAPI := api.Group("/admin", authMiddleware(authSvc))
	{
		adminAPI.POST("/groups", admin.CreateGroup)
		adminAPI.POST("/answers", admin.CreateAnswer)
		adminAPI.POST("/questions", admin.CreateQuestion)
		adminAPI.POST("/questions/:id/variants", admin.AddVariant)
		adminAPI.POST("/dataset/load", admin.LoadDataset)
		adminAPI.GET("/pending", admin.Pending)
		adminAPI.POST("/pending/:id/resolve", admin.ResolvePending)
		adminAPI.POST("/pending/:id/dismiss", admin.DismissPending)
		adminAPI.GET("/unanswered", admin.Unanswered)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
