package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "litfed-backend/docs"
	"litfed-backend/internal/api/handlers"
	"litfed-backend/internal/api/middleware"
	"litfed-backend/internal/services"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	searchService services.SearchServiceInterface,
	analyticsService services.AnalyticsServiceInterface,
	healthHandler *handlers.HealthHandler,
	logger *slog.Logger,
) *gin.Engine {
	if gin.Mode() == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CorsMiddleware(middleware.DefaultCorsConfig()))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.StructuredLoggingMiddleware(logger))
	router.Use(gin.Recovery())

	healthHandler.RegisterRoutes(router)

	v1 := router.Group("/v1")
	{
		search := v1.Group("/search")
		{
			searchHandler := handlers.NewSearchHandler(searchService, logger)
			search.GET("", searchHandler.Search)
			search.GET("/providers", searchHandler.GetProviders)
		}

		analytics := v1.Group("/analytics")
		{
			analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, logger)
			analytics.GET("/metrics", analyticsHandler.GetMetrics)
			analytics.GET("/popular-queries", analyticsHandler.GetPopularQueries)
			analytics.GET("/providers", analyticsHandler.GetProviderPerformance)
			analytics.GET("/users/:user_id", analyticsHandler.GetUserActivity)
		}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	router.GET("/docs", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message":      "litfed API documentation",
			"version":      "1.0.0",
			"swagger_ui":   "/swagger/index.html",
			"openapi_spec": "/swagger/doc.json",
			"endpoints": gin.H{
				"health":    "/health",
				"search":    "/v1/search",
				"analytics": "/v1/analytics",
			},
			"mcp_server": gin.H{
				"description": "This server also exposes a Model Context Protocol tool for literature search",
				"methods":     []string{"search_literature"},
			},
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "litfed backend",
			"version": "1.0.0",
			"status":  "running",
			"docs":    "/docs",
			"health":  "/health",
		})
	})

	return router
}

// SetupHandlers creates and returns all HTTP handlers.
func SetupHandlers(
	searchService services.SearchServiceInterface,
	analyticsService services.AnalyticsServiceInterface,
	healthService services.HealthServiceInterface,
	logger *slog.Logger,
) (handlers.SearchHandlerInterface, handlers.AnalyticsHandlerInterface, *handlers.HealthHandler) {
	searchHandler := handlers.NewSearchHandler(searchService, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, logger)
	healthHandler := handlers.NewHealthHandler(healthService, logger)

	return searchHandler, analyticsHandler, healthHandler
}
