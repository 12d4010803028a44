package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"litfed-backend/internal/services"
)

// Container holds all handler instances.
type Container struct {
	Search    SearchHandlerInterface
	Analytics AnalyticsHandlerInterface
	Health    *HealthHandler
}

// NewContainer creates a new handler container.
func NewContainer(services *services.Container, logger *slog.Logger) *Container {
	return &Container{
		Search:    NewSearchHandler(services.Search, logger),
		Analytics: NewAnalyticsHandler(services.Analytics, logger),
		Health:    NewHealthHandler(services.Health, logger),
	}
}

// Handler interfaces for dependency injection

type SearchHandlerInterface interface {
	Search(c *gin.Context)
	GetProviders(c *gin.Context)
}

type AnalyticsHandlerInterface interface {
	GetMetrics(c *gin.Context)
	GetPopularQueries(c *gin.Context)
	GetProviderPerformance(c *gin.Context)
	GetUserActivity(c *gin.Context)
}
