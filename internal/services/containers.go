package services

import (
	"context"
	"log/slog"

	"litfed-backend/internal/adapters"
	"litfed-backend/internal/messaging"
	"litfed-backend/internal/orchestrator"
	"litfed-backend/internal/repository"
)

// Container holds all service instances.
type Container struct {
	Search    SearchServiceInterface
	Analytics AnalyticsServiceInterface
	Health    HealthServiceInterface
}

// NewContainer wires the search, analytics, and health services against the
// shared repository, adapter registry, orchestrator, and messaging client.
func NewContainer(
	repo repository.Repository,
	registry *adapters.Registry,
	orch *orchestrator.Orchestrator,
	messaging *messaging.Client,
	logger *slog.Logger,
) *Container {
	return &Container{
		Search:    NewSearchService(orch, registry, repo.Search(), messaging, logger),
		Analytics: NewAnalyticsService(repo.Search(), registry, messaging, logger),
		Health:    NewHealthService(repo, registry, messaging, logger),
	}
}

// HealthCheck checks all services.
func (c *Container) HealthCheck(ctx context.Context) map[string]error {
	return map[string]error{
		"search":    c.checkServiceHealth(ctx, "search"),
		"analytics": c.checkServiceHealth(ctx, "analytics"),
		"health":    c.checkServiceHealth(ctx, "health"),
	}
}

func (c *Container) checkServiceHealth(ctx context.Context, serviceName string) error {
	switch serviceName {
	case "search":
		return c.Search.Health(ctx)
	case "analytics":
		return c.Analytics.Health(ctx)
	case "health":
		return c.Health.Health(ctx)
	default:
		return nil
	}
}
