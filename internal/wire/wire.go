//go:build wireinject
// +build wireinject

package wire

import (
	"context"
	"log/slog"

	"litfed-backend/internal/api/handlers"
	"litfed-backend/internal/config"
	"litfed-backend/internal/messaging"
	"litfed-backend/internal/repository"
	"litfed-backend/internal/services"

	"github.com/google/wire"
)

// Application represents the complete application with all dependencies.
type Application struct {
	Config    *config.Config
	Repo      repository.Repository
	Messaging *messaging.Client
	Services  *services.Container
	Handlers  *handlers.Container
	Logger    *slog.Logger
}

// InitializeApplication creates a fully configured application instance.
func InitializeApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		config.LoadConfig,
		ProvideLogger,
		ProvideRepository,
		ProvideEmbeddedManager,
		ProvideMessagingFromEmbedded,
		ProvideRegistry,
		ProvideExpander,
		ProvideDeduplicator,
		ProvideRanker,
		ProvideScorer,
		ProvideCitationBuilder,
		ProvideFulltextResolver,
		ProvideReasoner,
		ProvideOrchestrator,
		ProvideServices,
		ProvideHandlers,
		ProvideApplication,
	)
	return nil, nil, nil
}

// InitializeDevelopmentApplication creates an application instance for development.
func InitializeDevelopmentApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		ProvideDevelopmentConfig,
		ProvideDevelopmentLogger,
		ProvideRepository,
		ProvideEmbeddedManager,
		ProvideMessagingFromEmbedded,
		ProvideRegistry,
		ProvideExpander,
		ProvideDeduplicator,
		ProvideRanker,
		ProvideScorer,
		ProvideCitationBuilder,
		ProvideFulltextResolver,
		ProvideReasoner,
		ProvideOrchestrator,
		ProvideServices,
		ProvideHandlers,
		ProvideApplication,
	)
	return nil, nil, nil
}

// InitializeTestApplication creates an application instance for testing.
func InitializeTestApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		ProvideTestConfig,
		ProvideTestLogger,
		ProvideRepository,
		ProvideEmbeddedManager,
		ProvideMessagingFromEmbedded,
		ProvideRegistry,
		ProvideExpander,
		ProvideDeduplicator,
		ProvideRanker,
		ProvideScorer,
		ProvideCitationBuilder,
		ProvideFulltextResolver,
		ProvideReasoner,
		ProvideOrchestrator,
		ProvideServices,
		ProvideHandlers,
		ProvideApplication,
	)
	return nil, nil, nil
}

// InitializeRepositoryOnly creates only the repository dependency, for
// migration tooling.
func InitializeRepositoryOnly(ctx context.Context) (repository.Repository, func(), error) {
	wire.Build(
		config.LoadConfig,
		ProvideLogger,
		ProvideRepository,
	)
	return nil, nil, nil
}

// InitializeMessagingOnly creates only messaging dependencies for testing.
func InitializeMessagingOnly(ctx context.Context) (*messaging.Client, func(), error) {
	wire.Build(
		config.LoadConfig,
		ProvideLogger,
		ProvideEmbeddedManager,
		ProvideMessagingFromEmbedded,
	)
	return nil, nil, nil
}
