//go:build wireinject
// +build wireinject

package main

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"litfed-backend/internal/adapters"
	"litfed-backend/internal/api"
	"litfed-backend/internal/api/handlers"
	"litfed-backend/internal/citation"
	"litfed-backend/internal/config"
	"litfed-backend/internal/dedup"
	"litfed-backend/internal/fulltext"
	"litfed-backend/internal/messaging"
	"litfed-backend/internal/messaging/embedded"
	"litfed-backend/internal/orchestrator"
	"litfed-backend/internal/query"
	"litfed-backend/internal/ranking"
	"litfed-backend/internal/reasoning"
	"litfed-backend/internal/reliability"
	"litfed-backend/internal/repository"
	"litfed-backend/internal/services"
)

// Application represents the complete application with all dependencies.
type Application struct {
	Config          *config.Config
	Repo            repository.Repository
	Messaging       *messaging.Client
	EmbeddedManager *embedded.Manager
	Services        *services.Container
	Handlers        *handlers.Container
	Router          *gin.Engine
	Logger          *slog.Logger
}

// NewApplication creates the main application instance.
func NewApplication(
	cfg *config.Config,
	repo repository.Repository,
	messaging *messaging.Client,
	embeddedManager *embedded.Manager,
	services *services.Container,
	handlers *handlers.Container,
	router *gin.Engine,
	logger *slog.Logger,
) *Application {
	return &Application{
		Config:          cfg,
		Repo:            repo,
		Messaging:       messaging,
		EmbeddedManager: embeddedManager,
		Services:        services,
		Handlers:        handlers,
		Router:          router,
		Logger:          logger,
	}
}

var ConfigProviderSet = wire.NewSet(
	config.LoadConfig,
	ProvideLogger,
)

var RepositoryProviderSet = wire.NewSet(
	ProvideRepository,
)

var MessagingProviderSet = wire.NewSet(
	ProvideEmbeddedManager,
	ProvideMessagingFromEmbedded,
)

var PipelineProviderSet = wire.NewSet(
	ProvideRegistry,
	ProvideExpander,
	ProvideDeduplicator,
	ProvideRanker,
	ProvideScorer,
	ProvideCitationBuilder,
	ProvideFulltextResolver,
	ProvideReasoner,
	ProvideOrchestrator,
)

var ServicesProviderSet = wire.NewSet(
	ProvideServices,
)

var HandlersProviderSet = wire.NewSet(
	ProvideHandlers,
)

var APIProviderSet = wire.NewSet(
	ProvideRouter,
)

var ApplicationProviderSet = wire.NewSet(
	ConfigProviderSet,
	RepositoryProviderSet,
	MessagingProviderSet,
	PipelineProviderSet,
	ServicesProviderSet,
	HandlersProviderSet,
	APIProviderSet,
	NewApplication,
)

// Provider functions

func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	return config.NewLogger(cfg)
}

func ProvideRepository(cfg *config.Config, logger *slog.Logger) (repository.Repository, error) {
	return repository.NewRepository(cfg, logger)
}

func ProvideEmbeddedManager(cfg *config.Config, logger *slog.Logger) (*embedded.Manager, error) {
	return embedded.NewManager(&cfg.NATS, logger)
}

func ProvideMessagingFromEmbedded(embeddedManager *embedded.Manager) *messaging.Client {
	return embeddedManager.GetClient()
}

func ProvideRegistry(cfg *config.Config, logger *slog.Logger) *adapters.Registry {
	return adapters.NewRegistry(cfg, logger)
}

func ProvideExpander(logger *slog.Logger) *query.Expander         { return query.NewExpander(logger) }
func ProvideDeduplicator(logger *slog.Logger) *dedup.Deduplicator { return dedup.NewDeduplicator(logger) }
func ProvideRanker(logger *slog.Logger) *ranking.Ranker {
	return ranking.NewRanker(ranking.DefaultWeights(), logger)
}
func ProvideScorer(logger *slog.Logger) *reliability.Scorer        { return reliability.NewScorer(logger) }
func ProvideCitationBuilder(logger *slog.Logger) *citation.Builder { return citation.NewBuilder(logger) }
func ProvideFulltextResolver(cfg *config.Config, logger *slog.Logger) *fulltext.Resolver {
	p := cfg.Providers
	opts := []fulltext.Option{
		fulltext.WithPMC(fulltext.NewPMCClient(p.PubMed.Timeout, p.PubMed.Email, logger).Lookup),
	}
	if p.Unpaywall.Enabled {
		opts = append(opts, fulltext.WithUnpaywall(
			fulltext.NewUnpaywallClient(p.Unpaywall.BaseURL, p.Unpaywall.Email, p.Unpaywall.Timeout, logger).Lookup,
		))
	}
	if p.SciHub.Enabled {
		opts = append(opts, fulltext.WithPaywallBypass(fulltext.NewSciHubBypass(p.SciHub.BaseURL), true))
	}
	return fulltext.NewResolver(logger, opts...)
}
func ProvideReasoner(logger *slog.Logger) *reasoning.Reasoner { return reasoning.NewReasoner(logger) }

func ProvideOrchestrator(
	registry *adapters.Registry,
	expander *query.Expander,
	deduplicator *dedup.Deduplicator,
	ranker *ranking.Ranker,
	scorer *reliability.Scorer,
	citations *citation.Builder,
	ft *fulltext.Resolver,
	reasoner *reasoning.Reasoner,
	logger *slog.Logger,
) *orchestrator.Orchestrator {
	return orchestrator.New(registry, expander, deduplicator, ranker, scorer, citations, ft, reasoner, logger)
}

func ProvideServices(
	repo repository.Repository,
	registry *adapters.Registry,
	orch *orchestrator.Orchestrator,
	messaging *messaging.Client,
	logger *slog.Logger,
) *services.Container {
	return services.NewContainer(repo, registry, orch, messaging, logger)
}

func ProvideHandlers(services *services.Container, logger *slog.Logger) *handlers.Container {
	return handlers.NewContainer(services, logger)
}

func ProvideRouter(
	services *services.Container,
	handlers *handlers.Container,
	logger *slog.Logger,
) *gin.Engine {
	return api.NewRouter(services.Search, services.Analytics, handlers.Health, logger)
}

// ProvideDevelopmentConfig creates a development configuration.
func ProvideDevelopmentConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = &config.Config{}
		cfg.Server.Mode = "debug"
		cfg.Server.Port = 8080
		cfg.Database.Type = "sqlite"
		cfg.Database.SQLite.Path = "./dev-litfed.db"
		cfg.Database.SQLite.AutoMigrate = true
		cfg.NATS.URL = "nats://localhost:4222"
		cfg.NATS.Embedded.Enabled = true
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	}
	return cfg
}

// ProvideTestConfig creates a test configuration.
func ProvideTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.Port = 0
	cfg.Database.Type = "sqlite"
	cfg.Database.SQLite.Path = ":memory:"
	cfg.Database.SQLite.AutoMigrate = true
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "text"
	return cfg
}

// InitializeApplication creates a fully configured application using Wire.
func InitializeApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(ApplicationProviderSet)
	return &Application{}, func() {}, nil
}

// InitializeDevelopmentApplication creates an application instance for development.
func InitializeDevelopmentApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		ProvideDevelopmentConfig,
		ProvideLogger,
		ProvideRepository,
		ProvideEmbeddedManager,
		ProvideMessagingFromEmbedded,
		PipelineProviderSet,
		ProvideServices,
		ProvideHandlers,
		ProvideRouter,
		NewApplication,
	)
	return &Application{}, func() {}, nil
}

// InitializeTestApplication creates an application instance for testing.
func InitializeTestApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		ProvideTestConfig,
		ProvideLogger,
		ProvideRepository,
		ProvideEmbeddedManager,
		ProvideMessagingFromEmbedded,
		PipelineProviderSet,
		ProvideServices,
		ProvideHandlers,
		ProvideRouter,
		NewApplication,
	)
	return &Application{}, func() {}, nil
}
