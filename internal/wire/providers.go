package wire

import (
	"log/slog"
	"os"

	"litfed-backend/internal/adapters"
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

// Configuration Providers

// ProvideLogger creates a structured logger instance.
func ProvideLogger(cfg *config.Config) *slog.Logger {
	var output *os.File
	switch cfg.Logging.Output {
	case "stderr":
		output = os.Stderr
	case "file":
		if cfg.Logging.FilePath != "" {
			if f, err := os.OpenFile(cfg.Logging.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
				output = f
			} else {
				output = os.Stdout
			}
		} else {
			output = os.Stdout
		}
	default:
		output = os.Stdout
	}

	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.Logging.AddSource}

	var handler slog.Handler
	switch cfg.Logging.Format {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler)
}

// ProvideDevelopmentLogger creates a development logger.
func ProvideDevelopmentLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// ProvideTestLogger creates a test logger (silent).
func ProvideTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelError, AddSource: false}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// Repository Providers

// ProvideRepository creates the repository instance (owns its own DB handle).
func ProvideRepository(cfg *config.Config, logger *slog.Logger) (repository.Repository, error) {
	return repository.NewRepository(cfg, logger)
}

// Messaging Providers

// ProvideEmbeddedManager creates an embedded NATS manager.
func ProvideEmbeddedManager(cfg *config.Config, logger *slog.Logger) (*embedded.Manager, error) {
	return embedded.NewManager(&cfg.NATS, logger)
}

// ProvideMessagingFromEmbedded provides the messaging client backed by the
// embedded NATS manager.
func ProvideMessagingFromEmbedded(mgr *embedded.Manager) *messaging.Client {
	return mgr.GetClient()
}

// Adapter registry provider

// ProvideRegistry builds the source adapter registry from configuration.
func ProvideRegistry(cfg *config.Config, logger *slog.Logger) *adapters.Registry {
	return adapters.NewRegistry(cfg, logger)
}

// Pipeline component providers

func ProvideExpander(logger *slog.Logger) *query.Expander     { return query.NewExpander(logger) }
func ProvideDeduplicator(logger *slog.Logger) *dedup.Deduplicator { return dedup.NewDeduplicator(logger) }
func ProvideRanker(logger *slog.Logger) *ranking.Ranker {
	return ranking.NewRanker(ranking.DefaultWeights(), logger)
}
func ProvideScorer(logger *slog.Logger) *reliability.Scorer     { return reliability.NewScorer(logger) }
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

// ProvideOrchestrator wires every pipeline stage into the search orchestrator.
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

// Service Providers

// ProvideServices creates the search/analytics/health service trio.
func ProvideServices(
	repo repository.Repository,
	registry *adapters.Registry,
	orch *orchestrator.Orchestrator,
	messaging *messaging.Client,
	logger *slog.Logger,
) *services.Container {
	return services.NewContainer(repo, registry, orch, messaging, logger)
}

// Handler Providers

// ProvideHandlers creates HTTP handler instances.
func ProvideHandlers(services *services.Container, logger *slog.Logger) *handlers.Container {
	return handlers.NewContainer(services, logger)
}

// Application Providers

// ProvideApplication creates the main application instance.
func ProvideApplication(
	cfg *config.Config,
	repo repository.Repository,
	messaging *messaging.Client,
	services *services.Container,
	handlers *handlers.Container,
	logger *slog.Logger,
) *Application {
	return &Application{
		Config:    cfg,
		Repo:      repo,
		Messaging: messaging,
		Services:  services,
		Handlers:  handlers,
		Logger:    logger,
	}
}

// Cleanup Providers

// ProvideCleanup creates a cleanup function for the application.
func ProvideCleanup(repo repository.Repository, messaging *messaging.Client) func() {
	return func() {
		if messaging != nil {
			messaging.Close()
		}
		if repo != nil {
			repo.Close()
		}
	}
}

// Development / Test Configuration Providers

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
