// Package main litfed Backend API
//
//	@title			litfed Backend API
//	@version		1.0.0
//	@description	Main API server for litfed, a federated scientific literature discovery engine. It fans a query out across academic databases, citation indexes, preprint servers, and web search, then deduplicates, ranks, and reasons over the combined record set.
//	@termsOfService	https://litfed.dev/terms
//
//	@contact.name	litfed support
//	@contact.email	support@litfed.dev
//	@contact.url	https://litfed.dev/support
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/v1
//	@schemes	http https
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				API key for authentication
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "litfed-backend/docs"
	"litfed-backend/internal/adapters"
	"litfed-backend/internal/api"
	"litfed-backend/internal/api/handlers"
	"litfed-backend/internal/citation"
	"litfed-backend/internal/config"
	"litfed-backend/internal/dedup"
	"litfed-backend/internal/fulltext"
	"litfed-backend/internal/mcp"
	"litfed-backend/internal/messaging/embedded"
	"litfed-backend/internal/orchestrator"
	"litfed-backend/internal/query"
	"litfed-backend/internal/ranking"
	"litfed-backend/internal/reasoning"
	"litfed-backend/internal/reliability"
	"litfed-backend/internal/repository"
	"litfed-backend/internal/services"
)

//go:generate wire

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		slog.Error("failed to build logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo, err := repository.NewRepository(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repository", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer repo.Close()

	embeddedManager, err := embedded.NewManager(&cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to initialize messaging manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.NATS.Embedded.Enabled {
		logger.Info("starting embedded NATS manager")
		if err := embeddedManager.Start(ctx); err != nil {
			logger.Error("failed to start embedded NATS manager",
				slog.String("error", err.Error()),
				slog.String("configured_host", cfg.NATS.Embedded.Host),
				slog.Int("configured_port", cfg.NATS.Embedded.Port))
			os.Exit(1)
		}
		logger.Info("embedded NATS manager started")
	}
	messagingClient := embeddedManager.GetClient()

	registry := adapters.NewRegistry(cfg, logger)

	orch := orchestrator.New(
		registry,
		query.NewExpander(logger),
		dedup.NewDeduplicator(logger),
		ranking.NewRanker(ranking.DefaultWeights(), logger),
		reliability.NewScorer(logger),
		citation.NewBuilder(logger),
		buildFulltextResolver(cfg, logger),
		reasoning.NewReasoner(logger),
		logger,
	)

	serviceContainer := services.NewContainer(repo, registry, orch, messagingClient, logger)
	handlerContainer := handlers.NewContainer(serviceContainer, logger)
	router := api.NewRouter(serviceContainer.Search, serviceContainer.Analytics, handlerContainer.Health, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if addr == ":0" || cfg.Server.Port == 0 {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	mcpServer := mcp.NewSearchServer(serviceContainer.Search, logger)
	go func() {
		logger.Info("starting MCP server on stdio")
		if err := mcpServer.ServeStdio(); err != nil {
			logger.Error("MCP server failed", slog.String("error", err.Error()))
		}
	}()

	go func() {
		logger.Info("starting litfed backend server",
			slog.String("addr", server.Addr),
			slog.String("mode", cfg.Server.Mode),
			slog.String("version", "1.0.0"))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	logger.Info("litfed backend startup complete",
		slog.String("http_addr", server.Addr),
		slog.Bool("messaging_connected", messagingClient != nil && messagingClient.IsConnected()),
		slog.Bool("embedded_nats_server", embeddedManager.IsEmbeddedServerEnabled()))

	logger.Info("available endpoints",
		slog.String("health", "/health, /health/live, /health/ready"),
		slog.String("search", "/v1/search, /v1/search/providers"),
		slog.String("analytics", "/v1/analytics/metrics, /v1/analytics/popular-queries"),
		slog.String("docs", "/docs"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down litfed backend")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server shutdown gracefully")
	}

	logger.Info("MCP server shutdown - stdio connection will close automatically")

	if err := embeddedManager.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop embedded NATS manager", slog.String("error", err.Error()))
	} else {
		logger.Info("embedded NATS manager stopped")
	}

	logger.Info("litfed backend shutdown complete")
}

// buildFulltextResolver wires the optional steps of spec §4.9's priority
// chain (PubMed Central, Unpaywall, the explicit paywall-bypass fallback)
// from the same providers configuration the adapter registry reads. The
// PubMed Central step is always wired; the Unpaywall and paywall-bypass
// steps are added only when unpaywall and scihub are enabled, so a
// deployment with either disabled runs without that step rather than
// failing to start.
func buildFulltextResolver(cfg *config.Config, logger *slog.Logger) *fulltext.Resolver {
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
