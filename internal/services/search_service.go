package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"litfed-backend/internal/adapters"
	"litfed-backend/internal/messaging"
	"litfed-backend/internal/models"
	"litfed-backend/internal/orchestrator"
	"litfed-backend/internal/repository"
)

const searchCacheTTL = 15 * time.Minute

// SearchService delegates every search to the orchestrator pipeline,
// caching results and recording search history through the repository.
type SearchService struct {
	orch       *orchestrator.Orchestrator
	registry   *adapters.Registry
	searchRepo repository.SearchRepository
	messaging  *messaging.Client
	logger     *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(
	orch *orchestrator.Orchestrator,
	registry *adapters.Registry,
	searchRepo repository.SearchRepository,
	messaging *messaging.Client,
	logger *slog.Logger,
) SearchServiceInterface {
	return &SearchService{
		orch:       orch,
		registry:   registry,
		searchRepo: searchRepo,
		messaging:  messaging,
		logger:     logger,
	}
}

// Search runs a federated literature search, serving a cached result when
// an identical query+options pair is still within its TTL.
func (s *SearchService) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	start := time.Now()

	if err := req.ValidateSearchRequest(); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}
	req.SetDefaults()

	if err := s.publishSearchRequestEvent(ctx, req); err != nil {
		s.logger.Warn("failed to publish search request event", slog.String("error", err.Error()))
	}

	hash := s.cacheKey(req.Query, req.Options)
	if cached, err := s.searchRepo.GetCachedSearch(ctx, hash); err == nil && cached != nil {
		var result models.ResearchResult
		if err := json.Unmarshal([]byte(cached.ResultJSON), &result); err == nil {
			resp := s.toResponse(req, &result, time.Since(start))
			s.logger.Info("search served from cache", slog.String("query", req.Query))
			return resp, nil
		}
	}

	result, err := s.orch.Search(ctx, req.Query, req.Options, nil)
	if err != nil {
		s.publishSearchCompletedEvent(ctx, req, nil, time.Since(start), err)
		return nil, fmt.Errorf("search failed: %w", err)
	}

	resp := s.toResponse(req, result, time.Since(start))

	if err := s.storeSearchResult(ctx, req, resp, hash); err != nil {
		s.logger.Warn("failed to store search result", slog.String("error", err.Error()))
	}

	if err := s.publishSearchCompletedEvent(ctx, req, resp, time.Since(start), nil); err != nil {
		s.logger.Warn("failed to publish search completed event", slog.String("error", err.Error()))
	}

	s.logger.Info("search completed",
		slog.String("query", req.Query),
		slog.Int("results", len(resp.Records)),
		slog.Duration("duration", time.Since(start)))

	return resp, nil
}

func (s *SearchService) toResponse(req *SearchRequest, result *models.ResearchResult, duration time.Duration) *SearchResponse {
	return &SearchResponse{
		RequestID:  req.RequestID,
		Query:      result.Query,
		Records:    result.Records,
		Reasoning:  result.Reasoning,
		Statistics: result.Statistics,
		Duration:   duration,
		Timestamp:  time.Now(),
	}
}

// GetAdapterStatus returns the availability of every registered adapter.
func (s *SearchService) GetAdapterStatus(ctx context.Context) (map[string]interface{}, error) {
	status := make(map[string]interface{})
	if s.registry == nil {
		return status, nil
	}
	for _, a := range s.registry.All() {
		status[a.Name()] = map[string]interface{}{
			"available":    a.Available(),
			"capabilities": a.Capabilities(),
		}
	}
	return status, nil
}

// Health checks the health of the search service and its dependencies.
func (s *SearchService) Health(ctx context.Context) error {
	if s.orch == nil {
		return fmt.Errorf("orchestrator not initialized")
	}
	return nil
}

func (s *SearchService) cacheKey(query string, opts models.SearchOptions) string {
	data, _ := json.Marshal(struct {
		Query string
		Opts  models.SearchOptions
	}{query, opts})
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}

func (s *SearchService) storeSearchResult(ctx context.Context, req *SearchRequest, resp *SearchResponse, hash string) error {
	history := &models.SearchHistory{
		ID:          fmt.Sprintf("search_%d", time.Now().UnixNano()),
		UserID:      req.UserID,
		Query:       req.Query,
		ResultCount: len(resp.Records),
		Duration:    resp.Duration.Milliseconds(),
		Providers:   resp.Statistics.SourcesQueried,
		RequestedAt: resp.Timestamp,
	}
	if err := s.searchRepo.CreateSearchHistory(ctx, history); err != nil {
		return err
	}

	payload, err := json.Marshal(models.ResearchResult{
		Query:      resp.Query,
		Records:    resp.Records,
		Reasoning:  resp.Reasoning,
		Statistics: resp.Statistics,
	})
	if err != nil {
		return err
	}

	return s.searchRepo.SetSearchCache(ctx, &models.SearchCache{
		QueryHash:  hash,
		Query:      req.Query,
		ResultJSON: string(payload),
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(searchCacheTTL),
	})
}

func (s *SearchService) publishSearchRequestEvent(ctx context.Context, req *SearchRequest) error {
	event := messaging.NewSearchRequestEvent(req.RequestID, req.Query, req.Options.Sources, req.UserID)
	return s.messaging.Publish(ctx, messaging.SubjectSearchRequest, event)
}

func (s *SearchService) publishSearchCompletedEvent(ctx context.Context, req *SearchRequest, resp *SearchResponse, duration time.Duration, err error) error {
	var resultCount int
	var success bool
	var errorMsg string
	var providersUsed []string

	if resp != nil {
		resultCount = len(resp.Records)
		providersUsed = resp.Statistics.SourcesQueried
		success = true
	} else {
		success = false
		if err != nil {
			errorMsg = err.Error()
		}
	}

	event := &messaging.SearchCompletedEvent{
		RequestID:     req.RequestID,
		UserID:        req.UserID,
		Query:         req.Query,
		ResultCount:   resultCount,
		Duration:      duration.Milliseconds(),
		ProvidersUsed: providersUsed,
		CompletedAt:   time.Now().UnixMilli(),
		Success:       success,
		Error:         errorMsg,
	}

	return s.messaging.Publish(ctx, messaging.SubjectSearchCompleted, event)
}
