package services

import (
	"context"
	"log/slog"
	"time"

	"litfed-backend/internal/adapters"
	"litfed-backend/internal/messaging"
	"litfed-backend/internal/repository"
)

// AnalyticsService answers questions about past search traffic, backed by
// the search-history/cache tables internal/repository persists.
type AnalyticsService struct {
	repo      repository.SearchRepository
	registry  *adapters.Registry
	messaging *messaging.Client
	logger    *slog.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(repo repository.SearchRepository, registry *adapters.Registry, messaging *messaging.Client, logger *slog.Logger) AnalyticsServiceInterface {
	return &AnalyticsService{
		repo:      repo,
		registry:  registry,
		messaging: messaging,
		logger:    logger,
	}
}

// GetSearchMetrics aggregates search volume and success rate over a window.
func (s *AnalyticsService) GetSearchMetrics(ctx context.Context, from, to time.Time) (*SearchMetrics, error) {
	analytics, err := s.repo.GetSearchAnalytics(ctx, from, to)
	if err != nil {
		return nil, err
	}

	popular := make(map[string]int)
	if s.registry != nil {
		for _, name := range s.registry.Names() {
			if perf, err := s.repo.GetProviderPerformance(ctx, name, from, to); err == nil {
				popular[name] = int(perf.TotalRequests)
			}
		}
	}

	return &SearchMetrics{
		TotalSearches:     int(analytics.TotalSearches),
		AverageResultTime: time.Duration(analytics.AvgResponseTime) * time.Millisecond,
		SuccessRate:       1.0 - analytics.ErrorRate,
		PopularProviders:  popular,
	}, nil
}

// GetPopularQueries returns the most frequent queries recorded since from;
// the to bound is not applied.
func (s *AnalyticsService) GetPopularQueries(ctx context.Context, limit int, from, to time.Time) ([]*PopularQuery, error) {
	stats, err := s.repo.GetPopularQueries(ctx, from, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*PopularQuery, 0, len(stats))
	for _, q := range stats {
		out = append(out, &PopularQuery{
			Query: q.Query,
			Count: q.Count,
		})
	}
	return out, nil
}

// GetProviderPerformance reports per-adapter request/success metrics.
func (s *AnalyticsService) GetProviderPerformance(ctx context.Context, from, to time.Time) (map[string]*ProviderMetrics, error) {
	result := make(map[string]*ProviderMetrics)
	if s.registry == nil {
		return result, nil
	}

	for _, name := range s.registry.Names() {
		perf, err := s.repo.GetProviderPerformance(ctx, name, from, to)
		if err != nil {
			s.logger.Warn("failed to load provider performance", slog.String("provider", name), slog.String("error", err.Error()))
			continue
		}
		result[name] = &ProviderMetrics{
			Name:           name,
			TotalRequests:  int(perf.TotalRequests),
			SuccessRate:    perf.SuccessRate,
			AverageLatency: time.Duration(perf.AvgResponseTime) * time.Millisecond,
			ErrorRate:      1.0 - perf.SuccessRate,
		}
	}
	return result, nil
}

// GetUserActivity returns a user's search history summary.
func (s *AnalyticsService) GetUserActivity(ctx context.Context, userID string, from, to time.Time) (*UserActivity, error) {
	stats, err := s.repo.GetUserSearchStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	topics := make([]string, 0, len(stats.TopQueries))
	for _, q := range stats.TopQueries {
		topics = append(topics, q.Query)
	}

	return &UserActivity{
		UserID:         userID,
		SearchCount:    int(stats.TotalQueries),
		UniqueQueries:  int(stats.UniqueQueries),
		FavoriteTopics: topics,
		LastActive:     stats.LastSearch,
	}, nil
}

// RecordEvent records a single analytics event, publishing it onto the
// messaging bus for any interested subscriber.
func (s *AnalyticsService) RecordEvent(ctx context.Context, event *AnalyticsEvent) error {
	if s.messaging == nil {
		return nil
	}
	return s.messaging.Publish(ctx, messaging.SubjectAnalyticsQuery, event)
}

// Health checks the health of the analytics service.
func (s *AnalyticsService) Health(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	_, err := s.repo.GetCacheStats(ctx)
	return err
}
