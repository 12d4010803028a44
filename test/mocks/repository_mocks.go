package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"litfed-backend/internal/models"
	"litfed-backend/internal/repository"
)

// MockSearchRepository is a mock implementation of repository.SearchRepository.
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) CreateSearchHistory(ctx context.Context, history *models.SearchHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockSearchRepository) GetSearchHistory(ctx context.Context, userID *string, limit, offset int) ([]models.SearchHistory, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.SearchHistory), args.Error(1)
}

func (m *MockSearchRepository) GetPopularQueries(ctx context.Context, since time.Time, limit int) ([]repository.QueryStats, error) {
	args := m.Called(ctx, since, limit)
	return args.Get(0).([]repository.QueryStats), args.Error(1)
}

func (m *MockSearchRepository) GetUserSearchStats(ctx context.Context, userID string) (*repository.UserSearchStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserSearchStats), args.Error(1)
}

func (m *MockSearchRepository) GetCachedSearch(ctx context.Context, queryHash string) (*models.SearchCache, error) {
	args := m.Called(ctx, queryHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchCache), args.Error(1)
}

func (m *MockSearchRepository) SetSearchCache(ctx context.Context, cache *models.SearchCache) error {
	args := m.Called(ctx, cache)
	return args.Error(0)
}

func (m *MockSearchRepository) InvalidateCache(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func (m *MockSearchRepository) CleanupExpiredCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSearchRepository) GetCacheStats(ctx context.Context) (*repository.CacheStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CacheStats), args.Error(1)
}

func (m *MockSearchRepository) GetSearchSuggestions(ctx context.Context, query string, limit int) ([]models.SearchSuggestion, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]models.SearchSuggestion), args.Error(1)
}

func (m *MockSearchRepository) UpdateSearchSuggestions(ctx context.Context, query string, resultCount int) error {
	args := m.Called(ctx, query, resultCount)
	return args.Error(0)
}

func (m *MockSearchRepository) GetSearchAnalytics(ctx context.Context, from, to time.Time) (*repository.SearchAnalytics, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SearchAnalytics), args.Error(1)
}

func (m *MockSearchRepository) GetProviderPerformance(ctx context.Context, provider string, from, to time.Time) (*repository.ProviderPerformance, error) {
	args := m.Called(ctx, provider, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ProviderPerformance), args.Error(1)
}

// MockTransaction is a mock implementation of repository.Transaction.
type MockTransaction struct {
	mock.Mock
	searchRepo *MockSearchRepository
}

func (m *MockTransaction) Begin(ctx context.Context) (repository.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Transaction), args.Error(1)
}

func (m *MockTransaction) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTransaction) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTransaction) Search() repository.SearchRepository {
	return m.searchRepo
}

// MockRepository is a mock implementation of repository.Repository.
type MockRepository struct {
	mock.Mock
	searchRepo *MockSearchRepository
}

// NewMockRepository constructs a MockRepository with its search repository
// mock ready to set expectations on.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		searchRepo: &MockSearchRepository{},
	}
}

func (m *MockRepository) Search() repository.SearchRepository {
	return m.searchRepo
}

func (m *MockRepository) Transaction(ctx context.Context, fn func(repository.Transaction) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *MockRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepository) GetStats() (map[string]interface{}, error) {
	args := m.Called()
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

// GetMockSearchRepo returns the mock search repository for setting
// expectations.
func (m *MockRepository) GetMockSearchRepo() *MockSearchRepository {
	return m.searchRepo
}
