package integration_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litfed-backend/internal/models"
	"litfed-backend/internal/repository"
	"litfed-backend/test/testutil"
)

func newSearchRepo(t *testing.T) (repository.SearchRepository, *testutil.DatabaseTestUtil) {
	dbUtil := testutil.SetupTestDatabase(t, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewSearchRepository(dbUtil.DB(), logger)
	return repo, dbUtil
}

func TestSearchRepository_CreateAndGetHistory(t *testing.T) {
	repo, dbUtil := newSearchRepo(t)
	defer dbUtil.Cleanup()
	ctx := context.Background()

	userID := "user_1"
	history := &models.SearchHistory{
		ID:          "search_1",
		UserID:      &userID,
		Query:       "quantum computing",
		ResultCount: 10,
		Duration:    150,
		Providers:   []string{"arxiv", "crossref"},
		RequestedAt: time.Now(),
	}
	require.NoError(t, repo.CreateSearchHistory(ctx, history))

	results, err := repo.GetSearchHistory(ctx, &userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "quantum computing", results[0].Query)
}

func TestSearchRepository_CacheRoundTrip(t *testing.T) {
	repo, dbUtil := newSearchRepo(t)
	defer dbUtil.Cleanup()
	ctx := context.Background()

	cache := &models.SearchCache{
		QueryHash:  "hash_roundtrip",
		Query:      "protein folding",
		Provider:   "arxiv",
		ResultJSON: `{"records":[]}`,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.SetSearchCache(ctx, cache))

	got, err := repo.GetCachedSearch(ctx, "hash_roundtrip")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "protein folding", got.Query)
}

func TestSearchRepository_CachedSearchMiss(t *testing.T) {
	repo, dbUtil := newSearchRepo(t)
	defer dbUtil.Cleanup()
	ctx := context.Background()

	got, err := repo.GetCachedSearch(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSearchRepository_CleanupExpiredCache(t *testing.T) {
	repo, dbUtil := newSearchRepo(t)
	defer dbUtil.Cleanup()
	ctx := context.Background()

	expired := &models.SearchCache{
		QueryHash:  "hash_expired",
		Query:      "old query",
		CreatedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt:  time.Now().Add(-time.Hour),
		ResultJSON: "{}",
	}
	require.NoError(t, repo.SetSearchCache(ctx, expired))
	require.NoError(t, repo.CleanupExpiredCache(ctx))

	got, err := repo.GetCachedSearch(ctx, "hash_expired")
	require.NoError(t, err)
	assert.Nil(t, got, "expired entry should have been purged")
}

func TestSearchRepository_SearchSuggestions(t *testing.T) {
	repo, dbUtil := newSearchRepo(t)
	defer dbUtil.Cleanup()
	ctx := context.Background()

	require.NoError(t, repo.UpdateSearchSuggestions(ctx, "neural networks", 50))
	require.NoError(t, repo.UpdateSearchSuggestions(ctx, "neural architecture search", 20))

	suggestions, err := repo.GetSearchSuggestions(ctx, "neural", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)
}
