package benchmarks_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"litfed-backend/internal/models"
	"litfed-backend/internal/repository"
	"litfed-backend/test/testutil"
)

func newBenchSearchRepo(b *testing.B) (repository.SearchRepository, *testutil.DatabaseTestUtil) {
	dbUtil := testutil.SetupTestDatabase(b, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repository.NewSearchRepository(dbUtil.DB(), logger), dbUtil
}

func BenchmarkSearchRepository_CreateSearchHistory(b *testing.B) {
	repo, dbUtil := newBenchSearchRepo(b)
	defer dbUtil.Cleanup()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		history := &models.SearchHistory{
			ID:          fmt.Sprintf("bench_%d", i),
			Query:       "benchmark query",
			ResultCount: 10,
			RequestedAt: time.Now(),
		}
		if err := repo.CreateSearchHistory(ctx, history); err != nil {
			b.Fatalf("CreateSearchHistory failed: %v", err)
		}
	}
}

func BenchmarkSearchRepository_SetSearchCache(b *testing.B) {
	repo, dbUtil := newBenchSearchRepo(b)
	defer dbUtil.Cleanup()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache := &models.SearchCache{
			QueryHash:  fmt.Sprintf("bench_hash_%d", i),
			Query:      "benchmark query",
			ResultJSON: "{}",
			CreatedAt:  time.Now(),
			ExpiresAt:  time.Now().Add(time.Hour),
		}
		if err := repo.SetSearchCache(ctx, cache); err != nil {
			b.Fatalf("SetSearchCache failed: %v", err)
		}
	}
}

func BenchmarkSearchRepository_GetCachedSearch(b *testing.B) {
	repo, dbUtil := newBenchSearchRepo(b)
	defer dbUtil.Cleanup()
	ctx := context.Background()

	cache := &models.SearchCache{
		QueryHash:  "bench_static_hash",
		Query:      "benchmark query",
		ResultJSON: "{}",
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := repo.SetSearchCache(ctx, cache); err != nil {
		b.Fatalf("SetSearchCache failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.GetCachedSearch(ctx, "bench_static_hash"); err != nil {
			b.Fatalf("GetCachedSearch failed: %v", err)
		}
	}
}

func BenchmarkSearchRepository_ConcurrentReads(b *testing.B) {
	repo, dbUtil := newBenchSearchRepo(b)
	defer dbUtil.Cleanup()
	ctx := context.Background()

	cache := &models.SearchCache{
		QueryHash:  "bench_concurrent_hash",
		Query:      "benchmark query",
		ResultJSON: "{}",
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := repo.SetSearchCache(ctx, cache); err != nil {
		b.Fatalf("SetSearchCache failed: %v", err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := repo.GetCachedSearch(ctx, "bench_concurrent_hash"); err != nil {
				b.Fatalf("GetCachedSearch failed: %v", err)
			}
		}
	})
}
