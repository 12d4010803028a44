package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"litfed-backend/internal/models"
)

// DatabaseTestUtil provides database testing utilities.
type DatabaseTestUtil struct {
	container  *postgres.PostgresContainer
	db         *gorm.DB
	cleanup    func()
	isPostgres bool
}

// SetupTestDatabase creates a test database (PostgreSQL in container or SQLite in memory).
func SetupTestDatabase(t testing.TB, usePostgres bool) *DatabaseTestUtil {
	ctx := context.Background()

	if usePostgres {
		return setupPostgresContainer(t, ctx)
	}
	return setupSQLiteInMemory(t)
}

// setupPostgresContainer creates a PostgreSQL container for testing.
func setupPostgresContainer(t testing.TB, ctx context.Context) *DatabaseTestUtil {
	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(pgdriver.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SearchHistory{},
		&models.SearchCache{},
		&models.SearchSuggestion{},
	)
	require.NoError(t, err)

	return &DatabaseTestUtil{
		container:  pgContainer,
		db:         db,
		isPostgres: true,
		cleanup: func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		},
	}
}

// setupSQLiteInMemory creates an in-memory SQLite database for testing.
func setupSQLiteInMemory(t testing.TB) *DatabaseTestUtil {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SearchHistory{},
		&models.SearchCache{},
		&models.SearchSuggestion{},
	)
	require.NoError(t, err)

	return &DatabaseTestUtil{
		db:         db,
		isPostgres: false,
		cleanup:    func() {},
	}
}

// DB returns the GORM database instance.
func (d *DatabaseTestUtil) DB() *gorm.DB {
	return d.db
}

// Cleanup cleans up the test database.
func (d *DatabaseTestUtil) Cleanup() {
	if d.cleanup != nil {
		d.cleanup()
	}
}

// TruncateAllTables truncates all tables for clean test state.
func (d *DatabaseTestUtil) TruncateAllTables(t testing.TB) {
	tables := []string{
		"search_histories",
		"search_caches",
		"search_suggestions",
	}

	if d.isPostgres {
		for _, table := range tables {
			if err := d.db.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				continue
			}
		}
	} else {
		for _, table := range tables {
			if err := d.db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
				continue
			}
		}
	}
}

// Transaction executes a function within a database transaction.
func (d *DatabaseTestUtil) Transaction(t testing.TB, fn func(*gorm.DB) error) {
	tx := d.db.Begin()
	require.NoError(t, tx.Error)

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			t.Fatalf("Transaction panicked: %v", r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		require.NoError(t, err)
	}

	require.NoError(t, tx.Commit().Error)
}

// AssertTableCount asserts the count of records in a table.
func (d *DatabaseTestUtil) AssertTableCount(t testing.TB, table string, expected int64) {
	var count int64
	err := d.db.Table(table).Count(&count).Error
	require.NoError(t, err)
	require.Equal(t, expected, count, "Table %s should have %d records", table, expected)
}

// SeedBasicData seeds the database with a minimal search-history fixture.
func (d *DatabaseTestUtil) SeedBasicData(t testing.TB) {
	history := models.SearchHistory{
		ID:          "search_seed_1",
		Query:       "machine learning",
		ResultCount: 12,
		Duration:    450,
		Providers:   []string{"arxiv", "semantic_scholar"},
		RequestedAt: time.Now().AddDate(0, 0, -1),
	}
	require.NoError(t, d.db.Create(&history).Error)

	cache := models.SearchCache{
		QueryHash:  "seedhash1",
		Query:      "machine learning",
		Provider:   "arxiv",
		ResultJSON: `{"records":[]}`,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, d.db.Create(&cache).Error)
}

// CreateTestSearchHistory creates a search history record with minimal required fields.
func (d *DatabaseTestUtil) CreateTestSearchHistory(t testing.TB, overrides *models.SearchHistory) *models.SearchHistory {
	history := &models.SearchHistory{
		ID:          fmt.Sprintf("search_%d", time.Now().UnixNano()),
		Query:       "test query",
		ResultCount: 0,
		RequestedAt: time.Now(),
	}

	if overrides != nil {
		if overrides.ID != "" {
			history.ID = overrides.ID
		}
		if overrides.Query != "" {
			history.Query = overrides.Query
		}
		if overrides.ResultCount != 0 {
			history.ResultCount = overrides.ResultCount
		}
		if overrides.Providers != nil {
			history.Providers = overrides.Providers
		}
	}

	require.NoError(t, d.db.Create(history).Error)
	return history
}

// CreateTestSearchCache creates a search cache entry with minimal required fields.
func (d *DatabaseTestUtil) CreateTestSearchCache(t testing.TB, overrides *models.SearchCache) *models.SearchCache {
	cache := &models.SearchCache{
		QueryHash:  fmt.Sprintf("hash_%d", time.Now().UnixNano()),
		Query:      "test query",
		ResultJSON: "{}",
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	if overrides != nil {
		if overrides.QueryHash != "" {
			cache.QueryHash = overrides.QueryHash
		}
		if overrides.Query != "" {
			cache.Query = overrides.Query
		}
		if overrides.ResultJSON != "" {
			cache.ResultJSON = overrides.ResultJSON
		}
	}

	require.NoError(t, d.db.Create(cache).Error)
	return cache
}

// GetPostgresConnectionForRawSQL returns raw SQL connection for PostgreSQL.
func (d *DatabaseTestUtil) GetPostgresConnectionForRawSQL(t testing.TB) *sql.DB {
	require.True(t, d.isPostgres, "This method is only available for PostgreSQL containers")

	sqlDB, err := d.db.DB()
	require.NoError(t, err)

	return sqlDB
}
