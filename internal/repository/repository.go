package repository

import (
	"context"
	"fmt"

	"litfed-backend/internal/config"
	"litfed-backend/internal/errors"

	"gorm.io/gorm"
	"log/slog"
)

// repository implements the Repository interface
type repository struct {
	db         *Database
	searchRepo SearchRepository
	logger     *slog.Logger
}

// NewRepository creates a new repository instance
func NewRepository(cfg *config.Config, logger *slog.Logger) (Repository, error) {
	db, err := NewDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	return &repository{
		db:         db,
		searchRepo: NewSearchRepository(db.DB, logger),
		logger:     logger,
	}, nil
}

// Search returns the search repository
func (r *repository) Search() SearchRepository {
	return r.searchRepo
}

// Transaction executes a function within a database transaction
func (r *repository) Transaction(ctx context.Context, fn func(Transaction) error) error {
	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := &transactionRepository{
			tx:         tx,
			searchRepo: NewSearchRepository(tx, r.logger),
		}
		return fn(txRepo)
	})
}

// Ping checks the database connection
func (r *repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close closes the database connection
func (r *repository) Close() error {
	return r.db.Close()
}

// GetStats returns database statistics
func (r *repository) GetStats() (map[string]interface{}, error) {
	return r.db.GetStats()
}

// transactionRepository implements the Transaction interface
type transactionRepository struct {
	tx         *gorm.DB
	searchRepo SearchRepository
}

// Begin starts a new transaction (GORM already runs inside one)
func (t *transactionRepository) Begin(ctx context.Context) (Transaction, error) {
	return t, nil
}

// Commit commits the transaction
func (t *transactionRepository) Commit() error {
	return nil
}

// Rollback rolls back the transaction
func (t *transactionRepository) Rollback() error {
	return nil
}

// Search returns the search repository within the transaction
func (t *transactionRepository) Search() SearchRepository {
	return t.searchRepo
}

// RepositoryManager provides additional repository management functionality
type RepositoryManager struct {
	repo   Repository
	logger *slog.Logger
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(repo Repository, logger *slog.Logger) *RepositoryManager {
	return &RepositoryManager{
		repo:   repo,
		logger: logger,
	}
}

// HealthCheck performs a health check of the repository layer
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if err := rm.repo.Ping(ctx); err != nil {
		return errors.NewHealthCheckError("database ping failed: "+err.Error(), "database")
	}

	if _, err := rm.repo.Search().GetCacheStats(ctx); err != nil {
		return errors.NewHealthCheckError("search repository test failed: "+err.Error(), "repository")
	}

	rm.logger.Info("Repository health check passed")
	return nil
}

// GetDetailedStats returns detailed statistics from the repository layer
func (rm *RepositoryManager) GetDetailedStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	dbStats, err := rm.repo.GetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to get database stats: %w", err)
	}
	stats["database"] = dbStats

	cacheStats, err := rm.repo.Search().GetCacheStats(ctx)
	if err != nil {
		rm.logger.Warn("Failed to get cache stats", slog.String("error", err.Error()))
	} else {
		stats["cache"] = cacheStats
	}

	return stats, nil
}

// CleanupExpiredData performs cleanup of expired data in the repository
func (rm *RepositoryManager) CleanupExpiredData(ctx context.Context) error {
	rm.logger.Info("Starting expired data cleanup")

	if err := rm.repo.Search().CleanupExpiredCache(ctx); err != nil {
		rm.logger.Error("Failed to cleanup expired cache", slog.String("error", err.Error()))
		return fmt.Errorf("failed to cleanup expired cache: %w", err)
	}

	rm.logger.Info("Expired data cleanup completed")
	return nil
}
