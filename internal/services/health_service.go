package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"litfed-backend/internal/adapters"
	"litfed-backend/internal/messaging"
	"litfed-backend/internal/repository"
)

// HealthService handles health checks for all system components.
type HealthService struct {
	repo      repository.Repository
	registry  *adapters.Registry
	messaging *messaging.Client
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthService creates a new health service.
func NewHealthService(repo repository.Repository, registry *adapters.Registry, messaging *messaging.Client, logger *slog.Logger) HealthServiceInterface {
	return &HealthService{
		repo:      repo,
		registry:  registry,
		messaging: messaging,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Health checks the health of the health service itself.
func (s *HealthService) Health(ctx context.Context) error {
	return nil
}

// DatabaseHealth checks the health of the database connection.
func (s *HealthService) DatabaseHealth(ctx context.Context) error {
	if s.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return s.repo.Ping(ctx)
}

// MessagingHealth checks the health of the messaging system.
func (s *HealthService) MessagingHealth(ctx context.Context) error {
	if s.messaging == nil {
		return fmt.Errorf("messaging client not initialized")
	}
	if !s.messaging.IsConnected() {
		return fmt.Errorf("NATS connection is not established")
	}
	return nil
}

// ExternalServicesHealth reports, per registered adapter, whether it is
// currently usable (credentials present, rate limiter constructed).
func (s *HealthService) ExternalServicesHealth(ctx context.Context) map[string]error {
	results := make(map[string]error)
	if s.registry == nil {
		return results
	}
	for _, a := range s.registry.All() {
		if a.Available() {
			results[a.Name()] = nil
		} else {
			results[a.Name()] = fmt.Errorf("adapter %s unavailable", a.Name())
		}
	}
	return results
}

// GetSystemInfo returns comprehensive system information.
func (s *HealthService) GetSystemInfo(ctx context.Context) (*SystemInfo, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	memInfo := MemoryInfo{
		Allocated: m.Alloc,
		Total:     m.TotalAlloc,
		System:    m.Sys,
		GCRuns:    m.NumGC,
	}

	dbInfo := DatabaseInfo{
		Connected: s.repo != nil && s.DatabaseHealth(ctx) == nil,
		Type:      "sqlite",
	}

	services := map[string]bool{
		"database":  dbInfo.Connected,
		"messaging": s.messaging != nil && s.messaging.IsConnected(),
		"health":    true,
	}

	return &SystemInfo{
		Version:   "1.0.0",
		Uptime:    time.Since(s.startTime),
		Memory:    memInfo,
		Database:  dbInfo,
		Services:  services,
		Timestamp: time.Now(),
	}, nil
}
