package services

import (
	"time"

	"litfed-backend/internal/models"
)

// SearchRequest represents a search request from the API/MCP layer.
type SearchRequest struct {
	RequestID string              `json:"request_id" validate:"required"`
	Query     string              `json:"query" validate:"required,min=1,max=1000"`
	Options   models.SearchOptions `json:"options,omitempty"`
	UserID    *string             `json:"user_id,omitempty"`
}

// SearchResponse represents a search response to the API/MCP layer.
type SearchResponse struct {
	RequestID  string                    `json:"request_id"`
	Query      string                    `json:"query"`
	Records    []models.Record           `json:"records"`
	Reasoning  models.ReasoningResult    `json:"reasoning"`
	Statistics models.ResearchStatistics `json:"statistics"`
	Duration   time.Duration             `json:"duration"`
	Timestamp  time.Time                 `json:"timestamp"`
}

// AnalyticsRequest represents a request for search analytics
type AnalyticsRequest struct {
	TimeRange   string            `json:"time_range" validate:"required"` // e.g., "1h", "24h", "7d", "30d"
	StartTime   *time.Time        `json:"start_time,omitempty"`
	EndTime     *time.Time        `json:"end_time,omitempty"`
	Granularity string            `json:"granularity,omitempty"` // "hour", "day", "week"
	Filters     map[string]string `json:"filters,omitempty"`
}

// AnalyticsResponse represents analytics data
type AnalyticsResponse struct {
	TimeRange   string                   `json:"time_range"`
	StartTime   time.Time                `json:"start_time"`
	EndTime     time.Time                `json:"end_time"`
	Granularity string                   `json:"granularity"`
	Metrics     AnalyticsMetrics         `json:"metrics"`
	Trends      []AnalyticsTrend         `json:"trends"`
	TopQueries  []PopularQuery           `json:"top_queries"`
	Providers   map[string]ProviderStats `json:"providers"`
	Timestamp   time.Time                `json:"timestamp"`
}

// AnalyticsMetrics represents aggregate analytics metrics
type AnalyticsMetrics struct {
	TotalSearches       int64            `json:"total_searches"`
	UniqueUsers         int64            `json:"unique_users"`
	AvgResponseTime     time.Duration    `json:"avg_response_time"`
	SuccessRate         float64          `json:"success_rate"`
	TotalResults        int64            `json:"total_results"`
	AvgResultsPerSearch float64          `json:"avg_results_per_search"`
	CacheHitRate        float64          `json:"cache_hit_rate"`
	PopularTimeRanges   map[string]int64 `json:"popular_time_ranges"`
}

// AnalyticsTrend represents a trend data point
type AnalyticsTrend struct {
	Timestamp    time.Time `json:"timestamp"`
	Searches     int64     `json:"searches"`
	Users        int64     `json:"users"`
	ResponseTime float64   `json:"response_time_ms"`
	SuccessRate  float64   `json:"success_rate"`
}

// PopularQuery represents a popular search query
type PopularQuery struct {
	Query       string  `json:"query"`
	Count       int64   `json:"count"`
	SuccessRate float64 `json:"success_rate"`
	AvgResults  float64 `json:"avg_results"`
}

// ProviderStats represents provider-specific statistics
type ProviderStats struct {
	Requests     int64         `json:"requests"`
	Successes    int64         `json:"successes"`
	Failures     int64         `json:"failures"`
	SuccessRate  float64       `json:"success_rate"`
	AvgResponse  time.Duration `json:"avg_response_time"`
	TotalResults int64         `json:"total_results"`
	AvgResults   float64       `json:"avg_results"`
}

// Validation helpers

// ValidateSearchRequest validates a search request
func (r *SearchRequest) ValidateSearchRequest() error {
	if r.Query == "" {
		return NewValidationError("query is required")
	}

	if len(r.Query) > 1000 {
		return NewValidationError("query too long (max 1000 characters)")
	}

	if r.Options.MinReliability < 0 || r.Options.MinReliability > 1 {
		return NewValidationError("min_reliability must be between 0 and 1")
	}

	if r.Options.YearStart != 0 && r.Options.YearEnd != 0 && r.Options.YearStart > r.Options.YearEnd {
		return NewValidationError("year_start must be before year_end")
	}

	return nil
}

// SetDefaults sets default values for a search request
func (r *SearchRequest) SetDefaults() {
	defaults := models.DefaultSearchOptions()
	if r.Options.MaxPerSource <= 0 {
		r.Options.MaxPerSource = defaults.MaxPerSource
	}
}

// GetValidTimeRanges returns the list of valid time ranges for analytics
func GetValidTimeRanges() []string {
	return []string{"1h", "6h", "24h", "7d", "30d", "90d"}
}

// GetValidGranularities returns the list of valid granularities for analytics
func GetValidGranularities() []string {
	return []string{"hour", "day", "week"}
}

// Helper function to create validation errors
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
