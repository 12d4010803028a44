package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"litfed-backend/internal/errors"
	"litfed-backend/internal/models"
	"litfed-backend/internal/services"
)

// SearchHandler handles search-related HTTP requests.
type SearchHandler struct {
	service services.SearchServiceInterface
	logger  *slog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service services.SearchServiceInterface, logger *slog.Logger) SearchHandlerInterface {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// Search performs a federated literature search.
// @Summary Search academic literature
// @Description Run a federated search across every configured source
// @Tags search
// @Accept json
// @Produce json
// @Param query query string true "Search query"
// @Param max_per_source query int false "Maximum records per source (default: 100)"
// @Param sources query string false "Comma-separated list of sources to query"
// @Param expand_citations query bool false "Follow citation links"
// @Param include_preprints query bool false "Include preprint servers"
// @Param min_reliability query number false "Minimum source reliability (0-1)"
// @Param year_start query int false "Earliest publication year"
// @Param year_end query int false "Latest publication year"
// @Success 200 {object} services.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	requestID := uuid.New().String()

	searchReq, err := h.parseSearchRequest(c, requestID)
	if err != nil {
		h.logger.Warn("invalid search request",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request",
			Message:   err.Error(),
			RequestID: requestID,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	h.logger.Info("search request received",
		slog.String("request_id", requestID),
		slog.String("query", searchReq.Query),
		slog.Any("sources", searchReq.Options.Sources))

	response, err := h.service.Search(c.Request.Context(), searchReq)
	if err != nil {
		h.logger.Error("search failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))

		statusCode := http.StatusInternalServerError
		if errors.IsValidationError(err) {
			statusCode = http.StatusBadRequest
		} else if errors.IsTimeoutError(err) {
			statusCode = http.StatusRequestTimeout
		} else if errors.IsRateLimitError(err) {
			statusCode = http.StatusTooManyRequests
		}

		c.JSON(statusCode, ErrorResponse{
			Error:     "Search failed",
			Message:   err.Error(),
			RequestID: requestID,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	h.logger.Info("search completed",
		slog.String("request_id", requestID),
		slog.Int("results", len(response.Records)),
		slog.Duration("duration", response.Duration))

	c.JSON(http.StatusOK, response)
}

// GetProviders returns availability for every registered adapter.
// @Summary Get available search sources
// @Description Get availability and capabilities of every configured source adapter
// @Tags search
// @Accept json
// @Produce json
// @Success 200 {object} gin.H
// @Failure 500 {object} ErrorResponse
// @Router /search/providers [get]
func (h *SearchHandler) GetProviders(c *gin.Context) {
	status, err := h.service.GetAdapterStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to get adapter status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get adapter status",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": status,
		"timestamp": time.Now(),
	})
}

// Helper methods

func (h *SearchHandler) parseSearchRequest(c *gin.Context, requestID string) (*services.SearchRequest, error) {
	req := &services.SearchRequest{
		RequestID: requestID,
		Query:     c.Query("query"),
		Options:   models.DefaultSearchOptions(),
	}

	if maxStr := c.Query("max_per_source"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil {
			return nil, fmt.Errorf("invalid max_per_source: %v", err)
		}
		req.Options.MaxPerSource = max
	}

	if sourcesStr := c.Query("sources"); sourcesStr != "" {
		req.Options.Sources = splitAndTrim(sourcesStr, ",")
	}

	if expandStr := c.Query("expand_citations"); expandStr != "" {
		expand, err := strconv.ParseBool(expandStr)
		if err != nil {
			return nil, fmt.Errorf("invalid expand_citations: %v", err)
		}
		req.Options.ExpandCitations = expand
	}

	if preprintsStr := c.Query("include_preprints"); preprintsStr != "" {
		include, err := strconv.ParseBool(preprintsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid include_preprints: %v", err)
		}
		req.Options.IncludePreprints = include
	}

	if reliabStr := c.Query("min_reliability"); reliabStr != "" {
		reliab, err := strconv.ParseFloat(reliabStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid min_reliability: %v", err)
		}
		req.Options.MinReliability = reliab
	}

	if yearStartStr := c.Query("year_start"); yearStartStr != "" {
		yearStart, err := strconv.Atoi(yearStartStr)
		if err != nil {
			return nil, fmt.Errorf("invalid year_start: %v", err)
		}
		req.Options.YearStart = yearStart
	}

	if yearEndStr := c.Query("year_end"); yearEndStr != "" {
		yearEnd, err := strconv.Atoi(yearEndStr)
		if err != nil {
			return nil, fmt.Errorf("invalid year_end: %v", err)
		}
		req.Options.YearEnd = yearEnd
	}

	req.SetDefaults()
	if err := req.ValidateSearchRequest(); err != nil {
		return nil, err
	}

	return req, nil
}

// splitAndTrim splits s on sep, trimming whitespace and dropping empty parts.
func splitAndTrim(s, sep string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}
