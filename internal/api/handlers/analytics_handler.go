package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"litfed-backend/internal/services"
)

// AnalyticsHandler handles analytics-related HTTP requests.
type AnalyticsHandler struct {
	service services.AnalyticsServiceInterface
	logger  *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service services.AnalyticsServiceInterface, logger *slog.Logger) AnalyticsHandlerInterface {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

// GetMetrics returns aggregate search metrics for a time window.
// @Summary Get search metrics
// @Tags analytics
// @Produce json
// @Param from query string false "Start of window (RFC3339)"
// @Param to query string false "End of window (RFC3339)"
// @Success 200 {object} services.SearchMetrics
// @Router /analytics/metrics [get]
func (h *AnalyticsHandler) GetMetrics(c *gin.Context) {
	from, to := h.parseWindow(c)
	metrics, err := h.service.GetSearchMetrics(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to get search metrics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get metrics", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetPopularQueries returns the most frequent queries in a time window.
// @Summary Get popular queries
// @Tags analytics
// @Produce json
// @Param limit query int false "Maximum number of queries to return (default 10)"
// @Param from query string false "Start of window (RFC3339)"
// @Param to query string false "End of window (RFC3339)"
// @Success 200 {object} []services.PopularQuery
// @Router /analytics/popular-queries [get]
func (h *AnalyticsHandler) GetPopularQueries(c *gin.Context) {
	from, to := h.parseWindow(c)
	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	queries, err := h.service.GetPopularQueries(c.Request.Context(), limit, from, to)
	if err != nil {
		h.logger.Error("failed to get popular queries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get popular queries", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, queries)
}

// GetProviderPerformance returns per-adapter request/success metrics.
// @Summary Get source performance
// @Tags analytics
// @Produce json
// @Param from query string false "Start of window (RFC3339)"
// @Param to query string false "End of window (RFC3339)"
// @Success 200 {object} map[string]services.ProviderMetrics
// @Router /analytics/providers [get]
func (h *AnalyticsHandler) GetProviderPerformance(c *gin.Context) {
	from, to := h.parseWindow(c)
	metrics, err := h.service.GetProviderPerformance(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to get provider performance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get provider performance", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetUserActivity returns a user's search activity summary.
// @Summary Get user activity
// @Tags analytics
// @Produce json
// @Param user_id path string true "User ID"
// @Param from query string false "Start of window (RFC3339)"
// @Param to query string false "End of window (RFC3339)"
// @Success 200 {object} services.UserActivity
// @Router /analytics/users/{user_id} [get]
func (h *AnalyticsHandler) GetUserActivity(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: "user_id is required"})
		return
	}

	from, to := h.parseWindow(c)
	activity, err := h.service.GetUserActivity(c.Request.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("failed to get user activity", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get user activity", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (h *AnalyticsHandler) parseWindow(c *gin.Context) (time.Time, time.Time) {
	to := time.Now()
	from := to.Add(-24 * time.Hour)

	if fromStr := c.Query("from"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			from = parsed
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			to = parsed
		}
	}
	return from, to
}
