package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// MetricsController exposes API usage metrics.
type MetricsController struct {
	store MetricsStore
}

// NewMetricsController creates a new MetricsController.
func NewMetricsController(store MetricsStore) *MetricsController {
	return &MetricsController{store: store}
}

// Recent handles GET /api/metrics/recent?limit=...
func (mc *MetricsController) Recent(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	rows, err := mc.store.Recent(limit)
	if err != nil {
		log.Printf("Failed to load recent metrics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load metrics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": rows, "limit": limit})
}

// Summary handles GET /api/metrics/summary?hours=...
func (mc *MetricsController) Summary(c *gin.Context) {
	hours := 24
	if raw := c.Query("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 24*30 {
			hours = parsed
		}
	}

	summary, err := mc.store.Summarize(time.Now().Add(-time.Duration(hours) * time.Hour))
	if err != nil {
		log.Printf("Failed to summarize metrics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize metrics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "period_hours": hours})
}
