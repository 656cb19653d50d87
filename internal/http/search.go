package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lari-ember/biblioteca-web/internal/search"
)

// SearchController handles the autocomplete endpoint.
type SearchController struct {
	aggregator *search.Aggregator
}

// NewSearchController creates a new SearchController.
func NewSearchController(aggregator *search.Aggregator) *SearchController {
	return &SearchController{aggregator: aggregator}
}

// Autocomplete handles GET /api/autocomplete?q=...&offset=...&page_size=...
// The aggregator never fails; malformed pagination parameters fall back to
// their defaults rather than rejecting the request.
func (sc *SearchController) Autocomplete(c *gin.Context) {
	query := c.Query("q")

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			offset = parsed
		}
	}

	pageSize := 10
	if raw := c.Query("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			pageSize = parsed
		}
	}

	page := sc.aggregator.Autocomplete(c.Request.Context(), query, offset, pageSize)
	c.JSON(http.StatusOK, page)
}
