package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)

	searchController := NewSearchController(cfg.Aggregator)
	router.GET("/api/autocomplete", searchController.Autocomplete)

	booksController := NewBooksController(cfg.Registrar, cfg.BookStore, cfg.TaskClient)
	router.POST("/api/books", booksController.Create)
	router.GET("/api/books", booksController.List)
	router.GET("/api/books/:code", booksController.GetByCode)
	router.POST("/api/books/:code/enrich", booksController.Enrich)
	router.POST("/api/books/enrich-all", booksController.EnrichAll)

	genresController := NewGenresController(cfg.Taxonomy)
	router.GET("/api/genres", genresController.List)

	if cfg.MetricsStore != nil {
		metricsController := NewMetricsController(cfg.MetricsStore)
		router.GET("/api/metrics/recent", metricsController.Recent)
		router.GET("/api/metrics/summary", metricsController.Summary)
	}

	return router
}
