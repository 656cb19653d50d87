package http

import (
	"github.com/lari-ember/biblioteca-web/internal/catalog"
	"github.com/lari-ember/biblioteca-web/internal/database"
	"github.com/lari-ember/biblioteca-web/internal/search"
	"github.com/lari-ember/biblioteca-web/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Registrar *catalog.Registrar
	Taxonomy  *catalog.Taxonomy

	// Catalog reads
	BookStore BookStore

	// Search aggregation
	Aggregator *search.Aggregator

	// Usage metrics
	MetricsStore MetricsStore

	// Background enrichment; nil disables the enrich endpoints
	TaskClient *tasks.Client

	// Application info
	Version string
}
