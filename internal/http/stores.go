package http

import (
	"time"

	"github.com/lari-ember/biblioteca-web/internal/database/metrics"
	"github.com/lari-ember/biblioteca-web/internal/entities"
)

// BookStore covers the catalog reads the controllers need.
type BookStore interface {
	GetByCode(code string) (*entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	List(limit, offset int) ([]entities.Book, error)
	Count() (int64, error)
}

// MetricsStore covers the usage-metric reads exposed over the API.
type MetricsStore interface {
	Recent(limit int) ([]entities.APIMetric, error)
	Summarize(since time.Time) (*metrics.Summary, error)
}
