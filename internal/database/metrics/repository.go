// Package metrics provides database operations for API usage metrics.
//
// Every aggregated search records one row: where the results came from, how
// long the request took, and whether anything went wrong. A scheduled
// cleanup prunes rows past the retention window.
package metrics

import (
	"time"

	"gorm.io/gorm"

	"github.com/lari-ember/biblioteca-web/internal/entities"
)

// Repository handles all metrics database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new metrics repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record persists a single metric row.
func (r *Repository) Record(metric *entities.APIMetric) error {
	return r.db.Create(metric).Error
}

// Recent returns the newest metric rows, up to limit.
func (r *Repository) Recent(limit int) ([]entities.APIMetric, error) {
	var metrics []entities.APIMetric
	tx := r.db.Order("created_at DESC, id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Find(&metrics).Error
	return metrics, err
}

// DeleteOlderThan removes metric rows created before the cutoff and reports
// how many were deleted.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.APIMetric{})
	return result.RowsAffected, result.Error
}

// Summary aggregates usage over the period since the given time.
type Summary struct {
	TotalRequests int64   `json:"total_requests"`
	CacheHits     int64   `json:"cache_hits"`
	Errors        int64   `json:"errors"`
	AvgResponseMs float64 `json:"avg_response_ms"`
}

// Summarize computes request totals, cache hit and error counts, and the
// average response time for rows created after since.
func (r *Repository) Summarize(since time.Time) (*Summary, error) {
	var summary Summary

	scope := func() *gorm.DB {
		return r.db.Model(&entities.APIMetric{}).Where("created_at >= ?", since)
	}

	if err := scope().Count(&summary.TotalRequests).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("cache_hit = ?", true).Count(&summary.CacheHits).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("error_occurred = ?", true).Count(&summary.Errors).Error; err != nil {
		return nil, err
	}
	if summary.TotalRequests > 0 {
		row := scope().Select("AVG(response_time_ms)").Row()
		if err := row.Scan(&summary.AvgResponseMs); err != nil {
			return nil, err
		}
	}
	return &summary, nil
}
