// Package search merges local catalog matches with external bibliographic
// suggestions into a single paginated autocomplete feed.
package search

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/lari-ember/biblioteca-web/internal/entities"
	"github.com/lari-ember/biblioteca-web/internal/metadata"
)

// LocalStore finds matching records in the local catalog.
type LocalStore interface {
	FindLocalMatches(query string, limit int) ([]entities.Book, error)
}

// ExternalSearcher queries the external bibliographic service. The boolean
// reports whether the results came from its cache.
type ExternalSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]metadata.SearchResult, bool)
}

// MetricsRecorder persists one usage row per aggregated request.
type MetricsRecorder interface {
	Record(metric *entities.APIMetric) error
}

// Config tunes the aggregator. Zero values fall back to the defaults below.
type Config struct {
	// ResultCeiling caps the merged result set per query.
	ResultCeiling int
	// MinQueryLength is the shortest query worth searching for.
	MinQueryLength int
	// MaxPageSize bounds the page_size request parameter.
	MaxPageSize int
}

// PageMetadata describes how a page of suggestions was assembled.
type PageMetadata struct {
	Total          int    `json:"total"`
	LocalCount     int    `json:"local_count"`
	APICount       int    `json:"api_count"`
	Offset         int    `json:"offset"`
	PageSize       int    `json:"page_size"`
	HasMore        bool   `json:"has_more"`
	CacheHit       bool   `json:"cache_hit"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Query          string `json:"query"`
	Error          bool   `json:"error,omitempty"`
}

// Page is one window of merged results plus its metadata. The window is
// partitioned back into its sub-lists: Local holds catalog matches,
// Suggestions holds external ones, and Local entries precede Suggestions in
// the merged order.
type Page struct {
	Local       []metadata.SearchResult `json:"local"`
	Suggestions []metadata.SearchResult `json:"suggestions"`
	Metadata    PageMetadata            `json:"metadata"`
}

// Aggregator answers autocomplete queries from the local catalog first,
// topping the list up from the external service. It never returns an error:
// any failure degrades to an empty page flagged in the metadata.
type Aggregator struct {
	local    LocalStore
	external ExternalSearcher
	metrics  MetricsRecorder
	cfg      Config

	now func() time.Time
}

// NewAggregator creates an Aggregator over the given stores. metrics may be
// nil to disable usage recording.
func NewAggregator(local LocalStore, external ExternalSearcher, metrics MetricsRecorder, cfg Config) *Aggregator {
	if cfg.ResultCeiling <= 0 {
		cfg.ResultCeiling = 15
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = 2
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 10
	}
	return &Aggregator{
		local:    local,
		external: external,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Autocomplete merges local and external matches for the query and returns
// the requested window. Local matches always precede external ones, and the
// same (query, offset, pageSize) yields the same window while the underlying
// data is unchanged.
func (a *Aggregator) Autocomplete(ctx context.Context, query string, offset, pageSize int) (page Page) {
	start := a.now()

	query = strings.TrimSpace(query)
	pageSize = clamp(pageSize, 1, a.cfg.MaxPageSize)
	if offset < 0 {
		offset = 0
	}

	page = Page{
		Local:       []metadata.SearchResult{},
		Suggestions: []metadata.SearchResult{},
		Metadata: PageMetadata{
			Offset:   offset,
			PageSize: pageSize,
			Query:    query,
		},
	}

	// A panic anywhere below must not take the request down with it.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Autocomplete panic for %q: %v", query, r)
			page.Local = []metadata.SearchResult{}
			page.Suggestions = []metadata.SearchResult{}
			page.Metadata.Error = true
		}
		page.Metadata.ResponseTimeMs = a.now().Sub(start).Milliseconds()
		a.record(&page)
	}()

	if len([]rune(query)) < a.cfg.MinQueryLength {
		return page
	}

	merged, localCount, cacheHit, failed := a.merge(ctx, query)

	page.Metadata.Total = len(merged)
	page.Metadata.LocalCount = localCount
	page.Metadata.APICount = len(merged) - localCount
	page.Metadata.CacheHit = cacheHit
	page.Metadata.Error = failed
	page.Metadata.HasMore = offset+pageSize < len(merged)
	page.Local, page.Suggestions = partition(window(merged, offset, pageSize))

	return page
}

// merge builds the full result list: local matches first, then external
// suggestions filling the remaining room under the ceiling.
func (a *Aggregator) merge(ctx context.Context, query string) (results []metadata.SearchResult, localCount int, cacheHit, failed bool) {
	books, err := a.local.FindLocalMatches(query, a.cfg.ResultCeiling)
	if err != nil {
		log.Printf("Local search failed for %q: %v", query, err)
		failed = true
		books = nil
	}

	results = make([]metadata.SearchResult, 0, a.cfg.ResultCeiling)
	for i := range books {
		results = append(results, localResult(&books[i]))
	}
	localCount = len(results)

	room := a.cfg.ResultCeiling - localCount
	if room <= 0 {
		return results, localCount, false, failed
	}

	external, cached := a.external.Search(ctx, query, room)
	if len(external) > room {
		external = external[:room]
	}
	return append(results, external...), localCount, cached, failed
}

func (a *Aggregator) record(page *Page) {
	if a.metrics == nil {
		return
	}
	metric := &entities.APIMetric{
		Endpoint:       "/api/autocomplete",
		Query:          page.Metadata.Query,
		ResponseTimeMs: page.Metadata.ResponseTimeMs,
		ResultsCount:   page.Metadata.Total,
		LocalCount:     page.Metadata.LocalCount,
		APICount:       page.Metadata.APICount,
		CacheHit:       page.Metadata.CacheHit,
		ErrorOccurred:  page.Metadata.Error,
	}
	if err := a.metrics.Record(metric); err != nil {
		log.Printf("Failed to record search metric: %v", err)
	}
}

// localResult maps a catalog record onto the shared suggestion shape.
func localResult(book *entities.Book) metadata.SearchResult {
	return metadata.SearchResult{
		Code:      book.Code,
		Title:     book.Title,
		Author:    book.Author,
		Genre:     book.Genre,
		Year:      book.PublicationYear,
		Publisher: book.Publisher,
		Pages:     book.Pages,
		ISBN:      book.ISBN,
		CoverURL:  book.CoverURL,
		Source:    metadata.SourceLocal,
	}
}

// partition splits a window into its catalog and external sub-lists. The
// merged list is local-first, so concatenating the two reproduces the window.
func partition(results []metadata.SearchResult) (local, external []metadata.SearchResult) {
	local = []metadata.SearchResult{}
	external = []metadata.SearchResult{}
	for _, r := range results {
		if r.Source == metadata.SourceLocal {
			local = append(local, r)
		} else {
			external = append(external, r)
		}
	}
	return local, external
}

func window(results []metadata.SearchResult, offset, pageSize int) []metadata.SearchResult {
	if offset >= len(results) {
		return []metadata.SearchResult{}
	}
	end := offset + pageSize
	if end > len(results) {
		end = len(results)
	}
	out := make([]metadata.SearchResult, end-offset)
	copy(out, results[offset:end])
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
