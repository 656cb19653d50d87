package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lari-ember/biblioteca-web/internal/catalog"
)

// Result sources.
const (
	SourceLocal       = "local"
	SourceOpenLibrary = "openlibrary"
)

const userAgent = "BibliotecaWeb/1.0 (https://github.com/lari-ember/biblioteca-web)"

// SearchResult is a normalized bibliographic record, produced per-request
// and never persisted. FallbackURLs is the cover fallback chain: the same
// image at decreasing size preference, for the caller to retry on load
// failure.
type SearchResult struct {
	Code           string   `json:"code,omitempty"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	Genre          string   `json:"genre"`
	Year           int      `json:"year"`
	Publisher      string   `json:"publisher"`
	Pages          int      `json:"pages,omitempty"`
	ISBN           string   `json:"isbn,omitempty"`
	CoverURL       string   `json:"cover_url,omitempty"`
	FallbackURLs   []string `json:"fallback_urls,omitempty"`
	OpenLibraryKey string   `json:"openlibrary_key,omitempty"`
	Source         string   `json:"source"`
}

// Config tunes the Open Library client. Zero values fall back to the
// defaults below.
type Config struct {
	BaseURL       string
	CoversBaseURL string
	Timeout       time.Duration
	RatePerMinute int
	CacheTTL      time.Duration
	Lang          string
}

// Client fetches and normalizes book metadata from the Open Library API.
// Search is best-effort: rate-limit rejections, timeouts, non-2xx responses
// and decode failures all degrade to an empty result, never an error.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	coversBaseURL string
	limiter       *windowLimiter
	cache         *resultCache
	lang          string

	// defaultYear supplies the fallback publication year for records the
	// external service returns without one. Overridable in tests.
	defaultYear func() int
}

// NewClient creates an Open Library client with caching and rate limiting.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openlibrary.org"
	}
	if cfg.CoversBaseURL == "" {
		cfg.CoversBaseURL = "https://covers.openlibrary.org/b"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = 100
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}

	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		coversBaseURL: strings.TrimRight(cfg.CoversBaseURL, "/"),
		limiter:       newWindowLimiter(cfg.RatePerMinute, time.Minute),
		cache:         newResultCache(cfg.CacheTTL),
		lang:          cfg.Lang,
		defaultYear:   func() int { return time.Now().Year() },
	}
}

// Search queries Open Library and returns up to limit normalized results.
// The second return value reports whether the response came from the cache;
// cache hits bypass both the network call and the rate limiter.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, bool) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil, false
	}

	key := searchKey{Query: query, Limit: limit, Lang: c.lang}
	if results, ok := c.cache.get(key); ok {
		return results, true
	}

	if !c.limiter.Allow() {
		log.Printf("OpenLibrary rate limit reached, skipping search for %q", query)
		return nil, false
	}

	results := c.searchRemote(ctx, query, limit)
	if results != nil {
		c.cache.put(key, results)
	}
	return results, false
}

func (c *Client) searchRemote(ctx context.Context, query string, limit int) []SearchResult {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", "key,title,author_name,first_publish_year,isbn,cover_i,publisher,subject,number_of_pages_median")

	searchURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		log.Printf("OpenLibrary request build failed: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("OpenLibrary search failed for %q: %v", query, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("OpenLibrary search for %q: unexpected status %d", query, resp.StatusCode)
		return nil
	}

	var payload openLibrarySearchResult
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("OpenLibrary search decode failed for %q: %v", query, err)
		return nil
	}

	results := make([]SearchResult, 0, len(payload.Docs))
	for i := range payload.Docs {
		if len(results) >= limit {
			break
		}
		results = append(results, c.normalizeDoc(&payload.Docs[i]))
	}
	return results
}

// FetchByISBN retrieves edition details for a single ISBN. Unlike Search
// this returns errors: it backs the enrichment path, where the caller
// decides whether a failure is retryable.
func (c *Client) FetchByISBN(ctx context.Context, isbn string) (*SearchResult, error) {
	normalized, err := catalog.NormalizeISBN(isbn)
	if err != nil {
		return nil, err
	}

	if !c.limiter.Allow() {
		return nil, fmt.Errorf("rate limit reached for ISBN lookup %s", normalized)
	}

	reqURL := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, normalized)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ISBN data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("ISBN not found: %s", normalized)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var edition openLibraryEdition
	if err := json.NewDecoder(resp.Body).Decode(&edition); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	result := &SearchResult{
		Title:          edition.Title,
		ISBN:           normalized,
		Pages:          edition.NumberOfPages,
		OpenLibraryKey: edition.Key,
		Source:         SourceOpenLibrary,
	}
	if len(edition.Publishers) > 0 {
		result.Publisher = edition.Publishers[0]
	}
	if edition.PublishDate != "" {
		result.Year = extractYear(edition.PublishDate)
	}
	if len(edition.Covers) > 0 && edition.Covers[0] > 0 {
		result.FallbackURLs = c.buildCoverURLs(edition.Covers[0])
		result.CoverURL = result.FallbackURLs[0]
	}
	return result, nil
}

func (c *Client) normalizeDoc(doc *openLibrarySearchDoc) SearchResult {
	result := SearchResult{
		Title:          doc.Title,
		Genre:          extractGenre(doc.Subject),
		Year:           doc.FirstPublishYear,
		Pages:          doc.NumberOfPagesMedian,
		OpenLibraryKey: doc.Key,
		Source:         SourceOpenLibrary,
	}
	if result.Title == "" {
		result.Title = "Unknown Title"
	}
	if result.Year == 0 {
		result.Year = c.defaultYear()
	}

	result.Author = joinFirst(doc.AuthorName, 3)
	if result.Author == "" {
		result.Author = "Unknown Author"
	}

	if len(doc.Publisher) > 0 {
		result.Publisher = doc.Publisher[0]
	} else {
		result.Publisher = "Unknown"
	}

	// First listed ISBN, canonicalized. Invalid identifiers are dropped
	// rather than surfaced as record-level errors.
	if len(doc.ISBN) > 0 {
		if normalized, err := catalog.NormalizeISBN(doc.ISBN[0]); err == nil {
			result.ISBN = normalized
		}
	}

	if doc.CoverI > 0 {
		result.FallbackURLs = c.buildCoverURLs(doc.CoverI)
		result.CoverURL = result.FallbackURLs[0]
	}

	return result
}

// buildCoverURLs returns the cover fallback chain: medium first, then large
// and small variants of the same image.
func (c *Client) buildCoverURLs(coverID int) []string {
	return []string{
		fmt.Sprintf("%s/id/%d-M.jpg", c.coversBaseURL, coverID),
		fmt.Sprintf("%s/id/%d-L.jpg", c.coversBaseURL, coverID),
		fmt.Sprintf("%s/id/%d-S.jpg", c.coversBaseURL, coverID),
	}
}

// extractGenre builds a synthetic genre label from up to three subjects,
// skipping overly specific ones (longer than 30 characters). Only the first
// ten subjects are considered.
func extractGenre(subjects []string) string {
	if len(subjects) > 10 {
		subjects = subjects[:10]
	}
	var picked []string
	for _, s := range subjects {
		if len(picked) >= 3 {
			break
		}
		if len(s) > 30 {
			continue
		}
		if contains(picked, s) {
			continue
		}
		picked = append(picked, s)
	}
	if len(picked) == 0 {
		return "General"
	}
	return strings.Join(picked, ", ")
}

func joinFirst(values []string, n int) string {
	if len(values) > n {
		values = values[:n]
	}
	return strings.Join(values, ", ")
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// extractYear pulls a plausible 4-digit year out of a free-form date string.
func extractYear(dateStr string) int {
	dateStr = strings.TrimSpace(dateStr)

	formats := []string{
		"2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"2006-01-02",
		"January 2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t.Year()
		}
	}

	for i := 0; i+4 <= len(dateStr); i++ {
		if dateStr[i] >= '0' && dateStr[i] <= '9' {
			if year, err := strconv.Atoi(dateStr[i : i+4]); err == nil && year > 1000 && year < 3000 {
				return year
			}
		}
	}
	return 0
}

// Open Library API response types (internal)

type openLibrarySearchResult struct {
	NumFound int                    `json:"numFound"`
	Docs     []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    int      `json:"first_publish_year"`
	Publisher           []string `json:"publisher"`
	ISBN                []string `json:"isbn"`
	CoverI              int      `json:"cover_i"`
	Subject             []string `json:"subject"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
}

type openLibraryEdition struct {
	Key           string   `json:"key"`
	Title         string   `json:"title"`
	Publishers    []string `json:"publishers"`
	PublishDate   string   `json:"publish_date"`
	ISBN13        []string `json:"isbn_13"`
	NumberOfPages int      `json:"number_of_pages"`
	Covers        []int    `json:"covers"`
}
