package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lari-ember/biblioteca-web/internal/entities"
	"github.com/lari-ember/biblioteca-web/internal/metadata"
	"github.com/lari-ember/biblioteca-web/internal/search"
)

type stubLocalStore struct {
	books []entities.Book
}

func (s *stubLocalStore) FindLocalMatches(query string, limit int) ([]entities.Book, error) {
	if len(s.books) > limit {
		return s.books[:limit], nil
	}
	return s.books, nil
}

type stubExternalSearcher struct {
	results []metadata.SearchResult
}

func (s *stubExternalSearcher) Search(ctx context.Context, query string, limit int) ([]metadata.SearchResult, bool) {
	if len(s.results) > limit {
		return s.results[:limit], false
	}
	return s.results, false
}

func newSearchTestRouter(local *stubLocalStore, external *stubExternalSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	aggregator := search.NewAggregator(local, external, nil, search.Config{})
	controller := NewSearchController(aggregator)

	router := gin.New()
	router.GET("/api/autocomplete", controller.Autocomplete)
	return router
}

func getPage(t *testing.T, router *gin.Engine, url string) search.Page {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", url, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var page search.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func TestSearchController_Autocomplete(t *testing.T) {
	local := &stubLocalStore{books: []entities.Book{
		{Code: "C003p", Title: "Poirot Investigates", Author: "Agatha Christie"},
	}}
	external := &stubExternalSearcher{results: []metadata.SearchResult{
		{Title: "Poirot Loses a Client", Source: metadata.SourceOpenLibrary},
	}}
	router := newSearchTestRouter(local, external)

	page := getPage(t, router, "/api/autocomplete?q=poirot")

	assert.Equal(t, 2, page.Metadata.Total)
	assert.Equal(t, 1, page.Metadata.LocalCount)
	assert.Equal(t, 1, page.Metadata.APICount)
	assert.Equal(t, "poirot", page.Metadata.Query)
	require.Len(t, page.Local, 1)
	require.Len(t, page.Suggestions, 1)
	assert.Equal(t, metadata.SourceLocal, page.Local[0].Source)
	assert.Equal(t, "C003p", page.Local[0].Code)
	assert.Equal(t, metadata.SourceOpenLibrary, page.Suggestions[0].Source)
}

func TestSearchController_AutocompleteParameterParsing(t *testing.T) {
	books := make([]entities.Book, 15)
	for i := range books {
		books[i] = entities.Book{Title: "Book", Author: "Author"}
	}
	router := newSearchTestRouter(&stubLocalStore{books: books}, &stubExternalSearcher{})

	t.Run("defaults", func(t *testing.T) {
		page := getPage(t, router, "/api/autocomplete?q=book")
		assert.Equal(t, 0, page.Metadata.Offset)
		assert.Equal(t, 10, page.Metadata.PageSize)
	})

	t.Run("explicit window", func(t *testing.T) {
		page := getPage(t, router, "/api/autocomplete?q=book&offset=10&page_size=5")
		assert.Equal(t, 10, page.Metadata.Offset)
		assert.Equal(t, 5, page.Metadata.PageSize)
		assert.Len(t, page.Local, 5)
	})

	t.Run("oversized page clamped", func(t *testing.T) {
		page := getPage(t, router, "/api/autocomplete?q=book&page_size=100")
		assert.Equal(t, 10, page.Metadata.PageSize)
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		page := getPage(t, router, "/api/autocomplete?q=book&offset=abc&page_size=xyz")
		assert.Equal(t, 0, page.Metadata.Offset)
		assert.Equal(t, 10, page.Metadata.PageSize)
	})
}

func TestSearchController_AutocompleteShortQuery(t *testing.T) {
	router := newSearchTestRouter(&stubLocalStore{}, &stubExternalSearcher{})

	page := getPage(t, router, "/api/autocomplete?q=x")
	assert.Equal(t, 0, page.Metadata.Total)
	assert.Empty(t, page.Local)
	assert.Empty(t, page.Suggestions)
	assert.False(t, page.Metadata.Error)
}
