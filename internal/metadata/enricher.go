package metadata

import (
	"context"
	"fmt"
	"log"

	"github.com/lari-ember/biblioteca-web/internal/entities"
)

// MetadataProvider defines the interface for fetching book metadata.
type MetadataProvider interface {
	FetchByISBN(ctx context.Context, isbn string) (*SearchResult, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, bool)
}

// BookUpdater defines the interface for reading and updating catalog
// records during enrichment.
type BookUpdater interface {
	GetBookByID(id uint) (*entities.Book, error)
	UpdateBookMetadata(id uint, fields BookUpdateFields) error
	ListBooksMissingMetadata() ([]entities.Book, error)
}

// BookUpdateFields contains the fields enrichment may backfill. Nil means
// "leave unchanged"; enrichment never overwrites caller-supplied data.
type BookUpdateFields struct {
	ISBN            *string
	CoverURL        *string
	Publisher       *string
	PublicationYear *int
	Pages           *int
}

// EnrichmentResult describes a single-record enrichment outcome.
type EnrichmentResult struct {
	Book          *entities.Book `json:"book"`
	FieldsUpdated []string       `json:"fields_updated"`
	SearchMethod  string         `json:"search_method"` // "isbn" or "title"
}

// BulkEnrichmentResult summarizes a catalog-wide enrichment pass.
type BulkEnrichmentResult struct {
	TotalBooks int `json:"total_books"`
	Enriched   int `json:"enriched"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Enricher backfills missing catalog metadata (cover, publisher, year,
// pages, ISBN) from the external bibliographic service.
type Enricher struct {
	provider MetadataProvider
	db       BookUpdater
}

// NewEnricher creates an Enricher with the given provider and store.
func NewEnricher(provider MetadataProvider, db BookUpdater) *Enricher {
	return &Enricher{provider: provider, db: db}
}

// EnrichBook fetches metadata for one record and backfills empty fields.
// It prefers the ISBN lookup when the record has one, falling back to a
// title+author search.
func (e *Enricher) EnrichBook(ctx context.Context, bookID uint) (*EnrichmentResult, error) {
	book, err := e.db.GetBookByID(bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	var found *SearchResult
	searchMethod := "title"

	if book.ISBN != "" {
		if result, err := e.provider.FetchByISBN(ctx, book.ISBN); err == nil {
			found = result
			searchMethod = "isbn"
		}
	}
	if found == nil {
		results, _ := e.provider.Search(ctx, book.Title+" "+book.Author, 5)
		if len(results) == 0 {
			return nil, fmt.Errorf("no metadata found for %q", book.Title)
		}
		found = &results[0]
	}

	updates, fieldsUpdated := buildUpdates(book, found)
	if len(fieldsUpdated) > 0 {
		if err := e.db.UpdateBookMetadata(book.ID, updates); err != nil {
			return nil, fmt.Errorf("update book metadata: %w", err)
		}
		book, err = e.db.GetBookByID(book.ID)
		if err != nil {
			return nil, fmt.Errorf("reload book: %w", err)
		}
	}

	return &EnrichmentResult{
		Book:          book,
		FieldsUpdated: fieldsUpdated,
		SearchMethod:  searchMethod,
	}, nil
}

// EnrichAllMissing runs enrichment over every record missing metadata.
// Individual failures are counted, not fatal.
func (e *Enricher) EnrichAllMissing(ctx context.Context) (*BulkEnrichmentResult, error) {
	books, err := e.db.ListBooksMissingMetadata()
	if err != nil {
		return nil, fmt.Errorf("list books missing metadata: %w", err)
	}

	result := &BulkEnrichmentResult{TotalBooks: len(books)}
	for _, book := range books {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		enriched, err := e.EnrichBook(ctx, book.ID)
		if err != nil {
			log.Printf("Enrichment failed for book %d (%s): %v", book.ID, book.Title, err)
			result.Failed++
			continue
		}
		if len(enriched.FieldsUpdated) > 0 {
			result.Enriched++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

// buildUpdates compares the record with fetched metadata and returns
// updates for fields the record is missing.
func buildUpdates(book *entities.Book, found *SearchResult) (BookUpdateFields, []string) {
	var updates BookUpdateFields
	var fields []string

	if book.ISBN == "" && found.ISBN != "" {
		updates.ISBN = &found.ISBN
		fields = append(fields, "isbn")
	}
	if book.CoverURL == "" && found.CoverURL != "" {
		updates.CoverURL = &found.CoverURL
		fields = append(fields, "cover_url")
	}
	if book.Publisher == "" && found.Publisher != "" && found.Publisher != "Unknown" {
		updates.Publisher = &found.Publisher
		fields = append(fields, "publisher")
	}
	if book.PublicationYear == 0 && found.Year > 0 {
		updates.PublicationYear = &found.Year
		fields = append(fields, "publication_year")
	}
	if book.Pages == 0 && found.Pages > 0 {
		updates.Pages = &found.Pages
		fields = append(fields, "pages")
	}

	return updates, fields
}
