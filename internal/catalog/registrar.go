package catalog

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lari-ember/biblioteca-web/internal/entities"
)

// FallbackPolicy decides what happens when a registration names a genre the
// taxonomy does not know. It is configured once at startup; the generator
// itself always rejects unknown genres.
type FallbackPolicy string

const (
	// FallbackReject surfaces ErrUnknownGenre to the caller.
	FallbackReject FallbackPolicy = "reject"
	// FallbackGeneral retries the registration under the General/000 genre.
	FallbackGeneral FallbackPolicy = "general"
)

// RecordStore is the catalog-store contract the registrar writes through.
// Insert must reject duplicate rendered codes with ErrDuplicateCode.
type RecordStore interface {
	CodeStore
	Insert(book *entities.Book) error
}

// Registration carries the caller-supplied fields for a new catalog record.
type Registration struct {
	Title     string
	Author    string
	Genre     string
	Publisher string
	Year      int
	Pages     int
	ISBN      string
	CoverURL  string
	Format    entities.BookFormat
}

// Registrar runs the registration workflow: taxonomy resolution (with the
// configured fallback policy), ISBN normalization, shelf code allocation and
// the insert, retrying allocation once when a concurrent registration wins
// the same code.
type Registrar struct {
	generator *Generator
	taxonomy  *Taxonomy
	store     RecordStore
	fallback  FallbackPolicy
}

// NewRegistrar creates a registrar over the given store.
func NewRegistrar(taxonomy *Taxonomy, store RecordStore, fallback FallbackPolicy) *Registrar {
	if fallback != FallbackGeneral {
		fallback = FallbackReject
	}
	return &Registrar{
		generator: NewGenerator(taxonomy, store),
		taxonomy:  taxonomy,
		store:     store,
		fallback:  fallback,
	}
}

// Register validates the registration, allocates a shelf code and persists
// the record. Returned errors match the catalog error kinds; the inserted
// book is returned on success.
func (r *Registrar) Register(reg Registration) (*entities.Book, error) {
	title := strings.TrimSpace(reg.Title)
	author := strings.TrimSpace(reg.Author)
	genre := strings.TrimSpace(reg.Genre)
	if title == "" || author == "" {
		return nil, ErrInvalidInput
	}

	genreName, err := r.resolveGenre(genre)
	if err != nil {
		return nil, err
	}

	isbn := ""
	if raw := strings.TrimSpace(reg.ISBN); raw != "" {
		isbn, err = NormalizeISBN(raw)
		if err != nil {
			return nil, err
		}
	}

	book := &entities.Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		Publisher:       strings.TrimSpace(reg.Publisher),
		PublicationYear: reg.Year,
		Pages:           reg.Pages,
		Genre:           genreName,
		CoverURL:        reg.CoverURL,
		Format:          reg.Format,
	}

	// Allocate and insert, retrying allocation once if a concurrent
	// registration took the same code between our read and our write.
	for attempt := 0; attempt < 2; attempt++ {
		code, err := r.generator.Generate(genreName, author, title)
		if err != nil {
			return nil, err
		}
		book.Code = code.String()

		err = r.store.Insert(book)
		if err == nil {
			return book, nil
		}
		if !errors.Is(err, ErrDuplicateCode) {
			return nil, fmt.Errorf("insert book: %w", err)
		}
		log.Printf("Shelf code %s taken by concurrent registration, reallocating", book.Code)
	}

	return nil, fmt.Errorf("allocate shelf code for %q: %w", title, ErrDuplicateCode)
}

// resolveGenre maps the raw genre to its canonical taxonomy name, applying
// the fallback policy for unknown genres.
func (r *Registrar) resolveGenre(genre string) (string, error) {
	if code, ok := r.taxonomy.CodeFor(genre); ok {
		name, _ := r.taxonomy.NameFor(code)
		return name, nil
	}
	if r.fallback == FallbackGeneral {
		name, _ := r.taxonomy.NameFor(GeneralGenreCode)
		log.Printf("Unknown genre %q, falling back to %s", genre, name)
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGenre, genre)
}
