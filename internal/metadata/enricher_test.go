package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/lari-ember/biblioteca-web/internal/entities"
)

type fakeProvider struct {
	isbnResult   *SearchResult
	isbnErr      error
	searchResult []SearchResult

	isbnCalls   int
	searchCalls int
}

func (f *fakeProvider) FetchByISBN(ctx context.Context, isbn string) (*SearchResult, error) {
	f.isbnCalls++
	if f.isbnErr != nil {
		return nil, f.isbnErr
	}
	return f.isbnResult, nil
}

func (f *fakeProvider) Search(ctx context.Context, query string, limit int) ([]SearchResult, bool) {
	f.searchCalls++
	return f.searchResult, false
}

type fakeUpdater struct {
	books   map[uint]*entities.Book
	missing []entities.Book
	updates map[uint]BookUpdateFields
}

func newFakeUpdater(books ...*entities.Book) *fakeUpdater {
	f := &fakeUpdater{
		books:   make(map[uint]*entities.Book),
		updates: make(map[uint]BookUpdateFields),
	}
	for _, b := range books {
		f.books[b.ID] = b
	}
	return f
}

func (f *fakeUpdater) GetBookByID(id uint) (*entities.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, errors.New("book not found")
	}
	clone := *book
	return &clone, nil
}

func (f *fakeUpdater) UpdateBookMetadata(id uint, fields BookUpdateFields) error {
	book, ok := f.books[id]
	if !ok {
		return errors.New("book not found")
	}
	f.updates[id] = fields
	if fields.ISBN != nil {
		book.ISBN = *fields.ISBN
	}
	if fields.CoverURL != nil {
		book.CoverURL = *fields.CoverURL
	}
	if fields.Publisher != nil {
		book.Publisher = *fields.Publisher
	}
	if fields.PublicationYear != nil {
		book.PublicationYear = *fields.PublicationYear
	}
	if fields.Pages != nil {
		book.Pages = *fields.Pages
	}
	return nil
}

func (f *fakeUpdater) ListBooksMissingMetadata() ([]entities.Book, error) {
	return f.missing, nil
}

func TestEnrichBookPrefersISBNLookup(t *testing.T) {
	provider := &fakeProvider{
		isbnResult: &SearchResult{
			Title:     "Effective Java",
			ISBN:      "9780134685991",
			CoverURL:  "https://covers.example/1-M.jpg",
			Publisher: "Addison-Wesley",
			Year:      2018,
			Pages:     412,
		},
	}
	db := newFakeUpdater(&entities.Book{ID: 1, Title: "Effective Java", Author: "Joshua Bloch", ISBN: "9780134685991"})

	result, err := NewEnricher(provider, db).EnrichBook(context.Background(), 1)
	if err != nil {
		t.Fatalf("EnrichBook returned error: %v", err)
	}
	if result.SearchMethod != "isbn" {
		t.Errorf("SearchMethod = %q, expected isbn", result.SearchMethod)
	}
	if provider.searchCalls != 0 {
		t.Error("title search should not run when the ISBN lookup succeeds")
	}
	if result.Book.Publisher != "Addison-Wesley" || result.Book.Pages != 412 {
		t.Errorf("metadata not backfilled: %+v", result.Book)
	}
}

func TestEnrichBookFallsBackToTitleSearch(t *testing.T) {
	provider := &fakeProvider{
		isbnErr: errors.New("not found"),
		searchResult: []SearchResult{
			{Title: "Dune", CoverURL: "https://covers.example/2-M.jpg", Publisher: "Chilton", Year: 1965},
		},
	}
	db := newFakeUpdater(&entities.Book{ID: 2, Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593"})

	result, err := NewEnricher(provider, db).EnrichBook(context.Background(), 2)
	if err != nil {
		t.Fatalf("EnrichBook returned error: %v", err)
	}
	if result.SearchMethod != "title" {
		t.Errorf("SearchMethod = %q, expected title", result.SearchMethod)
	}
	if provider.isbnCalls != 1 || provider.searchCalls != 1 {
		t.Errorf("calls: isbn=%d search=%d", provider.isbnCalls, provider.searchCalls)
	}
	if result.Book.CoverURL != "https://covers.example/2-M.jpg" {
		t.Errorf("CoverURL = %q", result.Book.CoverURL)
	}
}

func TestEnrichBookNeverOverwrites(t *testing.T) {
	provider := &fakeProvider{
		isbnResult: &SearchResult{
			CoverURL:  "https://covers.example/new.jpg",
			Publisher: "New Publisher",
			Year:      2000,
			Pages:     100,
		},
	}
	db := newFakeUpdater(&entities.Book{
		ID:              3,
		Title:           "Kept",
		ISBN:            "9780134685991",
		CoverURL:        "https://covers.example/original.jpg",
		Publisher:       "Original Publisher",
		PublicationYear: 1990,
		Pages:           321,
	})

	result, err := NewEnricher(provider, db).EnrichBook(context.Background(), 3)
	if err != nil {
		t.Fatalf("EnrichBook returned error: %v", err)
	}
	if len(result.FieldsUpdated) != 0 {
		t.Errorf("FieldsUpdated = %v, expected none", result.FieldsUpdated)
	}
	if _, ok := db.updates[3]; ok {
		t.Error("update issued despite no missing fields")
	}
}

func TestEnrichBookSkipsUnknownPublisher(t *testing.T) {
	provider := &fakeProvider{
		isbnResult: &SearchResult{Publisher: "Unknown", Year: 2010},
	}
	db := newFakeUpdater(&entities.Book{ID: 4, Title: "Sparse", ISBN: "9780134685991"})

	result, err := NewEnricher(provider, db).EnrichBook(context.Background(), 4)
	if err != nil {
		t.Fatalf("EnrichBook returned error: %v", err)
	}
	for _, f := range result.FieldsUpdated {
		if f == "publisher" {
			t.Error("placeholder publisher should not be written")
		}
	}
	if db.books[4].PublicationYear != 2010 {
		t.Error("year should still be backfilled")
	}
}

func TestEnrichBookNoResults(t *testing.T) {
	provider := &fakeProvider{isbnErr: errors.New("not found")}
	db := newFakeUpdater(&entities.Book{ID: 5, Title: "Obscure", Author: "Nobody"})

	if _, err := NewEnricher(provider, db).EnrichBook(context.Background(), 5); err == nil {
		t.Error("expected error when no metadata is found")
	}
}

func TestEnrichAllMissingCountsOutcomes(t *testing.T) {
	provider := &fakeProvider{
		searchResult: []SearchResult{{Title: "Found", CoverURL: "https://covers.example/3-M.jpg"}},
	}
	enrichable := entities.Book{ID: 10, Title: "Needs Cover", Author: "A"}
	complete := entities.Book{ID: 11, Title: "Complete", Author: "B", CoverURL: "x", Publisher: "y", PublicationYear: 1, Pages: 1, ISBN: "z"}
	broken := entities.Book{ID: 99, Title: "Missing Row"}

	db := newFakeUpdater(&enrichable, &complete)
	db.books[11].ISBN = "" // force the title-search path for both stored books
	db.books[10].ISBN = ""
	db.missing = []entities.Book{enrichable, complete, broken}

	result, err := NewEnricher(provider, db).EnrichAllMissing(context.Background())
	if err != nil {
		t.Fatalf("EnrichAllMissing returned error: %v", err)
	}
	if result.TotalBooks != 3 || result.Enriched != 1 || result.Skipped != 1 || result.Failed != 1 {
		t.Errorf("unexpected tallies: %+v", result)
	}
}

func TestEnrichAllMissingHonorsCancellation(t *testing.T) {
	db := newFakeUpdater()
	db.missing = []entities.Book{{ID: 1}, {ID: 2}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnricher(&fakeProvider{}, db).EnrichAllMissing(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, expected context.Canceled", err)
	}
}
