package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/lari-ember/biblioteca-web/internal/entities"
)

// fakeRecordStore keeps inserted books in memory and enforces code
// uniqueness the way the real store's unique index does.
type fakeRecordStore struct {
	books []entities.Book
	// failDuplicates injects a duplicate-code failure on the first N
	// inserts to simulate a concurrent registration winning the race.
	failDuplicates int
}

func (f *fakeRecordStore) FindCodesByPrefix(prefix string) ([]string, error) {
	var out []string
	for _, b := range f.books {
		if strings.HasPrefix(b.Code, prefix) {
			out = append(out, b.Code)
		}
	}
	return out, nil
}

func (f *fakeRecordStore) Insert(book *entities.Book) error {
	if f.failDuplicates > 0 {
		f.failDuplicates--
		// Simulate the racing writer: its row now exists in the store.
		f.books = append(f.books, entities.Book{Code: book.Code})
		return ErrDuplicateCode
	}
	for _, b := range f.books {
		if b.Code == book.Code {
			return ErrDuplicateCode
		}
	}
	f.books = append(f.books, *book)
	return nil
}

func newTestRegistrar(store RecordStore, policy FallbackPolicy) *Registrar {
	return NewRegistrar(NewTaxonomy(), store, policy)
}

func TestRegisterAssignsBareBase(t *testing.T) {
	store := &fakeRecordStore{}
	reg := newTestRegistrar(store, FallbackReject)

	book, err := reg.Register(Registration{
		Title:  "Poirot",
		Author: "Agatha Christie",
		Genre:  "Mystery",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if book.Code != "C003p" {
		t.Errorf("Code = %q, expected C003p", book.Code)
	}
}

func TestRegisterAllocatesSuffixForSameBase(t *testing.T) {
	store := &fakeRecordStore{}
	reg := newTestRegistrar(store, FallbackReject)

	first, err := reg.Register(Registration{Title: "Poirot", Author: "Agatha Christie", Genre: "Mystery"})
	if err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	second, err := reg.Register(Registration{Title: "Poirot Investigates", Author: "Agatha Christie", Genre: "Mystery"})
	if err != nil {
		t.Fatalf("second Register failed: %v", err)
	}

	if first.Code != "C003p" || second.Code != "C003p.001" {
		t.Errorf("codes = %q, %q; expected C003p, C003p.001", first.Code, second.Code)
	}
}

func TestRegisterRetriesOnceOnDuplicate(t *testing.T) {
	store := &fakeRecordStore{failDuplicates: 1}
	reg := newTestRegistrar(store, FallbackReject)

	book, err := reg.Register(Registration{Title: "Poirot", Author: "Agatha Christie", Genre: "Mystery"})
	if err != nil {
		t.Fatalf("Register should succeed after one retry: %v", err)
	}
	if book.Code != "C003p.001" {
		t.Errorf("retried Code = %q, expected C003p.001", book.Code)
	}
}

func TestRegisterGivesUpAfterSecondDuplicate(t *testing.T) {
	store := &fakeRecordStore{failDuplicates: 2}
	reg := newTestRegistrar(store, FallbackReject)

	_, err := reg.Register(Registration{Title: "Poirot", Author: "Agatha Christie", Genre: "Mystery"})
	if !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("Register error = %v, expected ErrDuplicateCode", err)
	}
}

func TestRegisterUnknownGenrePolicies(t *testing.T) {
	t.Run("reject policy surfaces error", func(t *testing.T) {
		reg := newTestRegistrar(&fakeRecordStore{}, FallbackReject)
		_, err := reg.Register(Registration{Title: "Some Book", Author: "Jane Roe", Genre: "Cryptozoology"})
		if !errors.Is(err, ErrUnknownGenre) {
			t.Errorf("Register error = %v, expected ErrUnknownGenre", err)
		}
	})

	t.Run("general policy falls back to 000", func(t *testing.T) {
		reg := newTestRegistrar(&fakeRecordStore{}, FallbackGeneral)
		book, err := reg.Register(Registration{Title: "Some Book", Author: "Jane Roe", Genre: "Cryptozoology"})
		if err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
		if book.Genre != "General" {
			t.Errorf("Genre = %q, expected General", book.Genre)
		}
		if book.Code != "R000s" {
			t.Errorf("Code = %q, expected R000s", book.Code)
		}
	})
}

func TestRegisterNormalizesISBN(t *testing.T) {
	reg := newTestRegistrar(&fakeRecordStore{}, FallbackReject)

	book, err := reg.Register(Registration{
		Title:  "Effective Java",
		Author: "Joshua Bloch",
		Genre:  "Programming",
		ISBN:   "0-13-468599-7",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if book.ISBN != "9780134685991" {
		t.Errorf("ISBN = %q, expected canonical 9780134685991", book.ISBN)
	}
}

func TestRegisterRejectsBadISBN(t *testing.T) {
	reg := newTestRegistrar(&fakeRecordStore{}, FallbackReject)

	_, err := reg.Register(Registration{
		Title:  "Effective Java",
		Author: "Joshua Bloch",
		Genre:  "Programming",
		ISBN:   "9780134685992",
	})
	if !errors.Is(err, ErrInvalidChecksum) {
		t.Errorf("Register error = %v, expected ErrInvalidChecksum", err)
	}
}

func TestRegisterAllowsEmptyISBN(t *testing.T) {
	reg := newTestRegistrar(&fakeRecordStore{}, FallbackReject)

	book, err := reg.Register(Registration{Title: "Untraced", Author: "John Doe", Genre: "Fiction"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if book.ISBN != "" {
		t.Errorf("ISBN = %q, expected empty", book.ISBN)
	}
}
