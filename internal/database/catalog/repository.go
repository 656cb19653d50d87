// Package catalog provides database operations for shelf-coded book records.
//
// This package implements the stores consumed by the code generator, the
// registrar, the search aggregator and the metadata enricher:
//
//	var _ catalog.RecordStore = (*Repository)(nil)
//	var _ search.LocalStore = (*Repository)(nil)
//	var _ metadata.BookUpdater = (*Repository)(nil)
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lari-ember/biblioteca-web/internal/catalog"
	"github.com/lari-ember/biblioteca-web/internal/entities"
	"github.com/lari-ember/biblioteca-web/internal/metadata"
)

// Repository handles all book catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindCodesByPrefix returns every shelf code starting with the given base,
// newest suffixes first.
func (r *Repository) FindCodesByPrefix(prefix string) ([]string, error) {
	var codes []string
	err := r.db.Model(&entities.Book{}).
		Where("code LIKE ?", prefix+"%").
		Order("code DESC").
		Pluck("code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// Insert persists a new record. A shelf-code collision surfaces as
// catalog.ErrDuplicateCode so the generator can retry with a fresh suffix.
func (r *Repository) Insert(book *entities.Book) error {
	err := r.db.Create(book).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") {
		return fmt.Errorf("code %s: %w", book.Code, catalog.ErrDuplicateCode)
	}
	return err
}

// FindLocalMatches searches the local catalog: title prefix, author
// substring, and, for purely numeric queries, ISBN substring. Ordering is
// fixed (title ASC) so paginated reads are stable.
func (r *Repository) FindLocalMatches(query string, limit int) ([]entities.Book, error) {
	q := strings.TrimSpace(query)
	if q == "" || limit <= 0 {
		return nil, nil
	}

	tx := r.db.Where("LOWER(title) LIKE LOWER(?)", q+"%").
		Or("LOWER(author) LIKE LOWER(?)", "%"+q+"%")

	if digits, ok := numericQuery(q); ok {
		tx = tx.Or("isbn LIKE ?", "%"+digits+"%")
	}

	var books []entities.Book
	err := r.db.Where(tx).Order("title ASC").Limit(limit).Find(&books).Error
	return books, err
}

// GetByCode retrieves a record by its shelf code.
func (r *Repository) GetByCode(code string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("code = ?", code).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookByID retrieves a record by primary key.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns records ordered by shelf code with limit/offset pagination.
func (r *Repository) List(limit, offset int) ([]entities.Book, error) {
	var books []entities.Book
	tx := r.db.Order("code ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	err := tx.Find(&books).Error
	return books, err
}

// Count returns the total number of catalog records.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// UpdateBookMetadata applies enrichment updates. Only non-nil fields are
// written, so concurrent user edits to other columns survive.
func (r *Repository) UpdateBookMetadata(id uint, fields metadata.BookUpdateFields) error {
	updates := make(map[string]interface{})
	if fields.ISBN != nil {
		updates["isbn"] = *fields.ISBN
	}
	if fields.CoverURL != nil {
		updates["cover_url"] = *fields.CoverURL
	}
	if fields.Publisher != nil {
		updates["publisher"] = *fields.Publisher
	}
	if fields.PublicationYear != nil {
		updates["publication_year"] = *fields.PublicationYear
	}
	if fields.Pages != nil {
		updates["pages"] = *fields.Pages
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error
}

// ListBooksMissingMetadata returns records with at least one enrichable
// field empty.
func (r *Repository) ListBooksMissingMetadata() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.
		Where("cover_url = '' OR publisher = '' OR publication_year = 0 OR pages = 0 OR isbn = ''").
		Order("id ASC").
		Find(&books).Error
	return books, err
}

// numericQuery reports whether the query is purely numeric once hyphens and
// spaces are stripped, returning the bare digits for ISBN matching. A query
// that merely embeds digits in text must not match on ISBN. Fewer than four
// digits is too ambiguous to match on.
func numericQuery(s string) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ':
		default:
			return "", false
		}
	}
	if b.Len() < 4 {
		return "", false
	}
	return b.String(), true
}
