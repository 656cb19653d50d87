package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lari-ember/biblioteca-web/internal/catalog"
	"github.com/lari-ember/biblioteca-web/internal/entities"
	"github.com/lari-ember/biblioteca-web/internal/tasks"
)

// BooksController handles catalog record endpoints.
type BooksController struct {
	registrar  *catalog.Registrar
	store      BookStore
	taskClient *tasks.Client
}

// NewBooksController creates a new BooksController. taskClient may be nil,
// which disables the enrichment endpoints.
func NewBooksController(registrar *catalog.Registrar, store BookStore, taskClient *tasks.Client) *BooksController {
	return &BooksController{
		registrar:  registrar,
		store:      store,
		taskClient: taskClient,
	}
}

// CreateBookRequest is the request body for registering a book.
type CreateBookRequest struct {
	Title     string `json:"title" binding:"required"`
	Author    string `json:"author" binding:"required"`
	Genre     string `json:"genre" binding:"required"`
	Publisher string `json:"publisher,omitempty"`
	Year      int    `json:"publication_year,omitempty"`
	Pages     int    `json:"pages,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
	CoverURL  string `json:"cover_url,omitempty"`
	Format    string `json:"format,omitempty"`
}

// Create handles POST /api/books. On success it responds 201 with the stored
// record, shelf code included.
func (bc *BooksController) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, author and genre are required"})
		return
	}

	format := entities.BookFormat(req.Format)
	if req.Format == "" {
		format = entities.FormatPhysical
	}

	book, err := bc.registrar.Register(catalog.Registration{
		Title:     req.Title,
		Author:    req.Author,
		Genre:     req.Genre,
		Publisher: req.Publisher,
		Year:      req.Year,
		Pages:     req.Pages,
		ISBN:      req.ISBN,
		CoverURL:  req.CoverURL,
		Format:    format,
	})
	if err != nil {
		status := registrationErrorStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, book)
}

// registrationErrorStatus maps catalog error kinds onto HTTP statuses.
func registrationErrorStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, catalog.ErrUnknownGenre),
		errors.Is(err, catalog.ErrUnsupportedFormat),
		errors.Is(err, catalog.ErrInvalidChecksum):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrDuplicateCode):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// List handles GET /api/books?limit=...&offset=...
func (bc *BooksController) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	books, err := bc.store.List(limit, offset)
	if err != nil {
		log.Printf("Failed to list books: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list books"})
		return
	}
	total, err := bc.store.Count()
	if err != nil {
		log.Printf("Failed to count books: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list books"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books":  books,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByCode handles GET /api/books/:code
func (bc *BooksController) GetByCode(c *gin.Context) {
	code := c.Param("code")

	book, err := bc.store.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		log.Printf("Failed to load book %s: %v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load book"})
		return
	}

	c.JSON(http.StatusOK, book)
}

// Enrich handles POST /api/books/:code/enrich by queueing a background
// enrichment task for the record.
func (bc *BooksController) Enrich(c *gin.Context) {
	if bc.taskClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "background tasks disabled"})
		return
	}

	book, err := bc.store.GetByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load book"})
		return
	}

	if _, err := bc.taskClient.Add(tasks.EnrichBookTask{BookID: book.ID}).Save(); err != nil {
		log.Printf("Failed to queue enrichment for book %d: %v", book.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue enrichment"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "code": book.Code})
}

// EnrichAll handles POST /api/books/enrich-all by queueing a catalog-wide
// enrichment sweep.
func (bc *BooksController) EnrichAll(c *gin.Context) {
	if bc.taskClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "background tasks disabled"})
		return
	}

	if _, err := bc.taskClient.Add(tasks.EnrichAllBooksTask{}).Save(); err != nil {
		log.Printf("Failed to queue catalog enrichment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue enrichment"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
