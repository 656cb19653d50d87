package entities

import "time"

// BookFormat describes the physical form of a catalogued book.
type BookFormat string

const (
	FormatPhysical BookFormat = "physical"
	FormatEbook    BookFormat = "ebook"
	FormatPDF      BookFormat = "pdf"
)

// Book is a catalogued record in the personal library.
// Code is the shelf code, the primary human identifier; it is assigned once
// at registration and never changes.
type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Code            string     `gorm:"uniqueIndex;size:13;not null" json:"code"`
	ISBN            string     `gorm:"size:13;index" json:"isbn,omitempty"`
	Title           string     `gorm:"size:200;index;not null" json:"title"`
	Author          string     `gorm:"size:100;index;not null" json:"author"`
	Publisher       string     `gorm:"size:100" json:"publisher,omitempty"`
	PublicationYear int        `json:"publication_year,omitempty"`
	Pages           int        `json:"pages,omitempty"`
	Genre           string     `gorm:"size:50;not null" json:"genre"`
	CoverURL        string     `gorm:"size:300" json:"cover_url,omitempty"`
	Format          BookFormat `gorm:"size:20" json:"format,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// Genre is a row of the shelf-code taxonomy, seeded from the built-in table
// at startup. Codes are zero-padded 3-digit decimals.
type Genre struct {
	Code string `gorm:"primaryKey;size:3" json:"code"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

func (Genre) TableName() string {
	return "genres"
}

// APIMetric records one search/lookup call for observability. Rows are
// pruned by the metrics cleanup task after the configured retention.
type APIMetric struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Endpoint       string    `gorm:"size:50;index" json:"endpoint"`
	Query          string    `gorm:"size:200" json:"query"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	ResultsCount   int       `json:"results_count"`
	LocalCount     int       `json:"local_count"`
	APICount       int       `json:"api_count"`
	CacheHit       bool      `json:"cache_hit"`
	ErrorOccurred  bool      `json:"error_occurred"`
	ErrorMessage   string    `gorm:"size:500" json:"error_message,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (APIMetric) TableName() string {
	return "api_metrics"
}
