package cli

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lari-ember/biblioteca-web/internal/catalog"
	"github.com/lari-ember/biblioteca-web/internal/config"
	"github.com/lari-ember/biblioteca-web/internal/database"
	catalogdb "github.com/lari-ember/biblioteca-web/internal/database/catalog"
	"github.com/lari-ember/biblioteca-web/internal/entities"
)

// ImportCSVCommand bulk-registers books from a CSV file. Each row gets a
// shelf code through the regular registration workflow.
type ImportCSVCommand struct {
	FilePath      string
	DatabasePath  string
	GenreFallback string
	DryRun        bool
	Verbose       bool
}

func NewImportCSVCommand() *ImportCSVCommand {
	return &ImportCSVCommand{}
}

func (cmd *ImportCSVCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-csv", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.GenreFallback, "genre-fallback", "reject", "Unknown genre handling: 'reject' or 'general'")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate rows without writing to the database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Log every registered book")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-csv -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Bulk-register books from a CSV file.\n\n")
		fmt.Fprintf(os.Stderr, "Expected header (order-insensitive, extra columns ignored):\n")
		fmt.Fprintf(os.Stderr, "  title,author,genre,isbn,publisher,publication_year,pages,format\n\n")
		fmt.Fprintf(os.Stderr, "Only title, author and genre are required per row.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -file books.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-csv -file books.csv -genre-fallback general -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	if cmd.GenreFallback != "reject" && cmd.GenreFallback != "general" {
		return fmt.Errorf("invalid -genre-fallback %q (want 'reject' or 'general')", cmd.GenreFallback)
	}

	return nil
}

func (cmd *ImportCSVCommand) Run() error {
	fmt.Println("CSV Import")
	fmt.Println("==========")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := readRows(file)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No rows to import.")
		return nil
	}
	fmt.Printf("File: %s (%d rows)\n\n", cmd.FilePath, len(rows))

	fallback := catalog.FallbackReject
	if cmd.GenreFallback == "general" {
		fallback = catalog.FallbackGeneral
	}

	var registrar *catalog.Registrar
	if cmd.DryRun {
		registrar = catalog.NewRegistrar(catalog.NewTaxonomy(), discardStore{}, fallback)
	} else {
		db, err := database.NewDatabase(cmd.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		registrar = catalog.NewRegistrar(catalog.NewTaxonomy(), catalogdb.NewRepository(db.DB), fallback)
	}

	imported, failed := 0, 0
	for i, row := range rows {
		book, err := registrar.Register(row)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Row %d (%s): %v\n", i+2, row.Title, err)
			continue
		}
		imported++
		if cmd.Verbose {
			fmt.Printf("  %-12s %s — %s\n", book.Code, book.Title, book.Author)
		}
	}

	fmt.Printf("\nImported: %d  Failed: %d\n", imported, failed)
	if failed > 0 {
		return fmt.Errorf("%d rows failed to import", failed)
	}
	return nil
}

// readRows parses the CSV into registrations, mapping columns by header name.
func readRows(r io.Reader) ([]catalog.Registration, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "author", "genre"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("CSV header missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []catalog.Registration
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		year, _ := strconv.Atoi(field(record, "publication_year"))
		pages, _ := strconv.Atoi(field(record, "pages"))

		format := entities.BookFormat(field(record, "format"))
		if format == "" {
			format = entities.FormatPhysical
		}

		rows = append(rows, catalog.Registration{
			Title:     field(record, "title"),
			Author:    field(record, "author"),
			Genre:     field(record, "genre"),
			ISBN:      field(record, "isbn"),
			Publisher: field(record, "publisher"),
			Year:      year,
			Pages:     pages,
			Format:    format,
		})
	}
	return rows, nil
}

// discardStore validates registrations without persisting anything.
type discardStore struct{}

func (discardStore) FindCodesByPrefix(string) ([]string, error) { return nil, nil }
func (discardStore) Insert(*entities.Book) error                { return nil }
