package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lari-ember/biblioteca-web/internal/catalog"
	"github.com/lari-ember/biblioteca-web/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Genre{},
		&entities.Book{},
		&entities.APIMetric{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	// Seed the genre taxonomy
	if err := database.seedGenres(); err != nil {
		return nil, fmt.Errorf("failed to seed genres: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedGenres() error {
	for _, entry := range catalog.NewTaxonomy().Entries() {
		var existing entities.Genre
		result := d.DB.Where("code = ?", entry.Code).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			genre := entities.Genre{Code: entry.Code, Name: entry.Name}
			if err := d.DB.Create(&genre).Error; err != nil {
				return fmt.Errorf("failed to create genre %s: %w", entry.Code, err)
			}
		}
	}
	return nil
}

func (d *Database) GetGenreByCode(code string) (*entities.Genre, error) {
	var genre entities.Genre
	err := d.DB.Where("code = ?", code).First(&genre).Error
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

func (d *Database) GetAllGenres() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := d.DB.Order("code ASC").Find(&genres).Error
	return genres, err
}
