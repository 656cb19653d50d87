package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lari-ember/biblioteca-web/internal/catalog"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabaseSeedsGenres(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	genres, err := db.GetAllGenres()
	require.NoError(t, err)
	assert.Equal(t, len(catalog.NewTaxonomy().Entries()), len(genres))

	// Seeded in code order
	assert.Equal(t, "000", genres[0].Code)
	assert.Equal(t, "General", genres[0].Name)

	mystery, err := db.GetGenreByCode("003")
	require.NoError(t, err)
	assert.Equal(t, "Mystery", mystery.Name)
}

func TestSeedGenresIsIdempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.seedGenres())

	genres, err := db.GetAllGenres()
	require.NoError(t, err)
	assert.Equal(t, len(catalog.NewTaxonomy().Entries()), len(genres))
}
