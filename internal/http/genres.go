package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lari-ember/biblioteca-web/internal/catalog"
)

// GenresController exposes the genre taxonomy.
type GenresController struct {
	taxonomy *catalog.Taxonomy
}

// NewGenresController creates a new GenresController.
func NewGenresController(taxonomy *catalog.Taxonomy) *GenresController {
	return &GenresController{taxonomy: taxonomy}
}

// GenreResponse is one taxonomy entry.
type GenreResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// List handles GET /api/genres, returning the full taxonomy in code order.
func (gc *GenresController) List(c *gin.Context) {
	entries := gc.taxonomy.Entries()
	genres := make([]GenreResponse, 0, len(entries))
	for _, entry := range entries {
		genres = append(genres, GenreResponse{Code: entry.Code, Name: entry.Name})
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres, "total": len(genres)})
}
