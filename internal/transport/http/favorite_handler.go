package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"howtoplatform/internal/application/usecase"
	"howtoplatform/internal/middleware"
)

type FavoriteHandler struct {
	favorites *usecase.FavoriteUseCase
}

func NewFavoriteHandler(favorites *usecase.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// GET /me/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	lessons, err := h.favorites.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// POST /lessons/:id/favorite
func (h *FavoriteHandler) Add(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.favorites.Add(c.Request.Context(), middleware.Caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson_id": id, "favorite": true})
}

// DELETE /lessons/:id/favorite
func (h *FavoriteHandler) Remove(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	removed, err := h.favorites.Remove(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson_id": id, "favorite": false, "removed": removed})
}
