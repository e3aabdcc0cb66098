package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"howtoplatform/internal/application/usecase"
	"howtoplatform/internal/middleware"
	"howtoplatform/internal/validation"
)

type LessonHandler struct {
	lessons *usecase.LessonUseCase
}

func NewLessonHandler(lessons *usecase.LessonUseCase) *LessonHandler {
	return &LessonHandler{lessons: lessons}
}

// GET /lessons
func (h *LessonHandler) List(c *gin.Context) {
	lessons, err := h.lessons.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// GET /lessons/:id
func (h *LessonHandler) GetOne(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	lesson, err := h.lessons.Get(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// GET /users/:id/lessons
func (h *LessonHandler) ListByAuthor(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	lessons, err := h.lessons.ListByAuthor(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// POST /lessons
func (h *LessonHandler) Create(c *gin.Context) {
	var req validation.LessonPayload
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.lessons.Create(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// PUT /lessons/:id
func (h *LessonHandler) Replace(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req validation.LessonReplacePayload
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.lessons.Replace(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// PATCH /lessons/:id/publish
func (h *LessonHandler) Publish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req validation.PublishPayload
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.lessons.SetPublished(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// DELETE /lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.lessons.Delete(c.Request.Context(), middleware.Caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
