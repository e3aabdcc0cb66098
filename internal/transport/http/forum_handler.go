package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"howtoplatform/internal/application/usecase"
	"howtoplatform/internal/domain"
	"howtoplatform/internal/middleware"
	"howtoplatform/internal/validation"
)

type ForumHandler struct {
	forum *usecase.ForumUseCase
}

func NewForumHandler(forum *usecase.ForumUseCase) *ForumHandler {
	return &ForumHandler{forum: forum}
}

// GET /topics?lesson_id=
func (h *ForumHandler) ListTopics(c *gin.Context) {
	var lessonID uint
	if raw := c.Query("lesson_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, domain.NewValidationError("lesson_id", "must be a positive integer"))
			return
		}
		lessonID = uint(id)
	}

	topics, err := h.forum.ListTopics(c.Request.Context(), lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

func (h *ForumHandler) GetTopic(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	topic, err := h.forum.GetTopic(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (h *ForumHandler) CreateTopic(c *gin.Context) {
	var req validation.TopicPayload
	if !bindJSON(c, &req) {
		return
	}
	topic, err := h.forum.CreateTopic(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

func (h *ForumHandler) UpdateTopic(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req validation.TopicPatchPayload
	if !bindJSON(c, &req) {
		return
	}
	topic, err := h.forum.UpdateTopic(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (h *ForumHandler) DeleteTopic(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.forum.DeleteTopic(c.Request.Context(), middleware.Caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /topics/:id/replies
func (h *ForumHandler) CreateReply(c *gin.Context) {
	topicID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req validation.ReplyPayload
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.forum.CreateReply(c.Request.Context(), middleware.Caller(c), topicID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (h *ForumHandler) UpdateReply(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req validation.ReplyPayload
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.forum.UpdateReply(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (h *ForumHandler) DeleteReply(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.forum.DeleteReply(c.Request.Context(), middleware.Caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
