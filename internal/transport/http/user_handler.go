package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"howtoplatform/internal/application/usecase"
	"howtoplatform/internal/middleware"
	"howtoplatform/internal/validation"
)

type UserHandler struct {
	accounts *usecase.AccountUseCase
}

func NewUserHandler(accounts *usecase.AccountUseCase) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// GET /roles
func (h *UserHandler) Roles(c *gin.Context) {
	roles, err := h.accounts.Roles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /users/:id
func (h *UserHandler) GetOne(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.accounts.Get(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req validation.AccountPayload
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.accounts.Update(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req validation.RolePayload
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.accounts.ChangeRole(c.Request.Context(), middleware.Caller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), middleware.Caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
