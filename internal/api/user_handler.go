package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/service"
)

// UserHandler handles user administration endpoints
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.services.User.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// Add handles POST /v1/users
func (h *UserHandler) Add(c *gin.Context) {
	var input models.UserInput
	if !bindJSON(c, &input, false) {
		return
	}

	user, err := h.services.User.Add(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update handles PATCH /v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var upd models.UserUpdate
	if !bindJSON(c, &upd, false) {
		return
	}

	user, err := h.services.User.Update(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.services.User.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Approve handles POST /v1/users/:id/approve
func (h *UserHandler) Approve(c *gin.Context) {
	h.changeStatus(c, h.services.User.Approve)
}

// Suspend handles POST /v1/users/:id/suspend
func (h *UserHandler) Suspend(c *gin.Context) {
	h.changeStatus(c, h.services.User.Suspend)
}

// Reject handles POST /v1/users/:id/reject
func (h *UserHandler) Reject(c *gin.Context) {
	h.changeStatus(c, h.services.User.Reject)
}

func (h *UserHandler) changeStatus(c *gin.Context, op func(ctx context.Context, id string) (*models.User, error)) {
	user, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
