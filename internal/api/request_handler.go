package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/service"
)

// RequestHandler handles pickup request endpoints
type RequestHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(services *service.Services, log zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		services: services,
		log:      log.With().Str("handler", "request").Logger(),
	}
}

// Create handles POST /v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var input models.PickupRequestInput
	if !bindJSON(c, &input, false) {
		return
	}

	req, err := h.services.Pickup.RequestPickup(c.Request.Context(), sessionUser(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// ListMine handles GET /v1/requests/mine
func (h *RequestHandler) ListMine(c *gin.Context) {
	requests, err := h.services.Pickup.ListByOwner(c.Request.Context(), sessionUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests)})
}

// ListAll handles GET /v1/requests
func (h *RequestHandler) ListAll(c *gin.Context) {
	requests, err := h.services.Pickup.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests)})
}

// Update handles PATCH /v1/requests/:id
func (h *RequestHandler) Update(c *gin.Context) {
	var upd models.PickupRequestUpdate
	if !bindJSON(c, &upd, false) {
		return
	}

	req, err := h.services.Pickup.Update(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Delete handles DELETE /v1/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.services.Pickup.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cancel handles POST /v1/requests/:id/cancel with an optional {"reason": "..."}
func (h *RequestHandler) Cancel(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	if !bindJSON(c, &body, true) {
		return
	}

	req, err := h.services.Pickup.Cancel(c.Request.Context(), c.Param("id"), body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
