package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/service"
)

// DonationHandler handles donation endpoints
type DonationHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewDonationHandler creates a new DonationHandler
func NewDonationHandler(services *service.Services, log zerolog.Logger) *DonationHandler {
	return &DonationHandler{
		services: services,
		log:      log.With().Str("handler", "donation").Logger(),
	}
}

// Post handles POST /v1/donations
func (h *DonationHandler) Post(c *gin.Context) {
	var input models.DonationInput
	if !bindJSON(c, &input, false) {
		return
	}

	donation, err := h.services.Donation.Post(c.Request.Context(), sessionUser(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, donation)
}

// ListMine handles GET /v1/donations/mine
func (h *DonationHandler) ListMine(c *gin.Context) {
	donations, err := h.services.Donation.ListByOwner(c.Request.Context(), sessionUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations, "count": len(donations)})
}

// ListAll handles GET /v1/donations?status=...&food_type=...
func (h *DonationHandler) ListAll(c *gin.Context) {
	filter := models.DonationFilter{
		Status:   models.DonationStatus(c.Query("status")),
		FoodType: c.Query("food_type"),
	}

	donations, err := h.services.Donation.ListAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations, "count": len(donations)})
}

// Get handles GET /v1/donations/:id
func (h *DonationHandler) Get(c *gin.Context) {
	donation, err := h.services.Donation.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donation)
}

// Update handles PATCH /v1/donations/:id
func (h *DonationHandler) Update(c *gin.Context) {
	var upd models.DonationUpdate
	if !bindJSON(c, &upd, false) {
		return
	}

	donation, err := h.services.Donation.Update(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donation)
}

// Delete handles DELETE /v1/donations/:id
func (h *DonationHandler) Delete(c *gin.Context) {
	if err := h.services.Donation.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
