package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/service"
)

// BeneficiaryHandler handles beneficiary endpoints
type BeneficiaryHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewBeneficiaryHandler creates a new BeneficiaryHandler
func NewBeneficiaryHandler(services *service.Services, log zerolog.Logger) *BeneficiaryHandler {
	return &BeneficiaryHandler{
		services: services,
		log:      log.With().Str("handler", "beneficiary").Logger(),
	}
}

// List handles GET /v1/beneficiaries?q=...
func (h *BeneficiaryHandler) List(c *gin.Context) {
	beneficiaries, err := h.services.Beneficiary.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"beneficiaries": beneficiaries, "count": len(beneficiaries)})
}

// Add handles POST /v1/beneficiaries
func (h *BeneficiaryHandler) Add(c *gin.Context) {
	var input models.BeneficiaryInput
	if !bindJSON(c, &input, false) {
		return
	}

	b, err := h.services.Beneficiary.Add(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Update handles PATCH /v1/beneficiaries/:id
func (h *BeneficiaryHandler) Update(c *gin.Context) {
	var upd models.BeneficiaryUpdate
	if !bindJSON(c, &upd, false) {
		return
	}

	b, err := h.services.Beneficiary.Update(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /v1/beneficiaries/:id
func (h *BeneficiaryHandler) Delete(c *gin.Context) {
	if err := h.services.Beneficiary.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
