package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/service"
)

var exportContentTypes = map[string]string{
	service.FormatNDJSON: "application/x-ndjson",
	service.FormatJSON:   "application/json",
	service.FormatCSV:    "text/csv",
}

var exportResources = map[string]bool{
	service.ResourceDonations:     true,
	service.ResourceRequests:      true,
	service.ResourceUsers:         true,
	service.ResourceBeneficiaries: true,
}

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/exports?resource=...&format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	resource := c.Query("resource")
	if resource == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource parameter is required (donations, requests, users, beneficiaries)"})
		return
	}
	if !exportResources[resource] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource must be one of: donations, requests, users, beneficiaries"})
		return
	}

	format := c.Query("format")
	if format == "" {
		format = service.FormatNDJSON // Default to NDJSON for streaming
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv"})
		return
	}
	if format == service.FormatCSV && resource == service.ResourceRequests {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV format is not supported for requests export"})
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename="+resource+"."+format)
	c.Status(http.StatusOK)

	count, err := h.services.Export.Export(c.Request.Context(), c.Writer, resource, format)
	if err != nil {
		h.log.Error().Err(err).Str("resource", resource).Int("written", count).Msg("Export failed")
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Disposition")
			c.Writer.Header().Del("Content-Type")
			respondError(c, err)
		}
		// Can't return error JSON after streaming has started
		return
	}
}
