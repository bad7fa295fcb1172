package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/sunscout/api/internal/errors"
	"github.com/sunscout/api/internal/middleware"
	"github.com/sunscout/api/internal/normalize"
	"github.com/sunscout/api/internal/services"
)

// LeadHandler handles lead-related HTTP requests.
type LeadHandler struct {
	service services.LeadService
}

// NewLeadHandler creates a new LeadHandler instance.
func NewLeadHandler(service services.LeadService) *LeadHandler {
	return &LeadHandler{
		service: service,
	}
}

// ImportRequest represents the body of the import endpoint: one raw record
// per ingestion source row, in any mix of sources.
type ImportRequest struct {
	Records []normalize.RawRecord `json:"records" binding:"required,min=1"`
}

// Import handles POST /api/v1/leads/import.
// It normalizes the submitted raw records and stores the valid ones.
// Records that fail normalization are reported per index, not fatal.
func (h *LeadHandler) Import(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body: expected a non-empty records array", nil)
		return
	}

	if log != nil {
		log.Info("Processing import request", map[string]interface{}{
			"records": len(req.Records),
		})
	}

	result, err := h.service.ImportRecords(c.Request.Context(), req.Records)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to import records", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Score handles POST /api/v1/leads/score.
// It runs a full scoring pass over every stored record, persists the results
// and returns them together with batch statistics.
func (h *LeadHandler) Score(c *gin.Context) {
	log := middleware.GetLogger(c)

	if log != nil {
		log.Info("Processing scoring run request", nil)
	}

	run, err := h.service.ScoreAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoRecords) {
			apierrors.BadRequest(c, "No property records imported yet", nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to run scoring", err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// PreviewRequest represents the body of the preview endpoint, the same raw
// record rows the import endpoint accepts.
type PreviewRequest struct {
	Records []normalize.RawRecord `json:"records" binding:"required,min=1"`
}

// Preview handles POST /api/v1/leads/score/preview.
// It scores the submitted raw records under the current configuration
// without storing anything, for what-if exploration. Rows that fail
// normalization are reported per index alongside the scored remainder.
func (h *LeadHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body: expected a non-empty records array", nil)
		return
	}

	c.JSON(http.StatusOK, h.service.PreviewScores(c.Request.Context(), req.Records))
}

// List handles GET /api/v1/leads.
// It returns the listing view of all properties, optionally filtered with
// the min_score query parameter.
func (h *LeadHandler) List(c *gin.Context) {
	var minScore *int
	if raw := c.Query("min_score"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.BadRequest(c, "min_score must be an integer", nil)
			return
		}
		minScore = &v
	}

	summaries, err := h.service.ListLeads(c.Request.Context(), minScore)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMinScore) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to list leads", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": summaries,
		"count": len(summaries),
	})
}

// Get handles GET /api/v1/leads/:id.
// It returns one property record with its latest score, if any.
func (h *LeadHandler) Get(c *gin.Context) {
	propertyID := c.Param("id")

	detail, err := h.service.GetLead(c.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			apierrors.NotFound(c, "No lead found for this property")
			return
		}
		apierrors.InternalServerError(c, "Failed to fetch lead", err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
