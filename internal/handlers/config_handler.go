package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/sunscout/api/internal/errors"
	"github.com/sunscout/api/internal/middleware"
	"github.com/sunscout/api/internal/scoring"
	"github.com/sunscout/api/internal/services"
)

// ConfigHandler exposes the scoring configuration over HTTP.
type ConfigHandler struct {
	service services.LeadService
}

// NewConfigHandler creates a new ConfigHandler instance.
func NewConfigHandler(service services.LeadService) *ConfigHandler {
	return &ConfigHandler{
		service: service,
	}
}

// Get handles GET /api/v1/config/scoring.
// It returns the scoring configuration currently in effect.
func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ScoringConfig())
}

// Update handles PUT /api/v1/config/scoring.
// The full configuration must be supplied; partial updates are not supported.
// Invalid configurations are rejected with 422 and the previous configuration
// stays in effect.
func (h *ConfigHandler) Update(c *gin.Context) {
	log := middleware.GetLogger(c)

	var cfg scoring.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if err := h.service.UpdateScoringConfig(cfg); err != nil {
		var cfgErr *scoring.ConfigurationError
		if errors.As(err, &cfgErr) {
			apierrors.UnprocessableEntity(c, cfgErr.Error())
			return
		}
		apierrors.InternalServerError(c, "Failed to update scoring configuration", err)
		return
	}

	if log != nil {
		log.Info("Scoring configuration replaced", nil)
	}

	c.JSON(http.StatusOK, h.service.ScoringConfig())
}
