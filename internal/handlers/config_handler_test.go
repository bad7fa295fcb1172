package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunscout/api/internal/scoring"
)

func setupConfigRouter(service *MockLeadService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewConfigHandler(service)

	group := router.Group("/api/v1/config/scoring")
	group.GET("", handler.Get)
	group.PUT("", handler.Update)

	return router
}

func TestConfigHandler_Get(t *testing.T) {
	mockService := new(MockLeadService)
	router := setupConfigRouter(mockService)

	mockService.On("ScoringConfig").Return(scoring.DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config/scoring", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got scoring.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, scoring.DefaultConfig(), got)
}

func TestConfigHandler_Update(t *testing.T) {
	mockService := new(MockLeadService)
	router := setupConfigRouter(mockService)

	cfg := scoring.DefaultConfig()
	cfg.Weights = scoring.Weights{
		BillSize:        0.40,
		RoofSuitability: 0.20,
		PropertyValue:   0.15,
		NetMetering:     0.15,
		Homeowner:       0.10,
	}

	mockService.On("UpdateScoringConfig", cfg).Return(nil)
	mockService.On("ScoringConfig").Return(cfg)

	body, err := json.Marshal(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/config/scoring", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got scoring.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 0.40, got.Weights.BillSize)
	mockService.AssertExpectations(t)
}

func TestConfigHandler_Update_Invalid(t *testing.T) {
	mockService := new(MockLeadService)
	router := setupConfigRouter(mockService)

	cfg := scoring.DefaultConfig()
	cfg.Weights.BillSize = 0.90

	mockService.On("UpdateScoringConfig", cfg).
		Return(&scoring.ConfigurationError{Field: "weights", Reason: "must sum to 1.0, got 1.6"})

	body, err := json.Marshal(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/config/scoring", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_SCORING_CONFIG")
	mockService.AssertExpectations(t)
}

func TestConfigHandler_Update_MalformedBody(t *testing.T) {
	mockService := new(MockLeadService)
	router := setupConfigRouter(mockService)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/config/scoring", bytes.NewBufferString("{weights"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "UpdateScoringConfig")
}
