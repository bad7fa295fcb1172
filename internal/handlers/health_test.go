package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthHandler_Health(t *testing.T) {
	handler := &HealthHandler{
		startTime: time.Now(),
		env:       "test",
	}

	router := gin.New()
	router.GET("/health", handler.Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, serviceName, body.Service)
}

func TestHealthHandler_Info(t *testing.T) {
	handler := &HealthHandler{
		startTime: time.Now().Add(-90 * time.Minute),
		env:       "test",
	}

	router := gin.New()
	router.GET("/api/v1/info", handler.Info)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, serviceName, body.Service)
	assert.Equal(t, APIVersion, body.Version)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, "1h 30m 0s", body.Uptime)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"seconds only", 42 * time.Second, "0h 0m 42s"},
		{"hours and minutes", 3*time.Hour + 7*time.Minute, "3h 7m 0s"},
		{"multiple days", 49*time.Hour + 30*time.Minute, "2d 1h 30m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatUptime(tt.duration))
		})
	}
}
