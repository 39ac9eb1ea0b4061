package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 5 * time.Second

// VersionChecker reports the version of the external extractor
type VersionChecker interface {
	Version(ctx context.Context) (string, error)
}

// HealthHandler handles health check requests
type HealthHandler struct {
	extractor VersionChecker
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(extractor VersionChecker, version string) *HealthHandler {
	return &HealthHandler{
		extractor: extractor,
		version:   version,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	extractorVersion, err := h.extractor.Version(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"extractor": extractorVersion,
	})
}
