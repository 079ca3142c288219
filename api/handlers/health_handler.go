package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExtractorChecker reports whether the extractor binary can be launched
type ExtractorChecker interface {
	Available() error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	extractor ExtractorChecker
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(extractor ExtractorChecker, version string) *HealthHandler {
	return &HealthHandler{
		extractor: extractor,
		version:   version,
	}
}

// ReadyResponse represents a readiness response
type ReadyResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Extractor struct {
		Available bool   `json:"available"`
		Error     string `json:"error,omitempty"`
	} `json:"extractor"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	response := ReadyResponse{
		Status:  "ready",
		Version: h.version,
	}

	if err := h.extractor.Available(); err != nil {
		response.Status = "not ready"
		response.Extractor.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response.Extractor.Available = true
	c.JSON(http.StatusOK, response)
}
