// Package handler contains HTTP handlers for the API.
// Handlers are responsible for:
// - Parsing and validating HTTP requests
// - Calling use case methods
// - Converting results to HTTP responses
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fastai/src/core/usecase"
)

// HealthHandler handles the probe endpoints.
type HealthHandler struct {
	healthService *usecase.HealthService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(healthService *usecase.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// Livez reports that the process is up.
// GET /livez
func (h *HealthHandler) Livez(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthService.Live())
}

// Readyz reports whether the database is reachable. It always answers 200;
// the body says "ready" or "not ready".
// GET /readyz
func (h *HealthHandler) Readyz(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthService.Ready(c.Request.Context()))
}
