package controllers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storechecker/storechecker/internal/usecases/ports/repositories"
)

// HealthController reports whether the registry document can be read
type HealthController struct {
	registryRepo repositories.RegistryRepository
}

// NewHealthController creates a new HealthController instance
func NewHealthController(registryRepo repositories.RegistryRepository) *HealthController {
	return &HealthController{registryRepo: registryRepo}
}

// GetName returns the name of this controller for logging
func (c *HealthController) GetName() string {
	return "HealthController"
}

// HealthCheck handles GET /health requests
func (c *HealthController) HealthCheck(ctx echo.Context) error {
	registry, err := c.registryRepo.Load(ctx.Request().Context())
	if err != nil {
		log.Printf("[HTTP] Health check failed: %v", err)
		return ctx.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
		})
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"products": len(registry),
	})
}
