package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shortlink-be/internal/service"
)

type HealthController struct {
	healthService service.HealthService
}

func NewHealthController(healthService service.HealthService) *HealthController {
	return &HealthController{healthService: healthService}
}

// Hello handles GET /
func (hc *HealthController) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, hc.healthService.Hello())
}

// Health handles GET /health - 503 when the database is unreachable
func (hc *HealthController) Health(c *gin.Context) {
	status := hc.healthService.Health(c.Request.Context())
	code := http.StatusOK
	if !status.OK {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
