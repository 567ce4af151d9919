// Package router wires controllers and middleware into a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-be/internal/controllers"
	"shortlink-be/internal/metrics"
	"shortlink-be/internal/middleware"
	"shortlink-be/internal/service"
)

// Dependencies holds what the HTTP layer needs. Metrics may be nil.
type Dependencies struct {
	LinkService   service.LinkService
	HealthService service.HealthService
	BaseURL       string
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

// New builds the gin engine with all routes registered
func New(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	linkController := controllers.NewLinkController(deps.LinkService)
	healthController := controllers.NewHealthController(deps.HealthService)
	qrcodeController := controllers.NewQRCodeController(deps.LinkService, deps.BaseURL)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.AccessLog(logger, deps.Metrics),
		middleware.Recovery(logger),
	)

	router.GET("/", healthController.Hello)
	router.GET("/health", healthController.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	router.POST("/links", linkController.CreateLink)
	router.GET("/stats", linkController.GetStats)
	router.GET("/qrcode/:short_code", qrcodeController.GenerateQRCode)

	router.GET("/:short_code", linkController.Redirect)

	return router
}
