package handlers

import (
	"cardputer_radio/internal/logger"
	"cardputer_radio/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: logger.OrNop(log).Named("http")}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Status stream over WebSocket, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.optionalOperator, h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requireOperator)
	{
		api.GET("/me", h.whoAmI)
		h.registerRadioRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerRadioRoutes(api *gin.RouterGroup) {
	radio := api.Group("/radio")
	{
		radio.GET("/status", h.getStatus)
		radio.POST("/stop-all", h.stopAll)

		// Body: {"ssid":"Free WiFi"}
		radio.POST("/fake-ap/start", h.startFakeAP)
		radio.POST("/fake-ap/stop", h.stopFakeAP)
		radio.POST("/portal/start", h.startPortal)
		radio.POST("/portal/stop", h.stopPortal)

		radio.POST("/transfer/start", h.startTransfer)
		radio.POST("/transfer/stop", h.stopTransfer)
		radio.GET("/transfer/stats", h.transferStats)

		// Station link the transfer server rides on
		radio.POST("/station/join", h.joinStation)
		radio.POST("/station/leave", h.leaveStation)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
		logs.GET("/", h.getLogs)
	}
}
