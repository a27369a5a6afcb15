package server

import (
	"github.com/gin-gonic/gin"

	"github.com/urbanpros/booking-backend/internal/http/handlers"
	"github.com/urbanpros/booking-backend/internal/http/middleware"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log                 *logger.Logger
	AdminToken          string
	SessionMiddleware   *middleware.SessionMiddleware
	HealthHandler       *handlers.HealthHandler
	RegistrationHandler *handlers.RegistrationHandler
	BookingHandler      *handlers.BookingHandler
	AddressHandler      *handlers.AddressHandler
	AdminHandler        *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS())

	router.GET("/healthz", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.SessionMiddleware.Attach())
	{
		api.POST("/otp/request", cfg.RegistrationHandler.RequestOTP)
		api.POST("/otp/verify", cfg.RegistrationHandler.VerifyOTP)

		api.POST("/bookings", cfg.BookingHandler.Create)
		api.GET("/bookings", cfg.BookingHandler.List)
		api.POST("/bookings/:id/cancel", cfg.BookingHandler.Cancel)

		api.POST("/addresses", cfg.AddressHandler.Create)
		api.GET("/addresses", cfg.AddressHandler.List)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.RequireAdmin(cfg.AdminToken))
	{
		admin.POST("/consolidate", cfg.AdminHandler.Consolidate)
	}

	return router
}
