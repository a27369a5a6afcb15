package app

import (
	"github.com/gin-gonic/gin"

	"github.com/urbanpros/booking-backend/internal/http/middleware"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
	"github.com/urbanpros/booking-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:                 log,
		AdminToken:          cfg.AdminToken,
		SessionMiddleware:   middleware.NewSessionMiddleware(log, cfg.JWTSecret),
		HealthHandler:       h.Health,
		RegistrationHandler: h.Registration,
		BookingHandler:      h.Booking,
		AddressHandler:      h.Address,
		AdminHandler:        h.Admin,
	})
}
