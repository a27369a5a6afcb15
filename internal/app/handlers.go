package app

import (
	"github.com/urbanpros/booking-backend/internal/http/handlers"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Registration *handlers.RegistrationHandler
	Booking      *handlers.BookingHandler
	Address      *handlers.AddressHandler
	Admin        *handlers.AdminHandler
}

func wireHandlers(svcs Services) Handlers {
	return Handlers{
		Health:       handlers.NewHealthHandler(),
		Registration: handlers.NewRegistrationHandler(svcs.Registration),
		Booking:      handlers.NewBookingHandler(svcs.Booking),
		Address:      handlers.NewAddressHandler(svcs.Address),
		Admin:        handlers.NewAdminHandler(svcs.Consolidator),
	}
}
