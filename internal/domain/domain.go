package domain

import (
	"github.com/urbanpros/booking-backend/internal/domain/booking"
	"github.com/urbanpros/booking-backend/internal/domain/identity"
)

type (
	Customer       = identity.Customer
	LegacyCustomer = identity.LegacyCustomer
	OTPChallenge   = identity.OTPChallenge

	Booking = booking.Booking
	Address = booking.Address
)

const (
	BookingStatusPending   = booking.StatusPending
	BookingStatusConfirmed = booking.StatusConfirmed
	BookingStatusCancelled = booking.StatusCancelled
)
