package app

import (
	"gorm.io/gorm"

	bookingrepo "github.com/urbanpros/booking-backend/internal/data/repos/booking"
	identityrepo "github.com/urbanpros/booking-backend/internal/data/repos/identity"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

type Repos struct {
	Customer       identityrepo.CustomerRepo
	LegacyCustomer identityrepo.LegacyCustomerRepo
	OTPChallenge   identityrepo.OTPChallengeRepo
	Booking        bookingrepo.BookingRepo
	Address        bookingrepo.AddressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("wiring repos")
	return Repos{
		Customer:       identityrepo.NewCustomerRepo(db, log),
		LegacyCustomer: identityrepo.NewLegacyCustomerRepo(db, log),
		OTPChallenge:   identityrepo.NewOTPChallengeRepo(db, log),
		Booking:        bookingrepo.NewBookingRepo(db, log),
		Address:        bookingrepo.NewAddressRepo(db, log),
	}
}
