package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/urbanpros/booking-backend/internal/clients/redisx"
	"github.com/urbanpros/booking-backend/internal/clients/sms"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
	"github.com/urbanpros/booking-backend/internal/services"
)

type Services struct {
	Resolver     services.ResolverService
	Authorizer   services.Authorizer
	Registration services.RegistrationService
	Booking      services.BookingService
	Address      services.AddressService
	Repointer    services.Repointer
	Consolidator services.Consolidator
}

func wireServices(log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("wiring services")

	sender, err := wireSender(log, cfg)
	if err != nil {
		return Services{}, err
	}
	throttle, err := wireThrottle(log, cfg)
	if err != nil {
		return Services{}, err
	}

	resolver := services.NewResolverService(log, repos.Customer, repos.LegacyCustomer)
	authorizer := services.NewAuthorizer(log, resolver, repos.Customer)
	repointer := services.NewRepointer(log, repos.Booking, repos.Address)

	return Services{
		Resolver:   resolver,
		Authorizer: authorizer,
		Registration: services.NewRegistrationService(log, repos.Customer, repos.OTPChallenge, throttle, sender,
			services.RegistrationConfig{
				OTPTTL:         cfg.OTPTTL,
				ThrottleWindow: cfg.ThrottleWindow,
				JWTSecret:      cfg.JWTSecret,
				SessionTTL:     cfg.SessionTTL,
			}),
		Booking:      services.NewBookingService(log, resolver, authorizer, repos.Booking),
		Address:      services.NewAddressService(log, resolver, repos.Address),
		Repointer:    repointer,
		Consolidator: services.NewConsolidator(log, repos.Customer, repointer),
	}, nil
}

func wireSender(log *logger.Logger, cfg Config) (sms.Sender, error) {
	switch strings.ToLower(cfg.SMSProvider) {
	case "twilio":
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
			return nil, fmt.Errorf("twilio sms provider selected but credentials are incomplete")
		}
		return sms.NewTwilioSender(log, sms.TwilioConfig{
			AccountSID:  cfg.TwilioAccountSID,
			AuthToken:   cfg.TwilioAuthToken,
			FromNumber:  cfg.TwilioFromNumber,
			CountryCode: cfg.TwilioCountryCode,
		}), nil
	case "", "log":
		return sms.NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.SMSProvider)
	}
}

func wireThrottle(log *logger.Logger, cfg Config) (services.ThrottleStore, error) {
	if cfg.RedisAddr == "" {
		log.Info("no redis configured, using in-memory otp throttle")
		return services.NewMemoryThrottleStore(), nil
	}
	client, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	return redisx.NewThrottleStore(log, client), nil
}
