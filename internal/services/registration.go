package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/urbanpros/booking-backend/internal/clients/sms"
	identityrepo "github.com/urbanpros/booking-backend/internal/data/repos/identity"
	types "github.com/urbanpros/booking-backend/internal/domain"
	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
	"github.com/urbanpros/booking-backend/internal/normalization"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

// ThrottleStore rate-limits OTP requests per phone. Injected rather than a
// package-level map so the service stays shardable across processes; the
// redis implementation lives in internal/clients/redisx.
type ThrottleStore interface {
	Allow(ctx context.Context, phone string, window time.Duration) (bool, error)
}

// RegistrationService is the one path besides the resolver's miss branch
// allowed to create a Customer: phone ownership proven by OTP, identity
// created or updated, session token issued.
type RegistrationService interface {
	RequestOTP(ctx context.Context, rawPhone string) error
	VerifyOTP(ctx context.Context, rawPhone, code, name string) (string, *types.Customer, error)
}

type RegistrationConfig struct {
	OTPTTL         time.Duration
	ThrottleWindow time.Duration
	JWTSecret      string
	SessionTTL     time.Duration
}

type registrationService struct {
	log          *logger.Logger
	customerRepo identityrepo.CustomerRepo
	otpRepo      identityrepo.OTPChallengeRepo
	throttle     ThrottleStore
	sender       sms.Sender
	cfg          RegistrationConfig
}

func NewRegistrationService(
	log *logger.Logger,
	customerRepo identityrepo.CustomerRepo,
	otpRepo identityrepo.OTPChallengeRepo,
	throttle ThrottleStore,
	sender sms.Sender,
	cfg RegistrationConfig,
) RegistrationService {
	return &registrationService{
		log:          log.With("service", "RegistrationService"),
		customerRepo: customerRepo,
		otpRepo:      otpRepo,
		throttle:     throttle,
		sender:       sender,
		cfg:          cfg,
	}
}

func (rg *registrationService) RequestOTP(ctx context.Context, rawPhone string) error {
	phone := normalization.NormalizePhone(rawPhone)
	if phone == "" {
		return identitydomain.NewError(identitydomain.CodeValidation, "registration.request_otp", "invalid phone number", nil)
	}

	ok, err := rg.throttle.Allow(ctx, phone, rg.cfg.ThrottleWindow)
	if err != nil {
		return identitydomain.WrapError(identitydomain.CodeInternal, "registration.request_otp", err)
	}
	if !ok {
		return identitydomain.NewError(identitydomain.CodeThrottled, "registration.request_otp", "verification code requested too recently", nil)
	}

	code, err := generateOTPCode()
	if err != nil {
		return identitydomain.WrapError(identitydomain.CodeInternal, "registration.request_otp", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return identitydomain.WrapError(identitydomain.CodeInternal, "registration.request_otp", err)
	}

	now := time.Now()
	if err := rg.otpRepo.Upsert(dbctx.New(ctx), &types.OTPChallenge{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(rg.cfg.OTPTTL),
		CreatedAt: now,
	}); err != nil {
		return err
	}

	body := fmt.Sprintf("Your UrbanPros verification code is %s. It expires in %d minutes.",
		code, int(rg.cfg.OTPTTL.Minutes()))
	if err := rg.sender.Send(ctx, phone, body); err != nil {
		return identitydomain.WrapError(identitydomain.CodeInternal, "registration.request_otp", err)
	}

	rg.log.Info("verification code sent", "phone", phone)
	return nil
}

func (rg *registrationService) VerifyOTP(ctx context.Context, rawPhone, code, name string) (string, *types.Customer, error) {
	phone := normalization.NormalizePhone(rawPhone)
	if phone == "" {
		return "", nil, identitydomain.NewError(identitydomain.CodeValidation, "registration.verify_otp", "invalid phone number", nil)
	}
	dbc := dbctx.New(ctx)

	ch, err := rg.otpRepo.FindByPhone(dbc, phone)
	if err != nil {
		if identitydomain.IsCode(err, identitydomain.CodeNotFound) {
			return "", nil, identitydomain.NewError(identitydomain.CodeDenied, "registration.verify_otp", "no outstanding verification code", nil)
		}
		return "", nil, err
	}
	if time.Now().After(ch.ExpiresAt) {
		_ = rg.otpRepo.Delete(dbc, phone)
		return "", nil, identitydomain.NewError(identitydomain.CodeDenied, "registration.verify_otp", "verification code expired", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(ch.CodeHash), []byte(code)) != nil {
		return "", nil, identitydomain.NewError(identitydomain.CodeDenied, "registration.verify_otp", "incorrect verification code", nil)
	}
	if err := rg.otpRepo.Delete(dbc, phone); err != nil {
		rg.log.Warn("failed to clear used verification code", "phone", phone, "error", err)
	}

	customer, err := rg.upsertVerifiedCustomer(ctx, phone, strings.TrimSpace(name))
	if err != nil {
		return "", nil, err
	}

	token, err := rg.signSession(customer)
	if err != nil {
		return "", nil, identitydomain.WrapError(identitydomain.CodeInternal, "registration.verify_otp", err)
	}
	return token, customer, nil
}

// upsertVerifiedCustomer is the direct-registration creation path. It runs
// the same bounded conflict loop as the resolver since a booking-driven
// resolution can race it for the same phone.
func (rg *registrationService) upsertVerifiedCustomer(ctx context.Context, phone, name string) (*types.Customer, error) {
	dbc := dbctx.New(ctx)
	now := time.Now()

	for attempt := 0; attempt <= maxInsertRetries; attempt++ {
		c, err := rg.customerRepo.FindByPhone(dbc, phone)
		if err == nil {
			fields := map[string]any{"verified": true, "last_login_at": now}
			if name != "" {
				fields["display_name"] = name
			}
			if err := rg.customerRepo.UpdateFields(dbc, c.ID, fields); err != nil {
				return nil, err
			}
			c.Verified = true
			c.LastLoginAt = now
			if name != "" {
				c.DisplayName = name
			}
			return c, nil
		}
		if !identitydomain.IsCode(err, identitydomain.CodeNotFound) {
			return nil, err
		}

		created, insErr := rg.customerRepo.Insert(dbc, &types.Customer{
			Phone:       phone,
			DisplayName: name,
			Verified:    true,
			CreatedAt:   now,
			LastLoginAt: now,
		})
		if insErr == nil {
			return created, nil
		}
		if !identitydomain.IsCode(insErr, identitydomain.CodeDuplicatePhone) {
			return nil, insErr
		}
	}

	return nil, identitydomain.NewError(identitydomain.CodeRaceUnresolved, "registration.verify_otp", "duplicate-phone retries exhausted", nil)
}

func (rg *registrationService) signSession(c *types.Customer) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   c.ID.String(),
		"phone": c.Phone,
		"iat":   now.Unix(),
		"exp":   now.Add(rg.cfg.SessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(rg.cfg.JWTSecret))
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
