package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	bookingrepo "github.com/urbanpros/booking-backend/internal/data/repos/booking"
	types "github.com/urbanpros/booking-backend/internal/domain"
	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

type BookingInput struct {
	Service     string
	ScheduledAt time.Time
	Notes       string
}

// BookingService is the main consumer of the resolver: every create and
// list goes through identifier resolution first, so callers can hand in a
// phone, a prefixed phone, or a customer id interchangeably.
type BookingService interface {
	Create(ctx context.Context, rawToken string, seed ResolveSeed, in BookingInput) (*types.Booking, error)
	ListForToken(ctx context.Context, rawToken string) ([]*types.Booking, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, requesterToken string) (*types.Booking, error)
}

type bookingService struct {
	log         *logger.Logger
	resolver    ResolverService
	authorizer  Authorizer
	bookingRepo bookingrepo.BookingRepo
}

func NewBookingService(
	log *logger.Logger,
	resolver ResolverService,
	authorizer Authorizer,
	bookingRepo bookingrepo.BookingRepo,
) BookingService {
	return &bookingService{
		log:         log.With("service", "BookingService"),
		resolver:    resolver,
		authorizer:  authorizer,
		bookingRepo: bookingRepo,
	}
}

func (bs *bookingService) Create(ctx context.Context, rawToken string, seed ResolveSeed, in BookingInput) (*types.Booking, error) {
	if strings.TrimSpace(in.Service) == "" {
		return nil, identitydomain.NewError(identitydomain.CodeValidation, "booking.create", "service is required", nil)
	}
	customer, err := bs.resolver.Resolve(ctx, rawToken, seed)
	if err != nil {
		return nil, err
	}
	b, err := bs.bookingRepo.Create(dbctx.New(ctx), &types.Booking{
		CustomerID:  customer.ID,
		Service:     strings.TrimSpace(in.Service),
		ScheduledAt: in.ScheduledAt,
		Status:      types.BookingStatusPending,
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, err
	}
	bs.log.Info("booking created",
		"booking_id", b.ID.String(), "customer_id", customer.ID.String(), "service", b.Service)
	return b, nil
}

func (bs *bookingService) ListForToken(ctx context.Context, rawToken string) ([]*types.Booking, error) {
	customer, err := bs.resolver.ResolveReadOnly(ctx, rawToken)
	if err != nil {
		if identitydomain.IsCode(err, identitydomain.CodeNotFound) {
			return []*types.Booking{}, nil
		}
		return nil, err
	}
	return bs.bookingRepo.ListByCustomer(dbctx.New(ctx), customer.ID)
}

// Cancel is idempotent: cancelling an already-cancelled booking succeeds
// without touching the row again.
func (bs *bookingService) Cancel(ctx context.Context, bookingID uuid.UUID, requesterToken string) (*types.Booking, error) {
	dbc := dbctx.New(ctx)
	b, err := bs.bookingRepo.FindByID(dbc, bookingID)
	if err != nil {
		return nil, err
	}

	ok, err := bs.authorizer.Authorize(ctx, requesterToken, b.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, identitydomain.NewError(identitydomain.CodeDenied, "booking.cancel", "requester does not own this booking", nil)
	}

	if b.Status == types.BookingStatusCancelled {
		return b, nil
	}
	if err := bs.bookingRepo.UpdateStatus(dbc, b.ID, types.BookingStatusCancelled); err != nil {
		return nil, err
	}
	b.Status = types.BookingStatusCancelled
	return b, nil
}

// AddressService resolves the owner the same way bookings do before
// attaching an address.
type AddressService interface {
	Create(ctx context.Context, rawToken string, seed ResolveSeed, a *types.Address) (*types.Address, error)
	ListForToken(ctx context.Context, rawToken string) ([]*types.Address, error)
}

type addressService struct {
	log         *logger.Logger
	resolver    ResolverService
	addressRepo bookingrepo.AddressRepo
}

func NewAddressService(
	log *logger.Logger,
	resolver ResolverService,
	addressRepo bookingrepo.AddressRepo,
) AddressService {
	return &addressService{
		log:         log.With("service", "AddressService"),
		resolver:    resolver,
		addressRepo: addressRepo,
	}
}

func (as *addressService) Create(ctx context.Context, rawToken string, seed ResolveSeed, a *types.Address) (*types.Address, error) {
	if strings.TrimSpace(a.Line1) == "" {
		return nil, identitydomain.NewError(identitydomain.CodeValidation, "address.create", "line1 is required", nil)
	}
	customer, err := as.resolver.Resolve(ctx, rawToken, seed)
	if err != nil {
		return nil, err
	}
	a.UserID = customer.ID
	return as.addressRepo.Create(dbctx.New(ctx), a)
}

func (as *addressService) ListForToken(ctx context.Context, rawToken string) ([]*types.Address, error) {
	customer, err := as.resolver.ResolveReadOnly(ctx, rawToken)
	if err != nil {
		if identitydomain.IsCode(err, identitydomain.CodeNotFound) {
			return []*types.Address{}, nil
		}
		return nil, err
	}
	return as.addressRepo.ListByUser(dbctx.New(ctx), customer.ID)
}
