package services

import (
	"context"
	"testing"
	"time"

	types "github.com/urbanpros/booking-backend/internal/domain"
	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
)

type bookingFixture struct {
	customers *fakeCustomerRepo
	bookings  *fakeBookingRepo
	addresses *fakeAddressRepo
	svc       BookingService
	addrs     AddressService
}

func newBookingFixture() *bookingFixture {
	customers := newFakeCustomerRepo()
	bookings := newFakeBookingRepo()
	addresses := newFakeAddressRepo()
	log := testLogger()
	rs := NewResolverService(log, customers, newFakeLegacyRepo())
	az := NewAuthorizer(log, rs, customers)
	return &bookingFixture{
		customers: customers,
		bookings:  bookings,
		addresses: addresses,
		svc:       NewBookingService(log, rs, az, bookings),
		addrs:     NewAddressService(log, rs, addresses),
	}
}

func TestBookingCreateResolvesToken(t *testing.T) {
	fx := newBookingFixture()
	ctx := context.Background()

	b, err := fx.svc.Create(ctx, "user_919876543210", ResolveSeed{Name: "Asha"}, BookingInput{
		Service:     "deep-clean",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != types.BookingStatusPending {
		t.Fatalf("status = %q, want pending", b.Status)
	}
	if fx.customers.count() != 1 {
		t.Fatalf("store has %d customers, want 1 created by resolution", fx.customers.count())
	}

	// A second booking through a different token format lands on the same
	// customer.
	b2, err := fx.svc.Create(ctx, "9876543210", ResolveSeed{}, BookingInput{Service: "plumbing"})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if b2.CustomerID != b.CustomerID {
		t.Fatalf("bookings split across customers %s and %s", b.CustomerID, b2.CustomerID)
	}
}

func TestBookingCreateRequiresService(t *testing.T) {
	fx := newBookingFixture()
	_, err := fx.svc.Create(context.Background(), "9876543210", ResolveSeed{}, BookingInput{})
	if !identitydomain.IsCode(err, identitydomain.CodeValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if fx.customers.count() != 0 {
		t.Fatal("invalid input still resolved an identity")
	}
}

func TestBookingCreateUnresolvableToken(t *testing.T) {
	fx := newBookingFixture()
	_, err := fx.svc.Create(context.Background(), "garbage", ResolveSeed{}, BookingInput{Service: "plumbing"})
	if !identitydomain.IsCode(err, identitydomain.CodeNotResolvable) {
		t.Fatalf("err = %v, want not_resolvable", err)
	}
}

func TestBookingListForUnknownTokenEmpty(t *testing.T) {
	fx := newBookingFixture()
	out, err := fx.svc.ListForToken(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d bookings for unknown customer", len(out))
	}
	if fx.customers.count() != 0 {
		t.Fatal("listing created a customer")
	}
}

func TestBookingCancel(t *testing.T) {
	fx := newBookingFixture()
	ctx := context.Background()
	b, err := fx.svc.Create(ctx, "9876543210", ResolveSeed{}, BookingInput{Service: "plumbing"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := fx.svc.Cancel(ctx, b.ID, "9876543210")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != types.BookingStatusCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}

	// Idempotent second cancel.
	got, err = fx.svc.Cancel(ctx, b.ID, "9876543210")
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if got.Status != types.BookingStatusCancelled {
		t.Fatalf("status = %q after second cancel", got.Status)
	}
}

func TestBookingCancelDeniedForStranger(t *testing.T) {
	fx := newBookingFixture()
	ctx := context.Background()
	b, err := fx.svc.Create(ctx, "9876543210", ResolveSeed{}, BookingInput{Service: "plumbing"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.customers.Insert(dbcTest(), &types.Customer{Phone: "9123456780"}); err != nil {
		t.Fatalf("seed stranger: %v", err)
	}

	_, err = fx.svc.Cancel(ctx, b.ID, "9123456780")
	if !identitydomain.IsCode(err, identitydomain.CodeDenied) {
		t.Fatalf("err = %v, want denied", err)
	}
	got, _ := fx.bookings.FindByID(dbcTest(), b.ID)
	if got.Status != types.BookingStatusPending {
		t.Fatalf("status = %q, stranger cancel changed the row", got.Status)
	}
}

func TestAddressCreateAndList(t *testing.T) {
	fx := newBookingFixture()
	ctx := context.Background()

	a, err := fx.addrs.Create(ctx, "9876543210", ResolveSeed{}, &types.Address{
		Line1:   "12 MG Road",
		City:    "Bengaluru",
		Pincode: "560001",
	})
	if err != nil {
		t.Fatalf("create address: %v", err)
	}

	out, err := fx.addrs.ListForToken(ctx, "user_9876543210")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].ID != a.ID {
		t.Fatalf("list = %+v, want the created address", out)
	}
}
