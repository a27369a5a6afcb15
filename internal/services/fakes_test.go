package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/urbanpros/booking-backend/internal/domain"
	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

func dbcTest() dbctx.Context {
	return dbctx.New(context.Background())
}

func testLogger() *logger.Logger {
	l, err := logger.New("dev")
	if err != nil {
		panic(err)
	}
	return l
}

// fakeCustomerRepo mirrors the store contract in memory: unique phone
// enforcement with a typed duplicate error, deterministic earliest-first
// reads. Setting unique=false lets tests seed pre-existing duplicate
// groups, which the real index would refuse.
type fakeCustomerRepo struct {
	mu     sync.Mutex
	rows   map[uuid.UUID]*types.Customer
	unique bool

	insertErr      error
	findByPhoneErr error
	deleteErr      error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{rows: make(map[uuid.UUID]*types.Customer), unique: true}
}

func cloneCustomer(c *types.Customer) *types.Customer {
	cp := *c
	return &cp
}

func (f *fakeCustomerRepo) Insert(_ dbctx.Context, c *types.Customer) (*types.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if f.unique {
		for _, row := range f.rows {
			if row.Phone == c.Phone {
				return nil, identitydomain.NewError(identitydomain.CodeDuplicatePhone, "customer.insert", "phone already registered", nil)
			}
		}
	}
	cp := cloneCustomer(c)
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	f.rows[cp.ID] = cp
	return cloneCustomer(cp), nil
}

func (f *fakeCustomerRepo) FindByID(_ dbctx.Context, id uuid.UUID) (*types.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.rows[id]; ok {
		return cloneCustomer(c), nil
	}
	return nil, identitydomain.NewError(identitydomain.CodeNotFound, "customer.find_by_id", "no such customer", nil)
}

func (f *fakeCustomerRepo) FindByPhone(_ dbctx.Context, phone string) (*types.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findByPhoneErr != nil {
		return nil, f.findByPhoneErr
	}
	matches := f.listByPhoneLocked(phone)
	if len(matches) == 0 {
		return nil, identitydomain.NewError(identitydomain.CodeNotFound, "customer.find_by_phone", "no such customer", nil)
	}
	return cloneCustomer(matches[0]), nil
}

func (f *fakeCustomerRepo) listByPhoneLocked(phone string) []*types.Customer {
	var matches []*types.Customer
	for _, row := range f.rows {
		if row.Phone == phone {
			matches = append(matches, row)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID.String() < matches[j].ID.String()
	})
	return matches
}

func (f *fakeCustomerRepo) UpdateFields(_ dbctx.Context, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil
	}
	if v, ok := fields["last_login_at"]; ok {
		c.LastLoginAt = v.(time.Time)
	}
	if v, ok := fields["verified"]; ok {
		c.Verified = v.(bool)
	}
	if v, ok := fields["display_name"]; ok {
		c.DisplayName = v.(string)
	}
	return nil
}

func (f *fakeCustomerRepo) ListByPhone(_ dbctx.Context, phone string) ([]*types.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := f.listByPhoneLocked(phone)
	out := make([]*types.Customer, 0, len(matches))
	for _, m := range matches {
		out = append(out, cloneCustomer(m))
	}
	return out, nil
}

func (f *fakeCustomerRepo) ListDuplicatePhones(_ dbctx.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, row := range f.rows {
		counts[row.Phone]++
	}
	var out []string
	for phone, n := range counts {
		if n > 1 {
			out = append(out, phone)
		}
	}
	return out, nil
}

func (f *fakeCustomerRepo) Delete(_ dbctx.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCustomerRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeLegacyRepo struct {
	byPhone map[string]*types.LegacyCustomer
	byID    map[string]*types.LegacyCustomer
}

func newFakeLegacyRepo() *fakeLegacyRepo {
	return &fakeLegacyRepo{
		byPhone: make(map[string]*types.LegacyCustomer),
		byID:    make(map[string]*types.LegacyCustomer),
	}
}

func (f *fakeLegacyRepo) add(lc *types.LegacyCustomer) {
	f.byID[lc.LegacyID] = lc
	if lc.Phone != "" {
		f.byPhone[lc.Phone] = lc
	}
}

func (f *fakeLegacyRepo) FindByPhone(_ dbctx.Context, phone string) (*types.LegacyCustomer, error) {
	if lc, ok := f.byPhone[phone]; ok {
		cp := *lc
		return &cp, nil
	}
	return nil, identitydomain.NewError(identitydomain.CodeNotFound, "legacy.find_by_phone", "no such legacy customer", nil)
}

func (f *fakeLegacyRepo) FindByID(_ dbctx.Context, legacyID string) (*types.LegacyCustomer, error) {
	if lc, ok := f.byID[legacyID]; ok {
		cp := *lc
		return &cp, nil
	}
	return nil, identitydomain.NewError(identitydomain.CodeNotFound, "legacy.find_by_id", "no such legacy customer", nil)
}

type fakeBookingRepo struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]*types.Booking
	repointErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{rows: make(map[uuid.UUID]*types.Booking)}
}

func (f *fakeBookingRepo) Create(_ dbctx.Context, b *types.Booking) (*types.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	if cp.Status == "" {
		cp.Status = types.BookingStatusPending
	}
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeBookingRepo) FindByID(_ dbctx.Context, id uuid.UUID) (*types.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.rows[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, identitydomain.NewError(identitydomain.CodeNotFound, "booking.find_by_id", "no such booking", nil)
}

func (f *fakeBookingRepo) ListByCustomer(_ dbctx.Context, customerID uuid.UUID) ([]*types.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Booking
	for _, b := range f.rows {
		if b.CustomerID == customerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ dbctx.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.rows[id]; ok {
		b.Status = status
	}
	return nil
}

func (f *fakeBookingRepo) RepointCustomer(_ dbctx.Context, fromID, toID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.repointErr != nil {
		return 0, f.repointErr
	}
	var moved int64
	for _, b := range f.rows {
		if b.CustomerID == fromID {
			b.CustomerID = toID
			moved++
		}
	}
	return moved, nil
}

func (f *fakeBookingRepo) CountByCustomer(_ dbctx.Context, customerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, b := range f.rows {
		if b.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

type fakeAddressRepo struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]*types.Address
	repointErr error
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{rows: make(map[uuid.UUID]*types.Address)}
}

func (f *fakeAddressRepo) Create(_ dbctx.Context, a *types.Address) (*types.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAddressRepo) ListByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Address
	for _, a := range f.rows {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAddressRepo) RepointUser(_ dbctx.Context, fromID, toID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.repointErr != nil {
		return 0, f.repointErr
	}
	var moved int64
	for _, a := range f.rows {
		if a.UserID == fromID {
			a.UserID = toID
			moved++
		}
	}
	return moved, nil
}

func (f *fakeAddressRepo) CountByUser(_ dbctx.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, a := range f.rows {
		if a.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeOTPRepo struct {
	mu   sync.Mutex
	rows map[string]*types.OTPChallenge
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{rows: make(map[string]*types.OTPChallenge)}
}

func (f *fakeOTPRepo) Upsert(_ dbctx.Context, ch *types.OTPChallenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *ch
	f.rows[cp.Phone] = &cp
	return nil
}

func (f *fakeOTPRepo) FindByPhone(_ dbctx.Context, phone string) (*types.OTPChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.rows[phone]; ok {
		cp := *ch
		return &cp, nil
	}
	return nil, identitydomain.NewError(identitydomain.CodeNotFound, "otp.find_by_phone", "no challenge", nil)
}

func (f *fakeOTPRepo) Delete(_ dbctx.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, phone)
	return nil
}

type fakeSender struct {
	mu       sync.Mutex
	lastTo   string
	lastBody string
	sent     int
}

func (f *fakeSender) Send(_ context.Context, phone, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTo = phone
	f.lastBody = body
	f.sent++
	return nil
}

type fakeThrottle struct {
	allow bool
}

func (f *fakeThrottle) Allow(context.Context, string, time.Duration) (bool, error) {
	return f.allow, nil
}
