package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	identityrepo "github.com/urbanpros/booking-backend/internal/data/repos/identity"
	types "github.com/urbanpros/booking-backend/internal/domain"
	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
	"github.com/urbanpros/booking-backend/internal/normalization"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

// ResolveSeed carries optional caller-supplied profile fields used when a
// resolution has to create a brand-new customer. Seed values win over
// legacy-store values; legacy only fills the gaps.
type ResolveSeed struct {
	Name  string
	Email string
}

// ResolverService maps any raw customer identifier onto the canonical
// Customer, creating it on first sight. ResolveReadOnly is the
// authorization-path variant: same lookup chain, but it never inserts and
// never touches login timestamps.
type ResolverService interface {
	Resolve(ctx context.Context, rawToken string, seed ResolveSeed) (*types.Customer, error)
	ResolveReadOnly(ctx context.Context, rawToken string) (*types.Customer, error)
}

// A lost insert race converges on the winner's row via one re-read under
// read-after-write consistency; the extra attempts only cover back-to-back
// conflicts with consolidation deletes.
const maxInsertRetries = 3

type resolverService struct {
	log          *logger.Logger
	customerRepo identityrepo.CustomerRepo
	legacyRepo   identityrepo.LegacyCustomerRepo
}

func NewResolverService(
	log *logger.Logger,
	customerRepo identityrepo.CustomerRepo,
	legacyRepo identityrepo.LegacyCustomerRepo,
) ResolverService {
	return &resolverService{
		log:          log.With("service", "ResolverService"),
		customerRepo: customerRepo,
		legacyRepo:   legacyRepo,
	}
}

func (rs *resolverService) Resolve(ctx context.Context, rawToken string, seed ResolveSeed) (*types.Customer, error) {
	return rs.resolve(ctx, rawToken, seed, true)
}

func (rs *resolverService) ResolveReadOnly(ctx context.Context, rawToken string) (*types.Customer, error) {
	return rs.resolve(ctx, rawToken, ResolveSeed{}, false)
}

func (rs *resolverService) resolve(ctx context.Context, rawToken string, seed ResolveSeed, create bool) (*types.Customer, error) {
	tok := normalization.ClassifyToken(rawToken)

	switch tok.Kind {
	case normalization.TokenStoreID:
		id, err := uuid.Parse(tok.RawID)
		if err != nil {
			return nil, identitydomain.NewError(identitydomain.CodeNotResolvable, "resolver.resolve", "malformed customer id", err)
		}
		c, err := rs.customerRepo.FindByID(dbctx.New(ctx), id)
		if err == nil {
			if create {
				rs.touchLastLogin(ctx, c)
			}
			return c, nil
		}
		if !identitydomain.IsCode(err, identitydomain.CodeNotFound) {
			return nil, err
		}
		// Best effort: the id may belong to the legacy collection. A hit
		// with a usable phone continues resolution on the phone path.
		legacy, lerr := rs.legacyRepo.FindByID(dbctx.New(ctx), tok.RawID)
		if lerr != nil {
			if !identitydomain.IsCode(lerr, identitydomain.CodeNotFound) {
				rs.log.Warn("legacy bridge lookup failed", "op", "resolve.store_id", "error", lerr)
			}
			return nil, identitydomain.NewError(identitydomain.CodeNotResolvable, "resolver.resolve", "unknown customer id", nil)
		}
		phone := normalization.NormalizePhone(legacy.Phone)
		if phone == "" {
			return nil, identitydomain.NewError(identitydomain.CodeNotResolvable, "resolver.resolve", "legacy record has no usable phone", nil)
		}
		return rs.resolvePhone(ctx, phone, seed, create)

	case normalization.TokenPrefixedPhone, normalization.TokenPhoneDigits:
		return rs.resolvePhone(ctx, tok.Phone, seed, create)

	default:
		return nil, identitydomain.NewError(identitydomain.CodeNotResolvable, "resolver.resolve", "unrecognized customer identifier", nil)
	}
}

// resolvePhone is the race-aware center of the engine. Concurrent callers
// for the same new phone both observe a miss and both insert; the unique
// index on phone lets exactly one win, and the losers converge on the
// winner's row by re-reading.
func (rs *resolverService) resolvePhone(ctx context.Context, phone string, seed ResolveSeed, create bool) (*types.Customer, error) {
	dbc := dbctx.New(ctx)
	var candidate *types.Customer

	for attempt := 0; attempt <= maxInsertRetries; attempt++ {
		c, err := rs.customerRepo.FindByPhone(dbc, phone)
		if err == nil {
			if create {
				rs.touchLastLogin(ctx, c)
			}
			return c, nil
		}
		if !identitydomain.IsCode(err, identitydomain.CodeNotFound) {
			return nil, err
		}
		if !create {
			return nil, err
		}

		if candidate == nil {
			candidate = rs.buildCandidate(ctx, phone, seed)
		}
		created, insErr := rs.customerRepo.Insert(dbc, candidate)
		if insErr == nil {
			return created, nil
		}
		if !identitydomain.IsCode(insErr, identitydomain.CodeDuplicatePhone) {
			return nil, insErr
		}
		rs.log.Debug("lost identity creation race, retrying lookup", "phone", phone, "attempt", attempt)
	}

	return nil, identitydomain.NewError(identitydomain.CodeRaceUnresolved, "resolver.resolve_phone", "duplicate-phone retries exhausted", nil)
}

// buildCandidate assembles the row for a first-sight phone, seeding from
// the legacy collection when it knows this customer.
func (rs *resolverService) buildCandidate(ctx context.Context, phone string, seed ResolveSeed) *types.Customer {
	now := time.Now()
	c := &types.Customer{
		Phone:       phone,
		DisplayName: strings.TrimSpace(seed.Name),
		Email:       strings.TrimSpace(seed.Email),
		CreatedAt:   now,
		LastLoginAt: now,
	}

	legacy, err := rs.legacyRepo.FindByPhone(dbctx.New(ctx), phone)
	if err != nil {
		if !identitydomain.IsCode(err, identitydomain.CodeNotFound) {
			rs.log.Warn("legacy bridge lookup failed", "op", "resolve.phone", "phone", phone, "error", err)
		}
		return c
	}
	if c.DisplayName == "" {
		c.DisplayName = strings.TrimSpace(legacy.Name)
	}
	if c.Email == "" {
		c.Email = strings.TrimSpace(legacy.Email)
	}
	c.Verified = legacy.Verified
	return c
}

// touchLastLogin is opportunistic; a failed timestamp update never fails
// the resolution it rode along with.
func (rs *resolverService) touchLastLogin(ctx context.Context, c *types.Customer) {
	now := time.Now()
	if err := rs.customerRepo.UpdateFields(dbctx.New(ctx), c.ID, map[string]any{"last_login_at": now}); err != nil {
		rs.log.Warn("failed to update last login timestamp", "customer_id", c.ID.String(), "error", err)
		return
	}
	c.LastLoginAt = now
}
