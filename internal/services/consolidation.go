package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	bookingrepo "github.com/urbanpros/booking-backend/internal/data/repos/booking"
	identityrepo "github.com/urbanpros/booking-backend/internal/data/repos/identity"
	types "github.com/urbanpros/booking-backend/internal/domain"
	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

type RepointCounts struct {
	Bookings  int64 `json:"bookings"`
	Addresses int64 `json:"addresses"`
}

// Repointer rewrites dependent-record foreign keys from one customer id to
// another. Idempotent; a failure part-way reports CodeRepointPartial and
// the caller must not delete the source identity.
type Repointer interface {
	Repoint(ctx context.Context, fromID, toID uuid.UUID) (RepointCounts, error)
}

type repointer struct {
	log         *logger.Logger
	bookingRepo bookingrepo.BookingRepo
	addressRepo bookingrepo.AddressRepo
}

func NewRepointer(
	log *logger.Logger,
	bookingRepo bookingrepo.BookingRepo,
	addressRepo bookingrepo.AddressRepo,
) Repointer {
	return &repointer{
		log:         log.With("service", "Repointer"),
		bookingRepo: bookingRepo,
		addressRepo: addressRepo,
	}
}

func (rp *repointer) Repoint(ctx context.Context, fromID, toID uuid.UUID) (RepointCounts, error) {
	var counts RepointCounts
	if fromID == toID {
		return counts, nil
	}
	dbc := dbctx.New(ctx)

	moved, err := rp.bookingRepo.RepointCustomer(dbc, fromID, toID)
	counts.Bookings = moved
	if err != nil {
		return counts, identitydomain.WrapError(identitydomain.CodeRepointPartial, "repointer.bookings", err)
	}

	moved, err = rp.addressRepo.RepointUser(dbc, fromID, toID)
	counts.Addresses = moved
	if err != nil {
		return counts, identitydomain.WrapError(identitydomain.CodeRepointPartial, "repointer.addresses", err)
	}

	return counts, nil
}

type PhoneReport struct {
	Phone          string    `json:"phone"`
	SurvivorID     uuid.UUID `json:"survivor_id"`
	LosersMerged   int       `json:"losers_merged"`
	BookingsMoved  int64     `json:"bookings_moved"`
	AddressesMoved int64     `json:"addresses_moved"`
	Errors         []string  `json:"errors,omitempty"`
}

type ConsolidationReport struct {
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
	GroupsScanned int           `json:"groups_scanned"`
	TotalMerged   int           `json:"total_merged"`
	Phones        []PhoneReport `json:"phones,omitempty"`
}

// Consolidator merges duplicate customers sharing a phone. Survivor is the
// earliest-created member (id string as tie-break, so re-runs are
// deterministic); each loser is repointed, then deleted. Restart-safe:
// already-merged groups collapse to size one and drop out of the scan.
type Consolidator interface {
	Run(ctx context.Context) (ConsolidationReport, error)
}

type consolidator struct {
	log          *logger.Logger
	customerRepo identityrepo.CustomerRepo
	repointer    Repointer
}

func NewConsolidator(
	log *logger.Logger,
	customerRepo identityrepo.CustomerRepo,
	repointer Repointer,
) Consolidator {
	return &consolidator{
		log:          log.With("service", "Consolidator"),
		customerRepo: customerRepo,
		repointer:    repointer,
	}
}

func (cs *consolidator) Run(ctx context.Context) (ConsolidationReport, error) {
	report := ConsolidationReport{StartedAt: time.Now()}
	dbc := dbctx.New(ctx)

	phones, err := cs.customerRepo.ListDuplicatePhones(dbc)
	if err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}
	sort.Strings(phones)
	report.GroupsScanned = len(phones)

	for _, phone := range phones {
		if ctx.Err() != nil {
			report.FinishedAt = time.Now()
			return report, identitydomain.WrapError(identitydomain.CodeTimeout, "consolidator.run", ctx.Err())
		}
		rep := cs.mergeGroup(ctx, dbc, phone)
		if rep == nil {
			continue
		}
		report.TotalMerged += rep.LosersMerged
		report.Phones = append(report.Phones, *rep)
	}

	report.FinishedAt = time.Now()
	cs.log.Info("consolidation run finished",
		"groups", report.GroupsScanned,
		"merged", report.TotalMerged,
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)
	return report, nil
}

// mergeGroup consolidates one phone's duplicates. A failed repoint leaves
// the loser in place for the next run; only fully repointed losers are
// deleted.
func (cs *consolidator) mergeGroup(ctx context.Context, dbc dbctx.Context, phone string) *PhoneReport {
	members, err := cs.customerRepo.ListByPhone(dbc, phone)
	if err != nil {
		cs.log.Warn("failed to load duplicate group", "phone", phone, "error", err)
		return &PhoneReport{Phone: phone, Errors: []string{err.Error()}}
	}
	if len(members) < 2 {
		return nil
	}

	sortBySeniority(members)
	survivor := members[0]
	rep := &PhoneReport{Phone: phone, SurvivorID: survivor.ID}

	for _, loser := range members[1:] {
		counts, err := cs.repointer.Repoint(ctx, loser.ID, survivor.ID)
		rep.BookingsMoved += counts.Bookings
		rep.AddressesMoved += counts.Addresses
		if err != nil {
			cs.log.Warn("repoint failed, keeping loser for next run",
				"phone", phone, "customer_id", loser.ID.String(), "error", err)
			rep.Errors = append(rep.Errors, err.Error())
			continue
		}
		if err := cs.customerRepo.Delete(dbc, loser.ID); err != nil {
			cs.log.Warn("failed to delete merged duplicate",
				"phone", phone, "customer_id", loser.ID.String(), "error", err)
			rep.Errors = append(rep.Errors, err.Error())
			continue
		}
		rep.LosersMerged++
	}
	return rep
}

func sortBySeniority(members []*types.Customer) {
	sort.Slice(members, func(i, j int) bool {
		if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		}
		return members[i].ID.String() < members[j].ID.String()
	})
}
