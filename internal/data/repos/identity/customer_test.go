package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/urbanpros/booking-backend/internal/data/repos/testutil"
	types "github.com/urbanpros/booking-backend/internal/domain"
	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
)

func TestCustomerRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCustomerRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Insert(dbc, &types.Customer{
		Phone:       "9876543210",
		DisplayName: "Asha",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("Insert: expected assigned id")
	}

	byID, err := repo.FindByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Phone != "9876543210" {
		t.Fatalf("FindByID: unexpected phone %q", byID.Phone)
	}

	byPhone, err := repo.FindByPhone(dbc, "9876543210")
	if err != nil {
		t.Fatalf("FindByPhone: %v", err)
	}
	if byPhone.ID != created.ID {
		t.Fatalf("FindByPhone: got id %s, want %s", byPhone.ID, created.ID)
	}

	if _, err := repo.FindByPhone(dbc, "9000000000"); !identitydomain.IsCode(err, identitydomain.CodeNotFound) {
		t.Fatalf("FindByPhone miss: got %v, want not_found", err)
	}

	if err := repo.UpdateFields(dbc, created.ID, map[string]any{"verified": true}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	byID, err = repo.FindByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("FindByID after update: %v", err)
	}
	if !byID.Verified {
		t.Fatalf("UpdateFields: verified flag not persisted")
	}

	if err := repo.Delete(dbc, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(dbc, created.ID); !identitydomain.IsCode(err, identitydomain.CodeNotFound) {
		t.Fatalf("FindByID after delete: got %v, want not_found", err)
	}
}

func TestCustomerRepoDuplicatePhone(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCustomerRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	if _, err := repo.Insert(dbc, &types.Customer{Phone: "9123456789"}); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	_, err := repo.Insert(dbc, &types.Customer{Phone: "9123456789"})
	if !identitydomain.IsCode(err, identitydomain.CodeDuplicatePhone) {
		t.Fatalf("second Insert: got %v, want duplicate_phone", err)
	}
}

func TestLegacyCustomerRepoReadOnly(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	seed := &types.LegacyCustomer{
		LegacyID: "LEG-1001",
		Phone:    "9876500001",
		Name:     "Ravi",
		Verified: true,
	}
	if err := tx.Create(seed).Error; err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}

	repo := NewLegacyCustomerRepo(db, testutil.Logger(t))

	byPhone, err := repo.FindByPhone(dbc, "9876500001")
	if err != nil {
		t.Fatalf("FindByPhone: %v", err)
	}
	if byPhone.LegacyID != "LEG-1001" || !byPhone.Verified {
		t.Fatalf("FindByPhone: unexpected row %+v", byPhone)
	}

	byID, err := repo.FindByID(dbc, "LEG-1001")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Phone != "9876500001" {
		t.Fatalf("FindByID: unexpected phone %q", byID.Phone)
	}

	if _, err := repo.FindByID(dbc, "LEG-9999"); !identitydomain.IsCode(err, identitydomain.CodeNotFound) {
		t.Fatalf("FindByID miss: got %v, want not_found", err)
	}
}
