package identity

import (
	"gorm.io/gorm"

	types "github.com/urbanpros/booking-backend/internal/domain"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

// LegacyCustomerRepo is the read-only bridge to the pre-migration identity
// collection. No write or delete methods exist on purpose.
type LegacyCustomerRepo interface {
	FindByPhone(dbc dbctx.Context, phone string) (*types.LegacyCustomer, error)
	FindByID(dbc dbctx.Context, legacyID string) (*types.LegacyCustomer, error)
}

type legacyCustomerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLegacyCustomerRepo(db *gorm.DB, baseLog *logger.Logger) LegacyCustomerRepo {
	return &legacyCustomerRepo{
		db:  db,
		log: baseLog.With("repo", "LegacyCustomerRepo"),
	}
}

func (r *legacyCustomerRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *legacyCustomerRepo) FindByPhone(dbc dbctx.Context, phone string) (*types.LegacyCustomer, error) {
	var out types.LegacyCustomer
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("phone = ?", phone).
		Order("created_at ASC").
		First(&out).Error; err != nil {
		return nil, mapError("legacy.find_by_phone", err)
	}
	return &out, nil
}

func (r *legacyCustomerRepo) FindByID(dbc dbctx.Context, legacyID string) (*types.LegacyCustomer, error) {
	var out types.LegacyCustomer
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		First(&out, "legacy_id = ?", legacyID).Error; err != nil {
		return nil, mapError("legacy.find_by_id", err)
	}
	return &out, nil
}
