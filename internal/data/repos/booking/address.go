package booking

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/urbanpros/booking-backend/internal/domain"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

type AddressRepo interface {
	Create(dbc dbctx.Context, a *types.Address) (*types.Address, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Address, error)
	RepointUser(dbc dbctx.Context, fromID, toID uuid.UUID) (int64, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type addressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return &addressRepo{
		db:  db,
		log: baseLog.With("repo", "AddressRepo"),
	}
}

func (r *addressRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *addressRepo) Create(dbc dbctx.Context, a *types.Address) (*types.Address, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(a).Error; err != nil {
		return nil, mapError("address.create", err)
	}
	return a, nil
}

func (r *addressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Address, error) {
	var out []*types.Address
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, mapError("address.list_by_user", err)
	}
	return out, nil
}

// RepointUser mirrors BookingRepo.RepointCustomer for the address table,
// whose customer reference kept the historical user_id column name.
func (r *addressRepo) RepointUser(dbc dbctx.Context, fromID, toID uuid.UUID) (int64, error) {
	res := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Address{}).
		Where("user_id = ?", fromID).
		Update("user_id", toID)
	if res.Error != nil {
		return 0, mapError("address.repoint_user", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *addressRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Address{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, mapError("address.count_by_user", err)
	}
	return count, nil
}
