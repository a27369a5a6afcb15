package booking

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/urbanpros/booking-backend/internal/domain"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

type BookingRepo interface {
	Create(dbc dbctx.Context, b *types.Booking) (*types.Booking, error)
	FindByID(dbc dbctx.Context, id uuid.UUID) (*types.Booking, error)
	ListByCustomer(dbc dbctx.Context, customerID uuid.UUID) ([]*types.Booking, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error
	RepointCustomer(dbc dbctx.Context, fromID, toID uuid.UUID) (int64, error)
	CountByCustomer(dbc dbctx.Context, customerID uuid.UUID) (int64, error)
}

type bookingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookingRepo(db *gorm.DB, baseLog *logger.Logger) BookingRepo {
	return &bookingRepo{
		db:  db,
		log: baseLog.With("repo", "BookingRepo"),
	}
}

func (r *bookingRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *bookingRepo) Create(dbc dbctx.Context, b *types.Booking) (*types.Booking, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = types.BookingStatusPending
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(b).Error; err != nil {
		return nil, mapError("booking.create", err)
	}
	return b, nil
}

func (r *bookingRepo) FindByID(dbc dbctx.Context, id uuid.UUID) (*types.Booking, error) {
	var out types.Booking
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		First(&out, "id = ?", id).Error; err != nil {
		return nil, mapError("booking.find_by_id", err)
	}
	return &out, nil
}

func (r *bookingRepo) ListByCustomer(dbc dbctx.Context, customerID uuid.UUID) ([]*types.Booking, error) {
	var out []*types.Booking
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, mapError("booking.list_by_customer", err)
	}
	return out, nil
}

func (r *bookingRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error {
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
	return mapError("booking.update_status", err)
}

// RepointCustomer rewrites every booking owned by fromID to toID and
// reports how many rows moved. Safe to re-run; a second call matches zero
// rows.
func (r *bookingRepo) RepointCustomer(dbc dbctx.Context, fromID, toID uuid.UUID) (int64, error) {
	res := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Booking{}).
		Where("customer_id = ?", fromID).
		Update("customer_id", toID)
	if res.Error != nil {
		return 0, mapError("booking.repoint_customer", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *bookingRepo) CountByCustomer(dbc dbctx.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Booking{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, mapError("booking.count_by_customer", err)
	}
	return count, nil
}

