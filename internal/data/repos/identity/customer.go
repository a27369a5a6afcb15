package identity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/urbanpros/booking-backend/internal/domain"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

// CustomerRepo is the primary identity store adapter. Insert surfaces
// unique-phone conflicts as CodeDuplicatePhone so the resolver can retry;
// it never swallows them.
type CustomerRepo interface {
	Insert(dbc dbctx.Context, c *types.Customer) (*types.Customer, error)
	FindByID(dbc dbctx.Context, id uuid.UUID) (*types.Customer, error)
	FindByPhone(dbc dbctx.Context, phone string) (*types.Customer, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
	ListByPhone(dbc dbctx.Context, phone string) ([]*types.Customer, error)
	ListDuplicatePhones(dbc dbctx.Context) ([]string, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type customerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	return &customerRepo{
		db:  db,
		log: baseLog.With("repo", "CustomerRepo"),
	}
}

func (r *customerRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *customerRepo) Insert(dbc dbctx.Context, c *types.Customer) (*types.Customer, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := r.handle(dbc).WithContext(dbc.Ctx).Create(c).Error; err != nil {
		return nil, mapError("customer.insert", err)
	}
	return c, nil
}

func (r *customerRepo) FindByID(dbc dbctx.Context, id uuid.UUID) (*types.Customer, error) {
	var out types.Customer
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		First(&out, "id = ?", id).Error; err != nil {
		return nil, mapError("customer.find_by_id", err)
	}
	return &out, nil
}

func (r *customerRepo) FindByPhone(dbc dbctx.Context, phone string) (*types.Customer, error) {
	var out types.Customer
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("phone = ?", phone).
		Order("created_at ASC, id ASC").
		First(&out).Error; err != nil {
		return nil, mapError("customer.find_by_phone", err)
	}
	return &out, nil
}

func (r *customerRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Customer{}).
		Where("id = ?", id).
		Updates(fields).Error
	return mapError("customer.update_fields", err)
}

func (r *customerRepo) ListByPhone(dbc dbctx.Context, phone string) ([]*types.Customer, error) {
	var out []*types.Customer
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("phone = ?", phone).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, mapError("customer.list_by_phone", err)
	}
	return out, nil
}

func (r *customerRepo) ListDuplicatePhones(dbc dbctx.Context) ([]string, error) {
	var out []string
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Customer{}).
		Select("phone").
		Group("phone").
		Having("COUNT(*) > 1").
		Pluck("phone", &out).Error
	if err != nil {
		return nil, mapError("customer.list_duplicate_phones", err)
	}
	return out, nil
}

func (r *customerRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Delete(&types.Customer{}, "id = ?", id).Error
	return mapError("customer.delete", err)
}
