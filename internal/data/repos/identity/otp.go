package identity

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/urbanpros/booking-backend/internal/domain"
	"github.com/urbanpros/booking-backend/internal/pkg/dbctx"
	"github.com/urbanpros/booking-backend/internal/platform/logger"
)

type OTPChallengeRepo interface {
	Upsert(dbc dbctx.Context, ch *types.OTPChallenge) error
	FindByPhone(dbc dbctx.Context, phone string) (*types.OTPChallenge, error)
	Delete(dbc dbctx.Context, phone string) error
}

type otpChallengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOTPChallengeRepo(db *gorm.DB, baseLog *logger.Logger) OTPChallengeRepo {
	return &otpChallengeRepo{
		db:  db,
		log: baseLog.With("repo", "OTPChallengeRepo"),
	}
}

func (r *otpChallengeRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *otpChallengeRepo) Upsert(dbc dbctx.Context, ch *types.OTPChallenge) error {
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "created_at"}),
		}).
		Create(ch).Error
	return mapError("otp.upsert", err)
}

func (r *otpChallengeRepo) FindByPhone(dbc dbctx.Context, phone string) (*types.OTPChallenge, error) {
	var out types.OTPChallenge
	if err := r.handle(dbc).WithContext(dbc.Ctx).
		First(&out, "phone = ?", phone).Error; err != nil {
		return nil, mapError("otp.find_by_phone", err)
	}
	return &out, nil
}

func (r *otpChallengeRepo) Delete(dbc dbctx.Context, phone string) error {
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Delete(&types.OTPChallenge{}, "phone = ?", phone).Error
	return mapError("otp.delete", err)
}
