package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
)

// mapError is the single place store-level failures become engine error
// codes. Nothing below gorm/pgx leaks past the repo boundary uncategorized.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var engineErr *identitydomain.Error
	if errors.As(err, &engineErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return identitydomain.WrapError(identitydomain.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return identitydomain.WrapError(identitydomain.CodeDuplicatePhone, op, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return identitydomain.WrapError(identitydomain.CodeTimeout, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.TrimSpace(pgErr.Code) == "23505" {
		return identitydomain.WrapError(identitydomain.CodeDuplicatePhone, op, err)
	}

	return identitydomain.WrapError(identitydomain.CodeInternal, op, err)
}
