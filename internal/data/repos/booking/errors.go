package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
)

// Booking/address rows carry no unique business key, so the only codes
// that come out of this package are not_found, timeout and internal.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if identitydomain.CodeOf(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return identitydomain.WrapError(identitydomain.CodeNotFound, op, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return identitydomain.WrapError(identitydomain.CodeTimeout, op, err)
	default:
		return identitydomain.WrapError(identitydomain.CodeInternal, op, err)
	}
}
