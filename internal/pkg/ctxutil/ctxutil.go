package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const customerIDKey contextKey = "customer_id"

// WithCustomerID stamps the authenticated customer's id onto the request
// context. Set by the session middleware after JWT validation.
func WithCustomerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, customerIDKey, id)
}

func CustomerID(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(customerIDKey).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}
