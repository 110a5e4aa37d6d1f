package repositories

import (
	"context"

	"github.com/simonbeirouti/aura/internal/domain/models"
)

// CreatePaymentMethodParams carries the card metadata persisted after a
// setup intent is confirmed client-side.
type CreatePaymentMethodParams struct {
	UserID                string
	StripeCustomerID      string
	StripePaymentMethodID string
	CardBrand             string
	CardLast4             string
	CardExpMonth          int
	CardExpYear           int
	IsDefault             bool
}

type PaymentMethodRepository interface {
	// ListByUser returns the user's methods ordered is_default desc,
	// created_at desc (the tie-break order for picking an effective default).
	ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error)
	Create(ctx context.Context, params CreatePaymentMethodParams) (*models.PaymentMethod, error)
	// SetFlags updates is_default and/or is_active; nil leaves a flag alone.
	SetFlags(ctx context.Context, paymentMethodID, userID string, isDefault, isActive *bool) (*models.PaymentMethod, error)
	// UnsetDefaults clears is_default on all active methods for the user.
	UnsetDefaults(ctx context.Context, userID string) error
	Delete(ctx context.Context, paymentMethodID, userID string) error
	MarkUsed(ctx context.Context, paymentMethodID, userID string) error
}
