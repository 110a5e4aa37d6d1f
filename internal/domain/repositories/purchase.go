package repositories

import (
	"context"

	"github.com/simonbeirouti/aura/internal/domain/models"
)

// CreatePurchaseParams carries the fields of a new purchase row. Pointer
// fields are optional and omitted from the insert when nil.
type CreatePurchaseParams struct {
	UserID                string
	StripePaymentIntentID string
	StripePriceID         string
	StripeProductID       string
	PackageID             string
	PackagePriceID        *string
	AmountPaid            int64
	Currency              string
	TokensPurchased       int64
	Status                string
	CompletedAt           string
}

type PurchaseRepository interface {
	Create(ctx context.Context, params CreatePurchaseParams) (*models.Purchase, error)
	// GetByPaymentIntentID returns the purchase recorded for a payment
	// intent, or a KindNotFound error when none exists.
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Purchase, error)
	ListCompletedByUser(ctx context.Context, userID string) ([]models.Purchase, error)
}
