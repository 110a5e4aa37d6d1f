package models

// Purchase is the durable record of a completed one-time payment. Rows are
// immutable once created.
type Purchase struct {
	ID                    string  `json:"id"`
	UserID                string  `json:"user_id"`
	StripePaymentIntentID string  `json:"stripe_payment_intent_id"`
	StripePriceID         string  `json:"stripe_price_id"`
	StripeProductID       *string `json:"stripe_product_id,omitempty"`
	PackageID             *string `json:"package_id,omitempty"`
	PackagePriceID        *string `json:"package_price_id,omitempty"`
	AmountPaid            int64   `json:"amount_paid"`
	Currency              string  `json:"currency"`
	TokensPurchased       *int64  `json:"tokens_purchased,omitempty"`
	Status                string  `json:"status"`
	CompletedAt           *string `json:"completed_at,omitempty"`
	CreatedAt             *string `json:"created_at,omitempty"`
	UpdatedAt             *string `json:"updated_at,omitempty"`
}

const PurchaseStatusCompleted = "completed"

// UnknownPriceSentinel is recorded when a payment intent carries no price id
// in its metadata.
const UnknownPriceSentinel = "unknown_price"
