package models

// PaymentMethod is the local record of a processor payment method. Only card
// metadata is stored, never PAN or CVV. For a given user at most one active
// record carries IsDefault, enforced by the reconciler rather than a
// database constraint.
type PaymentMethod struct {
	ID                    string  `json:"id"`
	UserID                string  `json:"user_id"`
	StripeCustomerID      string  `json:"stripe_customer_id"`
	StripePaymentMethodID string  `json:"stripe_payment_method_id"`
	CardBrand             string  `json:"card_brand"`
	CardLast4             string  `json:"card_last4"`
	CardExpMonth          int     `json:"card_exp_month"`
	CardExpYear           int     `json:"card_exp_year"`
	IsDefault             bool    `json:"is_default"`
	IsActive              bool    `json:"is_active"`
	CreatedAt             *string `json:"created_at,omitempty"`
	UpdatedAt             *string `json:"updated_at,omitempty"`
	LastUsedAt            *string `json:"last_used_at,omitempty"`
}

// DefaultPaymentMethod picks the effective default from a list already
// ordered is_default desc, created_at desc: the explicit default first,
// otherwise the most recently created method.
func DefaultPaymentMethod(methods []PaymentMethod) *PaymentMethod {
	if len(methods) == 0 {
		return nil
	}
	for i := range methods {
		if methods[i].IsDefault {
			return &methods[i]
		}
	}
	return &methods[0]
}
