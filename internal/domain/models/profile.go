package models

// Profile mirrors the profiles table in the relational backend. The
// subscription fields are a lagging mirror of the processor's state and are
// only refreshed by explicit sync calls.
type Profile struct {
	ID                    string  `json:"id"`
	UpdatedAt             *string `json:"updated_at,omitempty"`
	Username              *string `json:"username,omitempty"`
	FullName              *string `json:"full_name,omitempty"`
	AvatarURL             *string `json:"avatar_url,omitempty"`
	OnboardingComplete    *bool   `json:"onboarding_complete,omitempty"`
	StripeCustomerID      *string `json:"stripe_customer_id,omitempty"`
	SubscriptionID        *string `json:"subscription_id,omitempty"`
	SubscriptionStatus    *string `json:"subscription_status,omitempty"`
	SubscriptionPeriodEnd *int64  `json:"subscription_period_end,omitempty"`

	// Token balances, maintained by backend-side triggers.
	TotalTokens     *int64 `json:"total_tokens,omitempty"`
	TokensRemaining *int64 `json:"tokens_remaining,omitempty"`
	TokensUsed      *int64 `json:"tokens_used,omitempty"`

	TotalPurchases  *int32  `json:"total_purchases,omitempty"`
	TotalSpentCents *int64  `json:"total_spent_cents,omitempty"`
	LastPurchaseAt  *string `json:"last_purchase_at,omitempty"`
}

// ProfileUpdate carries the mutable profile fields for a PATCH. Nil fields
// are left untouched.
type ProfileUpdate struct {
	Username           *string `json:"username,omitempty"`
	FullName           *string `json:"full_name,omitempty"`
	AvatarURL          *string `json:"avatar_url,omitempty"`
	OnboardingComplete *bool   `json:"onboarding_complete,omitempty"`
}

// SubscriptionMirror is the subset of Profile written back after processor
// subscription operations.
type SubscriptionMirror struct {
	StripeCustomerID      string `json:"stripe_customer_id"`
	SubscriptionID        string `json:"subscription_id"`
	SubscriptionStatus    string `json:"subscription_status"`
	SubscriptionPeriodEnd int64  `json:"subscription_period_end"`
}
