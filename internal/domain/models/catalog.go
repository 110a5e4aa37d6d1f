package models

import "encoding/json"

// Package is the local catalog mirror of a processor product used for
// one-time token purchases. Rows are created on demand when a purchase
// references a product not yet mirrored.
type Package struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	StripeProductID string          `json:"stripe_product_id"`
	Features        json.RawMessage `json:"features,omitempty"`
	IsActive        bool            `json:"is_active"`
	SortOrder       int             `json:"sort_order"`
	CreatedAt       *string         `json:"created_at,omitempty"`
	UpdatedAt       *string         `json:"updated_at,omitempty"`
}

// PackagePrice mirrors a processor price belonging to a Package and carries
// the token grant for that price point.
type PackagePrice struct {
	ID            string  `json:"id"`
	PackageID     string  `json:"package_id"`
	StripePriceID string  `json:"stripe_price_id"`
	AmountCents   int64   `json:"amount_cents"`
	Currency      string  `json:"currency"`
	IntervalType  string  `json:"interval_type"`
	IntervalCount int     `json:"interval_count"`
	TokenAmount   int64   `json:"token_amount"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     *string `json:"created_at,omitempty"`
	UpdatedAt     *string `json:"updated_at,omitempty"`
}

type PackageWithPrices struct {
	Package Package        `json:"package"`
	Prices  []PackagePrice `json:"prices"`
}

// SubscriptionPlan mirrors a processor product sold as a recurring plan.
type SubscriptionPlan struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	StripeProductID string          `json:"stripe_product_id"`
	Features        json.RawMessage `json:"features,omitempty"`
	IsActive        bool            `json:"is_active"`
	SortOrder       int             `json:"sort_order"`
	CreatedAt       *string         `json:"created_at,omitempty"`
	UpdatedAt       *string         `json:"updated_at,omitempty"`
}

type SubscriptionPrice struct {
	ID                 string  `json:"id"`
	SubscriptionPlanID string  `json:"subscription_plan_id"`
	StripePriceID      string  `json:"stripe_price_id"`
	AmountCents        int64   `json:"amount_cents"`
	Currency           string  `json:"currency"`
	IntervalType       string  `json:"interval_type"`
	IntervalCount      int     `json:"interval_count"`
	TokenAmount        int64   `json:"token_amount"`
	TrialPeriodDays    int     `json:"trial_period_days"`
	IsActive           bool    `json:"is_active"`
	CreatedAt          *string `json:"created_at,omitempty"`
	UpdatedAt          *string `json:"updated_at,omitempty"`
}

type SubscriptionPlanWithPrices struct {
	Plan   SubscriptionPlan    `json:"plan"`
	Prices []SubscriptionPrice `json:"prices"`
}
