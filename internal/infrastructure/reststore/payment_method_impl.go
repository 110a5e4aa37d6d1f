package reststore

import (
	"context"
	"time"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

type paymentMethodRepository struct {
	client *Client
}

func NewPaymentMethodRepository(client *Client) repositories.PaymentMethodRepository {
	return &paymentMethodRepository{client: client}
}

// ListByUser returns active methods in tie-break order: explicit default
// first, then newest.
func (r *paymentMethodRepository) ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	var rows []models.PaymentMethod
	q := NewQuery().
		Eq("user_id", userID).
		Eq("is_active", "true").
		Select("*").
		Order("is_default.desc,created_at.desc")
	if err := r.client.Get(ctx, "payment_methods", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *paymentMethodRepository) Create(ctx context.Context, params repositories.CreatePaymentMethodParams) (*models.PaymentMethod, error) {
	payload := map[string]any{
		"user_id":                  params.UserID,
		"stripe_customer_id":       params.StripeCustomerID,
		"stripe_payment_method_id": params.StripePaymentMethodID,
		"card_brand":               params.CardBrand,
		"card_last4":               params.CardLast4,
		"card_exp_month":           params.CardExpMonth,
		"card_exp_year":            params.CardExpYear,
		"is_default":               params.IsDefault,
		"is_active":                true,
	}

	var rows []models.PaymentMethod
	if err := r.client.Insert(ctx, "payment_methods", payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindRemoteStore, "payment method insert returned no row")
	}
	return &rows[0], nil
}

func (r *paymentMethodRepository) SetFlags(ctx context.Context, paymentMethodID, userID string, isDefault, isActive *bool) (*models.PaymentMethod, error) {
	payload := map[string]any{}
	if isDefault != nil {
		payload["is_default"] = *isDefault
	}
	if isActive != nil {
		payload["is_active"] = *isActive
	}
	if len(payload) == 0 {
		return nil, errs.New(errs.KindValidation, "no payment method flags to update")
	}

	var rows []models.PaymentMethod
	q := NewQuery().
		Eq("stripe_payment_method_id", paymentMethodID).
		Eq("user_id", userID)
	if err := r.client.Update(ctx, "payment_methods", q, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindNotFound, "payment method %s not found for user", paymentMethodID)
	}
	return &rows[0], nil
}

// UnsetDefaults clears is_default on every active method of the user. Rows
// already non-default are untouched by the filter.
func (r *paymentMethodRepository) UnsetDefaults(ctx context.Context, userID string) error {
	q := NewQuery().
		Eq("user_id", userID).
		Eq("is_default", "true").
		Eq("is_active", "true")
	payload := map[string]any{"is_default": false}
	return r.client.Update(ctx, "payment_methods", q, payload, nil)
}

func (r *paymentMethodRepository) Delete(ctx context.Context, paymentMethodID, userID string) error {
	q := NewQuery().
		Eq("stripe_payment_method_id", paymentMethodID).
		Eq("user_id", userID)
	return r.client.Delete(ctx, "payment_methods", q)
}

func (r *paymentMethodRepository) MarkUsed(ctx context.Context, paymentMethodID, userID string) error {
	q := NewQuery().
		Eq("stripe_payment_method_id", paymentMethodID).
		Eq("user_id", userID)
	payload := map[string]any{
		"last_used_at": time.Now().UTC().Format(time.RFC3339),
	}
	return r.client.Update(ctx, "payment_methods", q, payload, nil)
}
