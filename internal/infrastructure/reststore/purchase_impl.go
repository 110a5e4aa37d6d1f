package reststore

import (
	"context"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

type purchaseRepository struct {
	client *Client
}

func NewPurchaseRepository(client *Client) repositories.PurchaseRepository {
	return &purchaseRepository{client: client}
}

func (r *purchaseRepository) Create(ctx context.Context, params repositories.CreatePurchaseParams) (*models.Purchase, error) {
	payload := map[string]any{
		"user_id":                  params.UserID,
		"stripe_payment_intent_id": params.StripePaymentIntentID,
		"stripe_price_id":          params.StripePriceID,
		"stripe_product_id":        params.StripeProductID,
		"package_id":               params.PackageID,
		"amount_paid":              params.AmountPaid,
		"currency":                 params.Currency,
		"tokens_purchased":         params.TokensPurchased,
		"status":                   params.Status,
		"completed_at":             params.CompletedAt,
	}
	if params.PackagePriceID != nil {
		payload["package_price_id"] = *params.PackagePriceID
	}

	var rows []models.Purchase
	if err := r.client.Insert(ctx, "purchases", payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindRemoteStore, "purchase insert returned no row")
	}
	return &rows[0], nil
}

func (r *purchaseRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Purchase, error) {
	var rows []models.Purchase
	q := NewQuery().
		Eq("stripe_payment_intent_id", paymentIntentID).
		Select("*").
		Limit(1)
	if err := r.client.Get(ctx, "purchases", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindNotFound, "no purchase recorded for payment intent %s", paymentIntentID)
	}
	return &rows[0], nil
}

func (r *purchaseRepository) ListCompletedByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	var rows []models.Purchase
	q := NewQuery().
		Eq("user_id", userID).
		Eq("status", models.PurchaseStatusCompleted).
		Select("*").
		Order("created_at.desc")
	if err := r.client.Get(ctx, "purchases", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
