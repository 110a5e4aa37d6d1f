package reststore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

type catalogRepository struct {
	client *Client
}

func NewCatalogRepository(client *Client) repositories.CatalogRepository {
	return &catalogRepository{client: client}
}

func (r *catalogRepository) GetPackageByProductID(ctx context.Context, stripeProductID string) (*models.Package, error) {
	var rows []models.Package
	q := NewQuery().Eq("stripe_product_id", stripeProductID).Select("*").Limit(1)
	if err := r.client.Get(ctx, "packages", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindNotFound, "no package for product %s", stripeProductID)
	}
	return &rows[0], nil
}

func (r *catalogRepository) CreatePackage(ctx context.Context, params repositories.CreatePackageParams) (*models.Package, error) {
	features, err := json.Marshal(params.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode package features: %w", err)
	}

	payload := map[string]any{
		"name":              params.Name,
		"description":       params.Description,
		"stripe_product_id": params.StripeProductID,
		"token_amount":      params.TokenAmount,
		"features":          json.RawMessage(features),
		"is_active":         true,
	}

	var rows []models.Package
	if err := r.client.Insert(ctx, "packages", payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindRemoteStore, "package insert returned no row")
	}
	return &rows[0], nil
}

func (r *catalogRepository) GetPackagePriceByPriceID(ctx context.Context, stripePriceID string) (*models.PackagePrice, error) {
	var rows []models.PackagePrice
	q := NewQuery().Eq("stripe_price_id", stripePriceID).Select("*").Limit(1)
	if err := r.client.Get(ctx, "package_prices", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindNotFound, "no package price for price %s", stripePriceID)
	}
	return &rows[0], nil
}

// UpsertPackagePrice merges on stripe_price_id so repeated catalog syncs
// stay idempotent.
func (r *catalogRepository) UpsertPackagePrice(ctx context.Context, params repositories.UpsertPackagePriceParams) error {
	payload := map[string]any{
		"package_id":      params.PackageID,
		"stripe_price_id": params.StripePriceID,
		"amount_cents":    params.AmountCents,
		"currency":        params.Currency,
		"interval_type":   params.IntervalType,
		"interval_count":  params.IntervalCount,
		"is_active":       params.IsActive,
	}
	q := NewQuery().OnConflict("stripe_price_id")
	return r.client.Upsert(ctx, "package_prices", q, payload, nil)
}

func (r *catalogRepository) ListActivePackages(ctx context.Context) ([]models.Package, error) {
	var rows []models.Package
	q := NewQuery().Eq("is_active", "true").Select("*").Order("sort_order.asc")
	if err := r.client.Get(ctx, "packages", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *catalogRepository) ListActivePackagePrices(ctx context.Context) ([]models.PackagePrice, error) {
	var rows []models.PackagePrice
	q := NewQuery().Eq("is_active", "true").Select("*").Order("amount_cents.asc")
	if err := r.client.Get(ctx, "package_prices", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *catalogRepository) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var rows []models.SubscriptionPlan
	q := NewQuery().Eq("is_active", "true").Select("*").Order("sort_order.asc")
	if err := r.client.Get(ctx, "subscription_plans", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *catalogRepository) ListActivePlanPrices(ctx context.Context) ([]models.SubscriptionPrice, error) {
	var rows []models.SubscriptionPrice
	q := NewQuery().Eq("is_active", "true").Select("*").Order("amount_cents.asc")
	if err := r.client.Get(ctx, "subscription_prices", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
