package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

// CatalogService serves the local mirror of the processor's products and
// prices, and refreshes price rows from the processor on demand.
type CatalogService struct {
	processor ProcessorClient
	catalog   repositories.CatalogRepository
	logger    *slog.Logger
}

func NewCatalogService(processor ProcessorClient, catalog repositories.CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{processor: processor, catalog: catalog, logger: logger}
}

// PackagesWithPrices returns the active token packages, each with its active
// price points.
func (s *CatalogService) PackagesWithPrices(ctx context.Context) ([]models.PackageWithPrices, error) {
	packages, err := s.catalog.ListActivePackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	prices, err := s.catalog.ListActivePackagePrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list package prices: %w", err)
	}

	byPackage := make(map[string][]models.PackagePrice, len(packages))
	for _, p := range prices {
		byPackage[p.PackageID] = append(byPackage[p.PackageID], p)
	}

	result := make([]models.PackageWithPrices, 0, len(packages))
	for _, pkg := range packages {
		result = append(result, models.PackageWithPrices{
			Package: pkg,
			Prices:  byPackage[pkg.ID],
		})
	}
	return result, nil
}

// PlansWithPrices returns the active subscription plans, each with its
// active price points.
func (s *CatalogService) PlansWithPrices(ctx context.Context) ([]models.SubscriptionPlanWithPrices, error) {
	plans, err := s.catalog.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription plans: %w", err)
	}
	prices, err := s.catalog.ListActivePlanPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription prices: %w", err)
	}

	byPlan := make(map[string][]models.SubscriptionPrice, len(plans))
	for _, p := range prices {
		byPlan[p.SubscriptionPlanID] = append(byPlan[p.SubscriptionPlanID], p)
	}

	result := make([]models.SubscriptionPlanWithPrices, 0, len(plans))
	for _, plan := range plans {
		result = append(result, models.SubscriptionPlanWithPrices{
			Plan:   plan,
			Prices: byPlan[plan.ID],
		})
	}
	return result, nil
}

// PriceSpec describes one price point to create for a product. An empty or
// "one_time" interval creates a non-recurring price.
type PriceSpec struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
}

// ProductWithPrices pairs the processor's view of a product with its prices.
type ProductWithPrices struct {
	Product ProcessorProduct `json:"product"`
	Prices  []ProcessorPrice `json:"prices"`
}

// ProvisionProduct creates a product at the processor with its price points
// and mirrors both into the local catalog, so the new package is purchasable
// without a separate sync. Per-price mirror failures are logged and skipped;
// the processor rows are authoritative and a later sync repairs the mirror.
func (s *CatalogService) ProvisionProduct(ctx context.Context, name, description string, tokenAmount int64, prices []PriceSpec) (*ProductWithPrices, error) {
	if name == "" {
		return nil, errs.New(errs.KindValidation, "product name is required")
	}
	for _, spec := range prices {
		if spec.AmountCents <= 0 || spec.Currency == "" {
			return nil, errs.New(errs.KindValidation, "each price needs a positive amount and a currency")
		}
	}

	product, err := s.processor.CreateProduct(ctx, name, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	pkg, err := s.catalog.CreatePackage(ctx, repositories.CreatePackageParams{
		Name:            name,
		Description:     description,
		StripeProductID: product.ID,
		TokenAmount:     tokenAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mirror package for product %s: %w", product.ID, err)
	}

	result := &ProductWithPrices{Product: *product}
	for _, spec := range prices {
		price, err := s.processor.CreatePrice(ctx, CreatePriceParams{
			ProductID:  product.ID,
			UnitAmount: spec.AmountCents,
			Currency:   spec.Currency,
			Interval:   spec.Interval,
		})
		if err != nil {
			return result, fmt.Errorf("failed to create price for product %s: %w", product.ID, err)
		}
		result.Prices = append(result.Prices, *price)

		err = s.catalog.UpsertPackagePrice(ctx, repositories.UpsertPackagePriceParams{
			PackageID:     pkg.ID,
			StripePriceID: price.ID,
			AmountCents:   price.UnitAmount,
			Currency:      price.Currency,
			IntervalType:  price.Interval,
			IntervalCount: price.IntervalCount,
			IsActive:      true,
		})
		if err != nil {
			s.logError("failed to mirror package price", err, "price_id", price.ID)
		}
	}
	return result, nil
}

// ProductWithPrices returns a product and its prices straight from the
// processor, bypassing the local mirror.
func (s *CatalogService) ProductWithPrices(ctx context.Context, productID string) (*ProductWithPrices, error) {
	product, err := s.processor.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	prices, err := s.processor.ListPrices(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for product %s: %w", productID, err)
	}
	return &ProductWithPrices{Product: *product, Prices: prices}, nil
}

// SyncProcessorPrices pulls the processor's prices for a product and upserts
// them into package_prices. Per-price failures are logged and skipped;
// returns the number of prices written.
func (s *CatalogService) SyncProcessorPrices(ctx context.Context, productID string) (int, error) {
	pkg, err := s.catalog.GetPackageByProductID(ctx, productID)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return 0, errs.New(errs.KindNotFound,
				"no package mirrors product %s; record a purchase or create the package first", productID)
		}
		return 0, fmt.Errorf("failed to look up package: %w", err)
	}

	prices, err := s.processor.ListPrices(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to list processor prices: %w", err)
	}

	synced := 0
	for _, price := range prices {
		err := s.catalog.UpsertPackagePrice(ctx, repositories.UpsertPackagePriceParams{
			PackageID:     pkg.ID,
			StripePriceID: price.ID,
			AmountCents:   price.UnitAmount,
			Currency:      price.Currency,
			IntervalType:  price.Interval,
			IntervalCount: price.IntervalCount,
			IsActive:      true,
		})
		if err != nil {
			s.logError("failed to upsert package price", err, "price_id", price.ID)
			continue
		}
		synced++
	}
	return synced, nil
}

func (s *CatalogService) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append([]any{"error", err}, args...)...)
	}
}
