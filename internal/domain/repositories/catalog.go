package repositories

import (
	"context"

	"github.com/simonbeirouti/aura/internal/domain/models"
)

// CreatePackageParams describes a package row created on demand when a
// purchase references a product with no local mirror.
type CreatePackageParams struct {
	Name            string
	Description     string
	StripeProductID string
	TokenAmount     int64
	Features        []string
}

// UpsertPackagePriceParams mirrors one processor price into package_prices.
type UpsertPackagePriceParams struct {
	PackageID     string
	StripePriceID string
	AmountCents   int64
	Currency      string
	IntervalType  string
	IntervalCount int
	IsActive      bool
}

type CatalogRepository interface {
	GetPackageByProductID(ctx context.Context, stripeProductID string) (*models.Package, error)
	CreatePackage(ctx context.Context, params CreatePackageParams) (*models.Package, error)
	GetPackagePriceByPriceID(ctx context.Context, stripePriceID string) (*models.PackagePrice, error)
	UpsertPackagePrice(ctx context.Context, params UpsertPackagePriceParams) error
	ListActivePackages(ctx context.Context) ([]models.Package, error)
	ListActivePackagePrices(ctx context.Context) ([]models.PackagePrice, error)
	ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	ListActivePlanPrices(ctx context.Context) ([]models.SubscriptionPrice, error)
}
