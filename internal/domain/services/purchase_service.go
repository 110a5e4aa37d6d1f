package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

// Package rows created on demand carry placeholder catalog content until an
// operator curates them.
const (
	defaultPackageName        = "Token Packages"
	defaultPackageDescription = "Flexible token packages with bulk discounts"
	defaultPackageTokenAmount = 100
)

var defaultPackageFeatures = []string{
	"Flexible token amounts",
	"Bulk discounts available",
	"No expiration",
}

// PaymentIntentResult is returned to clients that drive confirmation
// themselves; ClientSecret is consumed by the processor's client SDK.
type PaymentIntentResult struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// PurchaseService turns succeeded payment intents into durable purchase rows
// and keeps the local package catalog consistent with the processor's
// products and prices.
type PurchaseService struct {
	processor ProcessorClient
	purchases repositories.PurchaseRepository
	catalog   repositories.CatalogRepository
	profiles  repositories.ProfileRepository
	methods   repositories.PaymentMethodRepository
	logger    *slog.Logger

	// verifyDelay gives backend triggers time to credit token balances
	// before the advisory post-purchase read.
	verifyDelay time.Duration
}

func NewPurchaseService(
	processor ProcessorClient,
	purchases repositories.PurchaseRepository,
	catalog repositories.CatalogRepository,
	profiles repositories.ProfileRepository,
	methods repositories.PaymentMethodRepository,
	logger *slog.Logger,
) *PurchaseService {
	return &PurchaseService{
		processor:   processor,
		purchases:   purchases,
		catalog:     catalog,
		profiles:    profiles,
		methods:     methods,
		logger:      logger,
		verifyDelay: 100 * time.Millisecond,
	}
}

// CompletePurchase verifies a payment intent succeeded and records the
// purchase. The price id is read from the intent's metadata; intents created
// outside this service fall back to the unknown-price sentinel.
func (s *PurchaseService) CompletePurchase(ctx context.Context, userID, paymentIntentID string) (*models.Purchase, error) {
	intent, err := s.processor.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}
	if intent.Status != PaymentIntentStatusSucceeded {
		return nil, errs.New(errs.KindPaymentNotSucceeded,
			"payment not successful: status is %s", intent.Status)
	}

	priceID := intent.Metadata["price_id"]
	if priceID == "" {
		priceID = models.UnknownPriceSentinel
	}

	return s.RecordPurchase(ctx, userID, paymentIntentID, priceID, intent.Amount, intent.Currency)
}

// RecordPurchase writes the durable purchase row for a succeeded payment
// intent. Re-recording the same intent returns the existing row, so retries
// after a lost response never double-credit tokens.
func (s *PurchaseService) RecordPurchase(ctx context.Context, userID, paymentIntentID, priceID string, amountPaid int64, currency string) (*models.Purchase, error) {
	existing, err := s.purchases.GetByPaymentIntentID(ctx, paymentIntentID)
	if err == nil {
		return existing, nil
	}
	if !errs.IsKind(err, errs.KindNotFound) {
		return nil, fmt.Errorf("failed to check for existing purchase: %w", err)
	}

	price, err := s.processor.GetPrice(ctx, priceID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve price: %w", err)
	}

	pkg, err := s.ensurePackage(ctx, price.ProductID)
	if err != nil {
		return nil, err
	}

	tokens := tokenAmountForPrice(amountPaid)
	var packagePriceID *string
	if pp, err := s.catalog.GetPackagePriceByPriceID(ctx, priceID); err == nil {
		packagePriceID = &pp.ID
		if pp.TokenAmount > 0 {
			tokens = pp.TokenAmount
		}
	} else if !errs.IsKind(err, errs.KindNotFound) {
		return nil, fmt.Errorf("failed to look up package price: %w", err)
	}

	purchase, err := s.purchases.Create(ctx, repositories.CreatePurchaseParams{
		UserID:                userID,
		StripePaymentIntentID: paymentIntentID,
		StripePriceID:         priceID,
		StripeProductID:       price.ProductID,
		PackageID:             pkg.ID,
		PackagePriceID:        packagePriceID,
		AmountPaid:            amountPaid,
		Currency:              currency,
		TokensPurchased:       tokens,
		Status:                models.PurchaseStatusCompleted,
		CompletedAt:           time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	s.verifyTokenCredit(ctx, userID, tokens)

	return purchase, nil
}

// CreatePaymentIntent opens a client-confirmed payment for a token package.
// The price id rides in metadata so completion can attribute the purchase.
func (s *PurchaseService) CreatePaymentIntent(ctx context.Context, amount int64, currency, customerID, priceID string) (*PaymentIntentResult, error) {
	metadata := map[string]string{}
	if priceID != "" {
		metadata["price_id"] = priceID
	}
	intent, err := s.processor.CreatePaymentIntent(ctx, CreatePaymentIntentParams{
		Amount:     amount,
		Currency:   currency,
		CustomerID: customerID,
		Metadata:   metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return paymentIntentResult(intent), nil
}

// ChargeStoredMethod creates and confirms a payment intent against a stored
// payment method in one call, then stamps the method's last use.
func (s *PurchaseService) ChargeStoredMethod(ctx context.Context, userID string, amount int64, currency, paymentMethodID, priceID string) (*PaymentIntentResult, error) {
	stored, err := s.methods.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored payment methods: %w", err)
	}
	var record *models.PaymentMethod
	for i := range stored {
		if stored[i].StripePaymentMethodID == paymentMethodID && stored[i].IsActive {
			record = &stored[i]
			break
		}
	}
	if record == nil {
		return nil, errs.New(errs.KindNotFound, "payment method not found for user")
	}

	metadata := map[string]string{}
	if priceID != "" {
		metadata["price_id"] = priceID
	}
	intent, err := s.processor.CreatePaymentIntent(ctx, CreatePaymentIntentParams{
		Amount:          amount,
		Currency:        currency,
		CustomerID:      record.StripeCustomerID,
		PaymentMethodID: paymentMethodID,
		Confirm:         true,
		Metadata:        metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to charge stored payment method: %w", err)
	}

	if err := s.methods.MarkUsed(ctx, paymentMethodID, userID); err != nil {
		s.logError("failed to mark payment method used", err, "payment_method_id", paymentMethodID)
	}

	return paymentIntentResult(intent), nil
}

// VerifyPaymentIntent reports the processor's current view of an intent
// without side effects.
func (s *PurchaseService) VerifyPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntentResult, error) {
	intent, err := s.processor.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}
	return paymentIntentResult(intent), nil
}

// ListPurchases returns the user's completed purchases, newest first.
func (s *PurchaseService) ListPurchases(ctx context.Context, userID string) ([]models.Purchase, error) {
	return s.purchases.ListCompletedByUser(ctx, userID)
}

// ensurePackage returns the catalog package mirroring the product, creating
// a placeholder row when the product has never been seen locally.
func (s *PurchaseService) ensurePackage(ctx context.Context, productID string) (*models.Package, error) {
	pkg, err := s.catalog.GetPackageByProductID(ctx, productID)
	if err == nil {
		return pkg, nil
	}
	if !errs.IsKind(err, errs.KindNotFound) {
		return nil, fmt.Errorf("failed to look up package: %w", err)
	}

	pkg, err = s.catalog.CreatePackage(ctx, repositories.CreatePackageParams{
		Name:            defaultPackageName,
		Description:     defaultPackageDescription,
		StripeProductID: productID,
		TokenAmount:     defaultPackageTokenAmount,
		Features:        defaultPackageFeatures,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	return pkg, nil
}

// verifyTokenCredit re-reads the profile after a short delay and logs the
// balances the backend triggers produced. Advisory only.
func (s *PurchaseService) verifyTokenCredit(ctx context.Context, userID string, tokens int64) {
	if s.verifyDelay > 0 {
		select {
		case <-time.After(s.verifyDelay):
		case <-ctx.Done():
			return
		}
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		s.logError("failed to verify token credit after purchase", err, "user_id", userID)
		return
	}
	if s.logger != nil {
		s.logger.Info("purchase recorded",
			"user_id", userID,
			"tokens_purchased", tokens,
			"total_tokens", int64Value(profile.TotalTokens),
			"tokens_remaining", int64Value(profile.TokensRemaining))
	}
}

// tokenAmountForPrice maps a charge amount in cents to its token grant.
// Unrecognized amounts fall back to the smallest grant.
func tokenAmountForPrice(amountCents int64) int64 {
	switch amountCents {
	case 149:
		return 100
	case 749:
		return 500
	case 1499:
		return 1000
	case 3099:
		return 5000
	case 6299:
		return 25000
	case 15999:
		return 100000
	default:
		return 100
	}
}

func paymentIntentResult(intent *ProcessorPaymentIntent) *PaymentIntentResult {
	return &PaymentIntentResult{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       intent.Status,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	}
}

func int64Value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func (s *PurchaseService) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append([]any{"error", err}, args...)...)
	}
}
