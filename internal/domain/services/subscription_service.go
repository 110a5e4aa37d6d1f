package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

// SubscriptionResult is the caller-facing view of a subscription after a
// lifecycle operation.
type SubscriptionResult struct {
	SubscriptionID   string `json:"subscription_id"`
	CustomerID       string `json:"customer_id,omitempty"`
	Status           string `json:"status"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
	PriceID          string `json:"price_id,omitempty"`
}

// SyncReport summarizes a bulk status sync. Errors holds one message per
// subscription that failed to sync; the rest were updated.
type SyncReport struct {
	Synced []SubscriptionResult `json:"synced"`
	Errors []string             `json:"errors,omitempty"`
}

// SubscriptionService creates and cancels subscriptions on the processor and
// mirrors their status onto the user's profile. The processor is the source
// of truth; the mirror is advisory and refreshed by the sync operations.
type SubscriptionService struct {
	processor ProcessorClient
	profiles  repositories.ProfileRepository
	methods   repositories.PaymentMethodRepository
	logger    *slog.Logger
}

func NewSubscriptionService(
	processor ProcessorClient,
	profiles repositories.ProfileRepository,
	methods repositories.PaymentMethodRepository,
	logger *slog.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		processor: processor,
		profiles:  profiles,
		methods:   methods,
		logger:    logger,
	}
}

// Create subscribes the user to a price using their default stored payment
// method (or the most recent one when no explicit default exists). The
// profile must already carry a customer id, which Register establishes.
func (s *SubscriptionService) Create(ctx context.Context, userID, priceID string) (*SubscriptionResult, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile.StripeCustomerID == nil || *profile.StripeCustomerID == "" {
		return nil, errs.New(errs.KindNoCustomer,
			"no payment customer found for user; add a payment method first")
	}
	customerID := *profile.StripeCustomerID

	stored, err := s.methods.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored payment methods: %w", err)
	}
	method := models.DefaultPaymentMethod(stored)
	if method == nil {
		return nil, errs.New(errs.KindNoPaymentMethod,
			"no payment method on file; add a payment method first")
	}

	if err := s.ensureUsable(ctx, customerID, method.StripePaymentMethodID, userID); err != nil {
		return nil, err
	}

	sub, err := s.processor.CreateSubscription(ctx, CreateSubscriptionParams{
		CustomerID:             customerID,
		PriceID:                priceID,
		DefaultPaymentMethodID: method.StripePaymentMethodID,
		UserID:                 userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := s.mirror(ctx, userID, customerID, sub.ID, sub.Status, sub.CurrentPeriodEnd); err != nil {
		// The subscription exists on the processor; the caller can repair
		// the mirror with a sync.
		return nil, err
	}

	return &SubscriptionResult{
		SubscriptionID:   sub.ID,
		CustomerID:       customerID,
		Status:           sub.Status,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		PriceID:          priceID,
	}, nil
}

// Cancel schedules the subscription to end at the close of the current
// period. The mirror records "canceled" immediately even though the
// processor reports the subscription active until the period ends; the next
// sync reconciles the two.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID string) (*SubscriptionResult, error) {
	sub, err := s.processor.CancelSubscriptionAtPeriodEnd(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	if err := s.mirror(ctx, userID, sub.CustomerID, sub.ID, "canceled", sub.CurrentPeriodEnd); err != nil {
		return nil, err
	}

	return &SubscriptionResult{
		SubscriptionID:   sub.ID,
		CustomerID:       sub.CustomerID,
		Status:           "canceled",
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}, nil
}

// SyncStatus refreshes the profile mirror from the processor's current view
// of one subscription.
func (s *SubscriptionService) SyncStatus(ctx context.Context, userID, subscriptionID string) (*SubscriptionResult, error) {
	sub, err := s.processor.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subscription: %w", err)
	}

	if err := s.mirror(ctx, userID, sub.CustomerID, sub.ID, sub.Status, sub.CurrentPeriodEnd); err != nil {
		return nil, err
	}

	return &SubscriptionResult{
		SubscriptionID:   sub.ID,
		CustomerID:       sub.CustomerID,
		Status:           sub.Status,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}, nil
}

// SyncAll refreshes every subscription recorded on the user's profile.
// Failures are collected per subscription rather than aborting the batch.
func (s *SubscriptionService) SyncAll(ctx context.Context, userID string) (*SyncReport, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	report := &SyncReport{}
	if profile.SubscriptionID == nil || *profile.SubscriptionID == "" {
		return report, nil
	}

	result, err := s.SyncStatus(ctx, userID, *profile.SubscriptionID)
	if err != nil {
		report.Errors = append(report.Errors,
			fmt.Sprintf("subscription %s: %v", *profile.SubscriptionID, err))
		return report, nil
	}
	report.Synced = append(report.Synced, *result)
	return report, nil
}

// GetStatus reads the subscription from the processor without touching the
// local mirror.
func (s *SubscriptionService) GetStatus(ctx context.Context, subscriptionID string) (*SubscriptionResult, error) {
	sub, err := s.processor.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subscription: %w", err)
	}
	return &SubscriptionResult{
		SubscriptionID:   sub.ID,
		CustomerID:       sub.CustomerID,
		Status:           sub.Status,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}, nil
}

// ensureUsable mirrors the attach-and-default step of payment method
// registration so a subscription never starts against a detached card.
func (s *SubscriptionService) ensureUsable(ctx context.Context, customerID, paymentMethodID, userID string) error {
	pm, err := s.processor.GetPaymentMethod(ctx, paymentMethodID)
	if err != nil {
		return fmt.Errorf("failed to retrieve payment method: %w", err)
	}

	if pm.CustomerID == "" {
		if err := s.processor.AttachPaymentMethod(ctx, paymentMethodID, customerID); err != nil {
			if errs.IsKind(err, errs.KindPermanentlyUnusable) {
				if derr := s.methods.Delete(ctx, paymentMethodID, userID); derr != nil {
					s.logError("failed to remove unusable payment method record", derr,
						"payment_method_id", paymentMethodID)
				}
				return errs.Wrap(errs.KindPermanentlyUnusable, err,
					"payment method is no longer usable and has been removed; add a new payment method")
			}
			return fmt.Errorf("failed to attach payment method to customer: %w", err)
		}
	}

	if err := s.processor.SetDefaultPaymentMethod(ctx, customerID, paymentMethodID); err != nil {
		return fmt.Errorf("failed to set default payment method: %w", err)
	}
	return nil
}

func (s *SubscriptionService) mirror(ctx context.Context, userID, customerID, subscriptionID, status string, periodEnd int64) error {
	update := models.SubscriptionMirror{
		StripeCustomerID:      customerID,
		SubscriptionID:        subscriptionID,
		SubscriptionStatus:    status,
		SubscriptionPeriodEnd: periodEnd,
	}
	if err := s.profiles.UpdateSubscription(ctx, userID, update); err != nil {
		return fmt.Errorf("failed to record subscription status on profile: %w", err)
	}
	return nil
}

func (s *SubscriptionService) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append([]any{"error", err}, args...)...)
	}
}
