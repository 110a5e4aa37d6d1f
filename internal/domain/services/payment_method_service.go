package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

// PaymentMethodService keeps payment methods consistent between the
// processor and the local store: attached to the right customer, at most one
// active default per user, card metadata mirrored locally.
//
// Operations are safe to re-run after partial failure; attach and
// set-default are idempotent on the processor side.
type PaymentMethodService struct {
	processor ProcessorClient
	methods   repositories.PaymentMethodRepository
	profiles  repositories.ProfileRepository
	logger    *slog.Logger
}

func NewPaymentMethodService(
	processor ProcessorClient,
	methods repositories.PaymentMethodRepository,
	profiles repositories.ProfileRepository,
	logger *slog.Logger,
) *PaymentMethodService {
	return &PaymentMethodService{
		processor: processor,
		methods:   methods,
		profiles:  profiles,
		logger:    logger,
	}
}

// Register persists a payment method after the client confirmed its setup
// intent. It attaches the method to the customer when the processor reports
// it unattached, resolves the default flag (explicitly requested, or first
// stored method), and stores card metadata only.
func (s *PaymentMethodService) Register(ctx context.Context, customerID, paymentMethodID, userID string, isDefault *bool) (*models.PaymentMethod, error) {
	pm, err := s.processor.GetPaymentMethod(ctx, paymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment method: %w", err)
	}

	if pm.CustomerID == "" {
		if err := s.attach(ctx, paymentMethodID, customerID, userID); err != nil {
			return nil, err
		}
	}

	existing, err := s.methods.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored payment methods: %w", err)
	}

	shouldBeDefault := (isDefault != nil && *isDefault) || len(activeMethods(existing)) == 0
	if shouldBeDefault {
		// Best-effort: a leftover second default self-heals on the next
		// read via the tie-break order.
		if err := s.methods.UnsetDefaults(ctx, userID); err != nil {
			s.logError("failed to unset existing default payment methods", err, "user_id", userID)
		}
		if err := s.processor.SetDefaultPaymentMethod(ctx, customerID, paymentMethodID); err != nil {
			return nil, fmt.Errorf("failed to set default payment method: %w", err)
		}
	}

	record, err := s.methods.Create(ctx, repositories.CreatePaymentMethodParams{
		UserID:                userID,
		StripeCustomerID:      customerID,
		StripePaymentMethodID: paymentMethodID,
		CardBrand:             pm.CardBrand,
		CardLast4:             pm.CardLast4,
		CardExpMonth:          pm.CardExpMonth,
		CardExpYear:           pm.CardExpYear,
		IsDefault:             shouldBeDefault,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store payment method: %w", err)
	}

	// Record the customer reference on the profile so the user can
	// subscribe. Best-effort: registration already succeeded.
	if err := s.profiles.SetCustomerID(ctx, userID, customerID); err != nil {
		s.logError("failed to record customer id on profile", err, "user_id", userID)
	}

	return record, nil
}

// SetDefault makes the method the default in both systems. The processor is
// updated first; the local flag follows, so a failure in between leaves the
// processor authoritative and the next sync or read repairs the mirror.
func (s *PaymentMethodService) SetDefault(ctx context.Context, customerID, paymentMethodID, userID string) error {
	pm, err := s.processor.GetPaymentMethod(ctx, paymentMethodID)
	if err != nil {
		return fmt.Errorf("failed to retrieve payment method: %w", err)
	}

	switch {
	case pm.CustomerID == "":
		if err := s.attach(ctx, paymentMethodID, customerID, userID); err != nil {
			return err
		}
	case pm.CustomerID != customerID:
		return errs.New(errs.KindProcessorOperation,
			"payment method %s is not attached to customer %s", paymentMethodID, customerID)
	}

	if err := s.processor.SetDefaultPaymentMethod(ctx, customerID, paymentMethodID); err != nil {
		return fmt.Errorf("failed to set default payment method: %w", err)
	}

	if err := s.methods.UnsetDefaults(ctx, userID); err != nil {
		s.logError("failed to unset existing default payment methods", err, "user_id", userID)
	}
	isDefault := true
	if _, err := s.methods.SetFlags(ctx, paymentMethodID, userID, &isDefault, nil); err != nil {
		return fmt.Errorf("failed to update stored payment method: %w", err)
	}
	return nil
}

// Remove detaches the method from the processor and deactivates it locally.
// A method the processor already considers detached is treated as removed.
// When exactly one active method remains it is promoted to default.
func (s *PaymentMethodService) Remove(ctx context.Context, paymentMethodID, userID string) error {
	if err := s.processor.DetachPaymentMethod(ctx, paymentMethodID); err != nil {
		if !errs.IsKind(err, errs.KindAlreadyDetached) {
			return fmt.Errorf("failed to detach payment method: %w", err)
		}
	}

	inactive, noDefault := false, false
	if _, err := s.methods.SetFlags(ctx, paymentMethodID, userID, &noDefault, &inactive); err != nil {
		return fmt.Errorf("failed to deactivate stored payment method: %w", err)
	}

	return s.promoteSoleMethod(ctx, userID)
}

// List returns the user's stored methods in tie-break order: explicit
// default first, then most recently created.
func (s *PaymentMethodService) List(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	return s.methods.ListByUser(ctx, userID)
}

// ListProcessorMethods returns the card methods attached to the customer at
// the processor, bypassing the local mirror. Comparing it against List shows
// the drift RepairAttachments would fix.
func (s *PaymentMethodService) ListProcessorMethods(ctx context.Context, customerID string) ([]ProcessorPaymentMethod, error) {
	methods, err := s.processor.ListPaymentMethods(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list processor payment methods: %w", err)
	}
	return methods, nil
}

// MarkUsed stamps last_used_at after a charge with a stored method.
func (s *PaymentMethodService) MarkUsed(ctx context.Context, paymentMethodID, userID string) error {
	return s.methods.MarkUsed(ctx, paymentMethodID, userID)
}

// RepairAttachments re-attaches stored methods the processor reports as
// unattached, restoring the default flag where the local record carries it.
// Returns the number of methods fixed. Individual failures are skipped.
func (s *PaymentMethodService) RepairAttachments(ctx context.Context, customerID, userID string) (int, error) {
	stored, err := s.methods.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list stored payment methods: %w", err)
	}

	fixed := 0
	for _, record := range stored {
		pm, err := s.processor.GetPaymentMethod(ctx, record.StripePaymentMethodID)
		if err != nil {
			continue
		}
		if pm.CustomerID != "" {
			continue
		}
		if err := s.processor.AttachPaymentMethod(ctx, record.StripePaymentMethodID, customerID); err != nil {
			s.logError("failed to re-attach payment method", err,
				"payment_method_id", record.StripePaymentMethodID)
			continue
		}
		fixed++
		if record.IsDefault {
			if err := s.processor.SetDefaultPaymentMethod(ctx, customerID, record.StripePaymentMethodID); err != nil {
				s.logError("failed to restore default payment method", err,
					"payment_method_id", record.StripePaymentMethodID)
			}
		}
	}
	return fixed, nil
}

// GetOrCreateCustomer looks a customer up by email and creates one when
// absent. The processor never deletes customers, so repeated calls converge
// on the same id.
func (s *PaymentMethodService) GetOrCreateCustomer(ctx context.Context, email, name, userID string) (*ProcessorCustomer, error) {
	customer, err := s.processor.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to search for customer: %w", err)
	}
	if customer != nil {
		return customer, nil
	}

	metadata := map[string]string{}
	if userID != "" {
		metadata["user_id"] = userID
	}
	customer, err = s.processor.CreateCustomer(ctx, email, name, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// CreateSetupIntent starts the client-driven flow to collect a new card.
// The method itself is attached later via Register, after the client
// confirms the intent.
func (s *PaymentMethodService) CreateSetupIntent(ctx context.Context, customerID string) (*ProcessorSetupIntent, error) {
	return s.processor.CreateSetupIntent(ctx, customerID)
}

// attach attaches an unattached method, translating the processor's
// permanently-unusable signal into local cleanup.
func (s *PaymentMethodService) attach(ctx context.Context, paymentMethodID, customerID, userID string) error {
	err := s.processor.AttachPaymentMethod(ctx, paymentMethodID, customerID)
	if err == nil {
		return nil
	}
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

// promoteSoleMethod makes the last remaining active method the default.
func (s *PaymentMethodService) promoteSoleMethod(ctx context.Context, userID string) error {
	stored, err := s.methods.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list stored payment methods: %w", err)
	}
	active := activeMethods(stored)
	if len(active) != 1 || active[0].IsDefault {
		return nil
	}

	isDefault := true
	if _, err := s.methods.SetFlags(ctx, active[0].StripePaymentMethodID, userID, &isDefault, nil); err != nil {
		s.logError("failed to promote remaining payment method to default", err,
			"payment_method_id", active[0].StripePaymentMethodID)
	}
	return nil
}

func activeMethods(methods []models.PaymentMethod) []models.PaymentMethod {
	var active []models.PaymentMethod
	for _, m := range methods {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active
}

func (s *PaymentMethodService) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append([]any{"error", err}, args...)...)
	}
}
