package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

// ContractorService onboards payout-eligible users: it creates the processor
// Connect account, records the contractor locally, and keeps the auto-saved
// KYC form between sessions.
type ContractorService struct {
	processor   ProcessorClient
	contractors repositories.ContractorRepository
	profiles    repositories.ProfileRepository
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewContractorService(
	processor ProcessorClient,
	contractors repositories.ContractorRepository,
	profiles repositories.ProfileRepository,
	logger *slog.Logger,
) *ContractorService {
	return &ContractorService{
		processor:   processor,
		contractors: contractors,
		profiles:    profiles,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Onboard creates the Connect account and the contractor row. The address
// and the contractor flags on the profile are written best-effort; the
// contractor exists once the row insert succeeds.
func (s *ContractorService) Onboard(ctx context.Context, userID string, form models.ContractorKYCForm) (*models.Contractor, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, errs.Wrap(errs.KindValidation, err, "contractor form is invalid")
	}

	if _, err := s.profiles.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	account, err := s.processor.CreateConnectAccount(ctx, CreateConnectAccountParams{
		UserID:         userID,
		ContractorType: form.ContractorType,
		Email:          form.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create connected account: %w", err)
	}

	contractor, err := s.contractors.Create(ctx, repositories.CreateContractorParams{
		UserID:                             userID,
		ProfileID:                          userID,
		ContractorType:                     form.ContractorType,
		KYCStatus:                          "pending",
		StripeConnectAccountID:             account.ID,
		StripeConnectAccountStatus:         "pending",
		StripeConnectRequirementsCompleted: account.RequirementsCompleted,
		BusinessName:                       form.BusinessName,
		BusinessTaxID:                      form.BusinessTaxID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create contractor record: %w", err)
	}

	if form.Address != nil {
		addr := form.Address
		err := s.contractors.CreateAddress(ctx, repositories.CreateContractorAddressParams{
			ContractorID:   contractor.ID,
			AddressType:    "residential",
			StreetAddress:  addr.Line1,
			StreetAddress2: addr.Line2,
			City:           addr.City,
			StateProvince:  addr.State,
			PostalCode:     addr.PostalCode,
			Country:        addr.Country,
		})
		if err != nil {
			s.logError("failed to save contractor address", err, "contractor_id", contractor.ID)
		}
	}

	if err := s.profiles.MarkContractor(ctx, userID, contractor.ID); err != nil {
		s.logError("failed to flag profile as contractor", err, "user_id", userID)
	}

	return contractor, nil
}

// Get returns the user's contractor record.
func (s *ContractorService) Get(ctx context.Context, userID string) (*models.Contractor, error) {
	return s.contractors.GetByUserID(ctx, userID)
}

// SaveKYCForm validates and upserts the in-progress onboarding form so the
// user can resume where they left off.
func (s *ContractorService) SaveKYCForm(ctx context.Context, userID string, form models.ContractorKYCForm) error {
	if err := s.validate.Struct(form); err != nil {
		return errs.Wrap(errs.KindValidation, err, "contractor form is invalid")
	}
	return s.contractors.SaveKYCForm(ctx, userID, form)
}

// LoadKYCForm returns the saved onboarding form, or a not-found error when
// the user never started one.
func (s *ContractorService) LoadKYCForm(ctx context.Context, userID string) (*models.ContractorKYCForm, error) {
	return s.contractors.LoadKYCForm(ctx, userID)
}

func (s *ContractorService) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append([]any{"error", err}, args...)...)
	}
}
