package repositories

import (
	"context"

	"github.com/simonbeirouti/aura/internal/domain/models"
)

// CreateContractorParams carries the contractor row written after the
// processor Connect account exists.
type CreateContractorParams struct {
	UserID                             string
	ProfileID                          string
	ContractorType                     string
	KYCStatus                          string
	StripeConnectAccountID             string
	StripeConnectAccountStatus         string
	StripeConnectRequirementsCompleted bool
	BusinessName                       *string
	BusinessTaxID                      *string
}

// CreateContractorAddressParams is the contractor's residential address,
// persisted best-effort during onboarding.
type CreateContractorAddressParams struct {
	ContractorID   string
	AddressType    string
	StreetAddress  string
	StreetAddress2 *string
	City           string
	StateProvince  string
	PostalCode     string
	Country        string
}

type ContractorRepository interface {
	Create(ctx context.Context, params CreateContractorParams) (*models.Contractor, error)
	GetByUserID(ctx context.Context, userID string) (*models.Contractor, error)
	CreateAddress(ctx context.Context, params CreateContractorAddressParams) error
	// SaveKYCForm upserts the auto-saved onboarding form keyed by user id.
	SaveKYCForm(ctx context.Context, userID string, form models.ContractorKYCForm) error
	LoadKYCForm(ctx context.Context, userID string) (*models.ContractorKYCForm, error)
}
