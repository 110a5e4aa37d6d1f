package reststore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

type contractorRepository struct {
	client *Client
}

func NewContractorRepository(client *Client) repositories.ContractorRepository {
	return &contractorRepository{client: client}
}

func (r *contractorRepository) Create(ctx context.Context, params repositories.CreateContractorParams) (*models.Contractor, error) {
	payload := map[string]any{
		"user_id":                               params.UserID,
		"profile_id":                            params.ProfileID,
		"contractor_type":                       params.ContractorType,
		"kyc_status":                            params.KYCStatus,
		"is_active":                             true,
		"stripe_connect_account_id":             params.StripeConnectAccountID,
		"stripe_connect_account_status":         params.StripeConnectAccountStatus,
		"stripe_connect_requirements_completed": params.StripeConnectRequirementsCompleted,
	}
	if params.BusinessName != nil {
		payload["business_name"] = *params.BusinessName
	}
	if params.BusinessTaxID != nil {
		payload["business_tax_id"] = *params.BusinessTaxID
	}

	var rows []models.Contractor
	if err := r.client.Insert(ctx, "contractors", payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindRemoteStore, "contractor insert returned no row")
	}
	return &rows[0], nil
}

func (r *contractorRepository) GetByUserID(ctx context.Context, userID string) (*models.Contractor, error) {
	var rows []models.Contractor
	q := NewQuery().Eq("user_id", userID).Select("*").Limit(1)
	if err := r.client.Get(ctx, "contractors", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindNotFound, "no contractor record for user %s", userID)
	}
	return &rows[0], nil
}

func (r *contractorRepository) CreateAddress(ctx context.Context, params repositories.CreateContractorAddressParams) error {
	payload := map[string]any{
		"contractor_id":  params.ContractorID,
		"address_type":   params.AddressType,
		"street_address": params.StreetAddress,
		"city":           params.City,
		"state_province": params.StateProvince,
		"postal_code":    params.PostalCode,
		"country":        params.Country,
	}
	if params.StreetAddress2 != nil {
		payload["street_address_2"] = *params.StreetAddress2
	}
	return r.client.Insert(ctx, "contractor_addresses", payload, nil)
}

// SaveKYCForm upserts the serialized form keyed by user_id so auto-save
// overwrites rather than accumulates.
func (r *contractorRepository) SaveKYCForm(ctx context.Context, userID string, form models.ContractorKYCForm) error {
	raw, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to encode contractor form: %w", err)
	}

	payload := map[string]any{
		"user_id":    userID,
		"form_data":  json.RawMessage(raw),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	q := NewQuery().OnConflict("user_id")
	return r.client.Upsert(ctx, "contractor_kyc_form_data", q, payload, nil)
}

func (r *contractorRepository) LoadKYCForm(ctx context.Context, userID string) (*models.ContractorKYCForm, error) {
	var rows []struct {
		FormData json.RawMessage `json:"form_data"`
	}
	q := NewQuery().Eq("user_id", userID).Select("form_data").Limit(1)
	if err := r.client.Get(ctx, "contractor_kyc_form_data", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindNotFound, "no saved contractor form for user %s", userID)
	}

	var form models.ContractorKYCForm
	if err := json.Unmarshal(rows[0].FormData, &form); err != nil {
		return nil, fmt.Errorf("failed to decode contractor form: %w", err)
	}
	return &form, nil
}
