package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/errs"
)

func validForm() models.ContractorKYCForm {
	first := "Ana"
	return models.ContractorKYCForm{
		ContractorType: "individual",
		Email:          "ana@example.com",
		FirstName:      &first,
		Address: &models.ContractorAddress{
			Line1:      "1 Main St",
			City:       "Sydney",
			State:      "NSW",
			PostalCode: "2000",
			Country:    "AU",
		},
	}
}

func TestOnboardRejectsInvalidForm(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{}
	svc := NewContractorService(proc, newMockContractorRepo(), newMockProfileRepo(), testLogger())

	form := validForm()
	form.ContractorType = "charity"

	_, err := svc.Onboard(ctx, "user-1", form)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
	assert.Empty(t, proc.Calls, "no connected account for an invalid form")
}

func TestOnboardCreatesAccountAndContractor(t *testing.T) {
	ctx := context.Background()
	var accountParams CreateConnectAccountParams
	proc := &mockProcessor{
		CreateConnectFunc: func(ctx context.Context, p CreateConnectAccountParams) (*ProcessorConnectAccount, error) {
			accountParams = p
			return &ProcessorConnectAccount{ID: "acct_1"}, nil
		},
	}
	contractors := newMockContractorRepo()
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = &models.Profile{ID: "user-1"}

	svc := NewContractorService(proc, contractors, profiles, testLogger())

	contractor, err := svc.Onboard(ctx, "user-1", validForm())
	require.NoError(t, err)

	assert.Equal(t, "individual", accountParams.ContractorType)
	assert.Equal(t, "ana@example.com", accountParams.Email)
	require.NotNil(t, contractor.StripeConnectAccountID)
	assert.Equal(t, "acct_1", *contractor.StripeConnectAccountID)
	require.Len(t, contractors.addresses, 1)
	assert.Equal(t, "residential", contractors.addresses[0].AddressType)
	assert.Contains(t, profiles.Calls, "MarkContractor")
}

func TestOnboardSurvivesAddressFailure(t *testing.T) {
	ctx := context.Background()
	contractors := newMockContractorRepo()
	contractors.AddressErr = errs.New(errs.KindRemoteStore, "contractor_addresses query failed: HTTP 500")
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = &models.Profile{ID: "user-1"}

	svc := NewContractorService(&mockProcessor{}, contractors, profiles, testLogger())

	contractor, err := svc.Onboard(ctx, "user-1", validForm())
	require.NoError(t, err, "address write is best-effort")
	assert.NotNil(t, contractor)
}

func TestKYCFormRoundTrip(t *testing.T) {
	ctx := context.Background()
	contractors := newMockContractorRepo()
	svc := NewContractorService(&mockProcessor{}, contractors, newMockProfileRepo(), testLogger())

	require.NoError(t, svc.SaveKYCForm(ctx, "user-1", validForm()))

	loaded, err := svc.LoadKYCForm(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", loaded.Email)

	_, err = svc.LoadKYCForm(ctx, "user-2")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestSaveKYCFormValidatesBankAccount(t *testing.T) {
	ctx := context.Background()
	svc := NewContractorService(&mockProcessor{}, newMockContractorRepo(), newMockProfileRepo(), testLogger())

	form := validForm()
	form.BankAccount = &models.ContractorBankAccount{
		AccountHolderName: "Ana",
		AccountNumber:     "123",
		RoutingNumber:     "456",
		BankName:          "Bank",
		AccountType:       "crypto",
	}

	err := svc.SaveKYCForm(ctx, "user-1", form)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}
