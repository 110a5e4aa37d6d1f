package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/errs"
)

func profileWithCustomer(userID, customerID string) *models.Profile {
	return &models.Profile{ID: userID, StripeCustomerID: &customerID}
}

func TestCreateSubscriptionRequiresCustomer(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{}
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = &models.Profile{ID: "user-1"}

	svc := NewSubscriptionService(proc, profiles, &mockMethodRepo{}, testLogger())

	_, err := svc.Create(ctx, "user-1", "price_1")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindNoCustomer))
	assert.Empty(t, proc.Calls, "no processor call before the precondition check")
}

func TestCreateSubscriptionRequiresPaymentMethod(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{}
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = profileWithCustomer("user-1", "cus_1")

	svc := NewSubscriptionService(proc, profiles, &mockMethodRepo{}, testLogger())

	_, err := svc.Create(ctx, "user-1", "price_1")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindNoPaymentMethod))
	assert.Empty(t, proc.Calls)
}

func TestCreateSubscriptionUsesDefaultMethodAndMirrorsStatus(t *testing.T) {
	ctx := context.Background()
	var subscribedWith CreateSubscriptionParams
	proc := &mockProcessor{
		CreateSubscriptionFunc: func(ctx context.Context, p CreateSubscriptionParams) (*ProcessorSubscription, error) {
			subscribedWith = p
			return &ProcessorSubscription{ID: "sub_1", CustomerID: p.CustomerID, Status: "active", CurrentPeriodEnd: 1900000000, PriceID: p.PriceID}, nil
		},
	}
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = profileWithCustomer("user-1", "cus_1")
	methods := &mockMethodRepo{}
	seedMethod(methods, "user-1", "pm_other", false)
	seedMethod(methods, "user-1", "pm_default", true)

	svc := NewSubscriptionService(proc, profiles, methods, testLogger())

	result, err := svc.Create(ctx, "user-1", "price_1")
	require.NoError(t, err)

	assert.Equal(t, "pm_default", subscribedWith.DefaultPaymentMethodID)
	assert.Equal(t, "user-1", subscribedWith.UserID, "user id rides in subscription metadata")
	assert.Equal(t, "active", result.Status)
	assert.Equal(t, int64(1900000000), result.CurrentPeriodEnd)

	profile, err := profiles.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile.SubscriptionStatus)
	assert.Equal(t, "active", *profile.SubscriptionStatus)
	require.NotNil(t, profile.SubscriptionID)
	assert.Equal(t, "sub_1", *profile.SubscriptionID)
}

func TestCreateSubscriptionReattachesDetachedDefault(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{
		GetPaymentMethodFunc: func(ctx context.Context, id string) (*ProcessorPaymentMethod, error) {
			return &ProcessorPaymentMethod{ID: id}, nil
		},
	}
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = profileWithCustomer("user-1", "cus_1")
	methods := &mockMethodRepo{}
	seedMethod(methods, "user-1", "pm_default", true)

	svc := NewSubscriptionService(proc, profiles, methods, testLogger())

	_, err := svc.Create(ctx, "user-1", "price_1")
	require.NoError(t, err)
	assert.Contains(t, proc.Calls, "AttachPaymentMethod")
	assert.Contains(t, proc.Calls, "SetDefaultPaymentMethod")
}

func TestCreateSubscriptionUnusableMethodRemovedBeforeSubscribing(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{
		GetPaymentMethodFunc: func(ctx context.Context, id string) (*ProcessorPaymentMethod, error) {
			return &ProcessorPaymentMethod{ID: id}, nil
		},
		AttachFunc: func(ctx context.Context, pmID, customerID string) error {
			return errs.New(errs.KindPermanentlyUnusable, "this payment method may not be used again")
		},
	}
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = profileWithCustomer("user-1", "cus_1")
	methods := &mockMethodRepo{}
	seedMethod(methods, "user-1", "pm_dead", true)

	svc := NewSubscriptionService(proc, profiles, methods, testLogger())

	_, err := svc.Create(ctx, "user-1", "price_1")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindPermanentlyUnusable))
	assert.NotContains(t, proc.Calls, "CreateSubscription")
	assert.Nil(t, methods.find("pm_dead"))
}

func TestCreateSubscriptionMirrorWriteFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{}
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = profileWithCustomer("user-1", "cus_1")
	profiles.UpdateSubscriptionErr = errs.New(errs.KindRemoteStore, "profiles query failed: HTTP 503")
	methods := &mockMethodRepo{}
	seedMethod(methods, "user-1", "pm_default", true)

	svc := NewSubscriptionService(proc, profiles, methods, testLogger())

	_, err := svc.Create(ctx, "user-1", "price_1")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindRemoteStore))
	assert.Contains(t, proc.Calls, "CreateSubscription", "processor-side subscription still exists")
}

func TestCancelRecordsCanceledMirrorImmediately(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{
		CancelSubscriptionFunc: func(ctx context.Context, id string) (*ProcessorSubscription, error) {
			// Processor keeps the subscription active until period end.
			return &ProcessorSubscription{ID: id, CustomerID: "cus_1", Status: "active", CurrentPeriodEnd: 1900000000, CancelAtPeriodEnd: true}, nil
		},
	}
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = profileWithCustomer("user-1", "cus_1")

	svc := NewSubscriptionService(proc, profiles, &mockMethodRepo{}, testLogger())

	result, err := svc.Cancel(ctx, "user-1", "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "canceled", result.Status)

	profile, err := profiles.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile.SubscriptionStatus)
	assert.Equal(t, "canceled", *profile.SubscriptionStatus,
		"mirror records canceled even while the processor reports active")
}

func TestSyncStatusReconcilesMirror(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{
		GetSubscriptionFunc: func(ctx context.Context, id string) (*ProcessorSubscription, error) {
			return &ProcessorSubscription{ID: id, CustomerID: "cus_1", Status: "past_due", CurrentPeriodEnd: 1900000123}, nil
		},
	}
	profiles := newMockProfileRepo()
	canceled := "canceled"
	subID := "sub_1"
	profiles.profiles["user-1"] = &models.Profile{ID: "user-1", SubscriptionID: &subID, SubscriptionStatus: &canceled}

	svc := NewSubscriptionService(proc, profiles, &mockMethodRepo{}, testLogger())

	result, err := svc.SyncStatus(ctx, "user-1", "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "past_due", result.Status)

	profile, err := profiles.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "past_due", *profile.SubscriptionStatus)
	assert.Equal(t, int64(1900000123), *profile.SubscriptionPeriodEnd)
}

func TestSyncAllCollectsErrorsWithoutAborting(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{
		GetSubscriptionFunc: func(ctx context.Context, id string) (*ProcessorSubscription, error) {
			return nil, errs.New(errs.KindProcessorLookup, "no such subscription")
		},
	}
	profiles := newMockProfileRepo()
	subID := "sub_gone"
	profiles.profiles["user-1"] = &models.Profile{ID: "user-1", SubscriptionID: &subID}

	svc := NewSubscriptionService(proc, profiles, &mockMethodRepo{}, testLogger())

	report, err := svc.SyncAll(ctx, "user-1")
	require.NoError(t, err, "per-subscription failures do not fail the batch")
	assert.Empty(t, report.Synced)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "sub_gone")
}

func TestSyncAllNoSubscriptionIsEmptyReport(t *testing.T) {
	ctx := context.Background()
	profiles := newMockProfileRepo()
	profiles.profiles["user-1"] = &models.Profile{ID: "user-1"}

	svc := NewSubscriptionService(&mockProcessor{}, profiles, &mockMethodRepo{}, testLogger())

	report, err := svc.SyncAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, report.Synced)
	assert.Empty(t, report.Errors)
}

func TestGetStatusDoesNotTouchMirror(t *testing.T) {
	ctx := context.Background()
	proc := &mockProcessor{}
	profiles := newMockProfileRepo()

	svc := NewSubscriptionService(proc, profiles, &mockMethodRepo{}, testLogger())

	result, err := svc.GetStatus(ctx, "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "active", result.Status)
	assert.NotContains(t, profiles.Calls, "UpdateSubscription")
}
