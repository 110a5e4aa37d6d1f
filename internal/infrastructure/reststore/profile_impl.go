package reststore

import (
	"context"
	"fmt"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

type profileRepository struct {
	client *Client
}

func NewProfileRepository(client *Client) repositories.ProfileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	var rows []models.Profile
	q := NewQuery().Eq("id", userID).Select("*")
	if err := r.client.Get(ctx, "profiles", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindNotFound, "profile not found for user %s", userID)
	}
	return &rows[0], nil
}

func (r *profileRepository) Create(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error) {
	payload := map[string]any{"id": userID}
	applyProfileUpdate(payload, update)

	var rows []models.Profile
	if err := r.client.Insert(ctx, "profiles", payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindRemoteStore, "profile insert returned no row")
	}
	return &rows[0], nil
}

func (r *profileRepository) Update(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error) {
	payload := map[string]any{}
	applyProfileUpdate(payload, update)
	if len(payload) == 0 {
		return r.GetByID(ctx, userID)
	}

	var rows []models.Profile
	q := NewQuery().Eq("id", userID)
	if err := r.client.Update(ctx, "profiles", q, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.KindNotFound, "profile not found for user %s", userID)
	}
	return &rows[0], nil
}

func (r *profileRepository) SetCustomerID(ctx context.Context, userID, customerID string) error {
	q := NewQuery().Eq("id", userID)
	payload := map[string]any{"stripe_customer_id": customerID}
	return r.client.Update(ctx, "profiles", q, payload, nil)
}

func (r *profileRepository) UpdateSubscription(ctx context.Context, userID string, mirror models.SubscriptionMirror) error {
	q := NewQuery().Eq("id", userID)
	payload := map[string]any{
		"stripe_customer_id":      mirror.StripeCustomerID,
		"subscription_id":         mirror.SubscriptionID,
		"subscription_status":     mirror.SubscriptionStatus,
		"subscription_period_end": mirror.SubscriptionPeriodEnd,
	}
	return r.client.Update(ctx, "profiles", q, payload, nil)
}

func (r *profileRepository) MarkContractor(ctx context.Context, profileID, contractorID string) error {
	q := NewQuery().Eq("id", profileID)
	payload := map[string]any{
		"is_contractor": true,
		"contractor_id": contractorID,
	}
	return r.client.Update(ctx, "profiles", q, payload, nil)
}

func (r *profileRepository) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	q := NewQuery().Eq("username", username).Select("id").Limit(1)
	if err := r.client.Get(ctx, "profiles", q, &rows); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return len(rows) == 0, nil
}

func applyProfileUpdate(payload map[string]any, update models.ProfileUpdate) {
	if update.Username != nil {
		payload["username"] = *update.Username
	}
	if update.FullName != nil {
		payload["full_name"] = *update.FullName
	}
	if update.AvatarURL != nil {
		payload["avatar_url"] = *update.AvatarURL
	}
	if update.OnboardingComplete != nil {
		payload["onboarding_complete"] = *update.OnboardingComplete
	}
}
