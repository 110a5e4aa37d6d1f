package repositories

import (
	"context"

	"github.com/simonbeirouti/aura/internal/domain/models"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, userID string) (*models.Profile, error)
	Create(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error)
	Update(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error)
	// SetCustomerID records the processor customer reference on the profile.
	SetCustomerID(ctx context.Context, userID, customerID string) error
	// UpdateSubscription overwrites the local subscription mirror.
	UpdateSubscription(ctx context.Context, userID string, mirror models.SubscriptionMirror) error
	// MarkContractor flags the profile as a contractor.
	MarkContractor(ctx context.Context, profileID, contractorID string) error
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
}
