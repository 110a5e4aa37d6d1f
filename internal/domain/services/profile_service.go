package services

import (
	"context"
	"fmt"

	"github.com/simonbeirouti/aura/internal/domain/models"
	"github.com/simonbeirouti/aura/internal/domain/repositories"
	"github.com/simonbeirouti/aura/internal/errs"
)

// ProfileService is the read/write facade over the user's profile row.
type ProfileService struct {
	profiles repositories.ProfileRepository
}

func NewProfileService(profiles repositories.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

func (s *ProfileService) Create(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error) {
	return s.profiles.Create(ctx, userID, update)
}

// Update applies the non-nil fields. A username change is checked for
// availability first.
func (s *ProfileService) Update(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error) {
	if update.Username != nil && *update.Username != "" {
		current, err := s.profiles.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		if current.Username == nil || *current.Username != *update.Username {
			available, err := s.profiles.IsUsernameAvailable(ctx, *update.Username)
			if err != nil {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if !available {
				return nil, errs.New(errs.KindValidation, "username %q is taken", *update.Username)
			}
		}
	}
	return s.profiles.Update(ctx, userID, update)
}

func (s *ProfileService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, errs.New(errs.KindValidation, "username must not be empty")
	}
	return s.profiles.IsUsernameAvailable(ctx, username)
}
