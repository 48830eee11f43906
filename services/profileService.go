package services

import (
	"context"
	"fmt"

	"cyclesafe-be/models"
)

//go:generate mockgen -source=profileService.go -destination=mocks/profileService_mock.go -package=mocks
type ProfileStore interface {
	FindByOwner(ctx context.Context, owner string) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
}

type ProfileService struct {
	store ProfileStore
	clock Clock
}

func NewProfileService(store ProfileStore, clock Clock) *ProfileService {
	return &ProfileService{store: store, clock: clock}
}

func (s *ProfileService) Get(ctx context.Context, owner string) (*models.Profile, error) {
	profile, err := s.store.FindByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) Save(ctx context.Context, owner string, in models.ProfileInput) (*models.Profile, error) {
	if owner == "" {
		return nil, models.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	profile := in.Profile(owner, s.clock.now())
	if err := s.store.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}
