package profile

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/infrastructure/geocode"
	"github.com/trialmatch/backend/internal/repository"
)

// Geocoder resolves the profile's free-text location. May be nil when no
// API key is configured; matching then runs in degraded mode.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocode.Result, error)
}

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	geocoder    Geocoder
	validate    *validator.Validate
}

func NewProfileUseCase(profileRepo repository.ProfileRepository, geocoder Geocoder) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		geocoder:    geocoder,
		validate:    validator.New(),
	}
}

// Get returns the stored profile. An absent or unreadable slot yields
// the default empty profile; persistence corruption is never fatal here.
func (uc *ProfileUseCase) Get(ctx context.Context) *domain.UserProfile {
	stored, err := uc.profileRepo.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			log.Printf("profile: failed to load, using defaults: %v", err)
		}
		return domain.DefaultProfile()
	}
	return stored
}

// Save persists the whole profile snapshot, geocoding its location on a
// best-effort basis first. Partial profiles are savable; completeness is
// only enforced when matching starts.
func (uc *ProfileUseCase) Save(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if profile.MaxTravelDistance <= 0 {
		profile.MaxTravelDistance = domain.DefaultProfile().MaxTravelDistance
	}

	if profile.Location != "" && uc.geocoder != nil {
		result, err := uc.geocoder.Geocode(ctx, profile.Location)
		if err != nil {
			log.Printf("profile: geocoding %q failed, matching will degrade: %v", profile.Location, err)
			profile.Coordinates = nil
		} else {
			profile.Coordinates = &domain.Coordinates{Lat: result.Lat, Lng: result.Lng}
		}
	}

	if err := uc.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// EnsureMatchable loads the profile and verifies it can drive matching.
// Returns domain.ErrProfileIncomplete when required fields are missing.
func (uc *ProfileUseCase) EnsureMatchable(ctx context.Context) (*domain.UserProfile, error) {
	profile := uc.Get(ctx)

	if !profile.IsComplete() {
		return nil, domain.ErrProfileIncomplete
	}
	if err := uc.validate.Struct(profile); err != nil {
		log.Printf("profile: failed validation: %v", err)
		return nil, domain.ErrProfileIncomplete
	}
	return profile, nil
}
