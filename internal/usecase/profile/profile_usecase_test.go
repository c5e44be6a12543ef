package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/infrastructure/geocode"
	"github.com/trialmatch/backend/internal/repository/memory"
)

type fakeGeocoder struct {
	result *geocode.Result
	err    error
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (*geocode.Result, error) {
	return f.result, f.err
}

func validProfile() *domain.UserProfile {
	return &domain.UserProfile{
		FirstName:         "Jamie",
		LastName:          "Rivera",
		Age:               45,
		Gender:            domain.GenderFemale,
		Location:          "Boston, MA",
		MedicalConditions: []string{"Diabetes"},
		MaxTravelDistance: 50,
		ContactEmail:      "jamie@example.com",
	}
}

func TestGetReturnsDefaultWhenAbsent(t *testing.T) {
	uc := NewProfileUseCase(memory.NewStore().ProfileRepository(), nil)

	got := uc.Get(context.Background())
	if got == nil {
		t.Fatal("Get() = nil")
	}
	if got.MaxTravelDistance != domain.DefaultProfile().MaxTravelDistance {
		t.Errorf("default MaxTravelDistance = %v", got.MaxTravelDistance)
	}
	if got.IsComplete() {
		t.Error("default profile must not be complete")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	uc := NewProfileUseCase(memory.NewStore().ProfileRepository(), nil)
	ctx := context.Background()

	if _, err := uc.Save(ctx, validProfile()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := uc.Get(ctx)
	if got.FirstName != "Jamie" || len(got.MedicalConditions) != 1 {
		t.Fatalf("Get() after save = %+v", got)
	}
}

func TestSaveDefaultsTravelDistance(t *testing.T) {
	uc := NewProfileUseCase(memory.NewStore().ProfileRepository(), nil)

	p := validProfile()
	p.MaxTravelDistance = 0
	saved, err := uc.Save(context.Background(), p)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.MaxTravelDistance != domain.DefaultProfile().MaxTravelDistance {
		t.Errorf("MaxTravelDistance = %v, want default", saved.MaxTravelDistance)
	}
}

func TestSaveGeocodesLocation(t *testing.T) {
	geocoder := &fakeGeocoder{result: &geocode.Result{Lat: 42.3601, Lng: -71.0589}}
	uc := NewProfileUseCase(memory.NewStore().ProfileRepository(), geocoder)

	saved, err := uc.Save(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Coordinates == nil || saved.Coordinates.Lat != 42.3601 {
		t.Fatalf("Coordinates = %+v, want geocoded", saved.Coordinates)
	}
}

func TestSaveSurvivesGeocodeFailure(t *testing.T) {
	geocoder := &fakeGeocoder{err: errors.New("quota exceeded")}
	uc := NewProfileUseCase(memory.NewStore().ProfileRepository(), geocoder)

	saved, err := uc.Save(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("Save() with failing geocoder error = %v", err)
	}
	if saved.Coordinates != nil {
		t.Errorf("Coordinates = %+v, want nil after geocode failure", saved.Coordinates)
	}
}

func TestEnsureMatchable(t *testing.T) {
	uc := NewProfileUseCase(memory.NewStore().ProfileRepository(), nil)
	ctx := context.Background()

	if _, err := uc.EnsureMatchable(ctx); !errors.Is(err, domain.ErrProfileIncomplete) {
		t.Fatalf("EnsureMatchable() on empty slot: err = %v, want ErrProfileIncomplete", err)
	}

	if _, err := uc.Save(ctx, validProfile()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := uc.EnsureMatchable(ctx); err != nil {
		t.Fatalf("EnsureMatchable() on complete profile: err = %v", err)
	}

	// A complete-looking profile with an invalid email still fails.
	bad := validProfile()
	bad.ContactEmail = "not-an-email"
	if _, err := uc.Save(ctx, bad); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := uc.EnsureMatchable(ctx); !errors.Is(err, domain.ErrProfileIncomplete) {
		t.Fatalf("EnsureMatchable() with bad email: err = %v, want ErrProfileIncomplete", err)
	}
}
