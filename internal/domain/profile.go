package domain

import "strings"

// Gender values accepted on a profile.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Coordinates is a geocoded point attached to a profile.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UserProfile is the single-slot health profile driving trial matching.
// It is persisted as a whole snapshot and overwritten on every save.
type UserProfile struct {
	ID                    string       `json:"id,omitempty"`
	FirstName             string       `json:"first_name" validate:"required"`
	LastName              string       `json:"last_name" validate:"required"`
	Age                   int          `json:"age" validate:"gt=0"`
	Gender                string       `json:"gender" validate:"oneof=Male Female Other"`
	Location              string       `json:"location" validate:"required"`
	Coordinates           *Coordinates `json:"coordinates,omitempty"`
	MedicalConditions     []string     `json:"medical_conditions" validate:"min=1"`
	Allergies             []string     `json:"allergies"`
	Medications           []string     `json:"medications"`
	MaxTravelDistance     float64      `json:"max_travel_distance" validate:"gt=0"`
	ContactEmail          string       `json:"contact_email" validate:"required,email"`
	ContactPhone          string       `json:"contact_phone,omitempty"`
	PreferredCompensation *float64     `json:"preferred_compensation,omitempty"`
}

// DefaultProfile returns the empty profile used before the user has
// filled anything in. MaxTravelDistance defaults to 50 miles.
func DefaultProfile() *UserProfile {
	return &UserProfile{
		Gender:            GenderOther,
		MedicalConditions: []string{},
		Allergies:         []string{},
		Medications:       []string{},
		MaxTravelDistance: 50,
	}
}

// IsComplete reports whether the profile is eligible to drive matching.
func (p *UserProfile) IsComplete() bool {
	return p.FirstName != "" &&
		p.LastName != "" &&
		p.Location != "" &&
		p.ContactEmail != "" &&
		p.Age > 0 &&
		len(p.MedicalConditions) > 0
}

// CityState splits the free-text "City, State" location. Missing parts
// come back empty.
func (p *UserProfile) CityState() (city, state string) {
	parts := strings.SplitN(p.Location, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}
