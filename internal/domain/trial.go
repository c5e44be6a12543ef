package domain

import (
	"strconv"
	"strings"
)

// AgeRange is the trial's inclusive age bounds as returned by the search
// endpoint. Values are free text like "18 Years"; parsing takes the
// leading integer and falls back to 0 / 999.
type AgeRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// MinYears returns the lower bound, 0 when unparseable.
func (r AgeRange) MinYears() int {
	return parseLeadingInt(r.Min, 0)
}

// MaxYears returns the upper bound, 999 when unparseable.
func (r AgeRange) MaxYears() int {
	return parseLeadingInt(r.Max, 999)
}

func parseLeadingInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return fallback
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return n
}

// TrialLocation is one site running the trial.
type TrialLocation struct {
	Facility string   `json:"facility"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Country  string   `json:"country"`
	Zip      string   `json:"zip"`
	Distance *float64 `json:"distance,omitempty"`
}

// Address returns the location as a geocodable address string.
func (l TrialLocation) Address() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Facility, l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Compensation describes what a trial pays participants, when known.
type Compensation struct {
	HasCompensation bool     `json:"has_compensation"`
	Amount          *float64 `json:"amount,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	Details         string   `json:"details,omitempty"`
}

// Substance is a drug or agent the trial administers.
type Substance struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Trial is a clinical trial record as received from the search endpoint.
// Identity is the ID; records are immutable inputs. MatchScore and
// Distance are attached by the ranker before the trial reaches the UI.
type Trial struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Conditions          []string        `json:"conditions"`
	Gender              string          `json:"gender"`
	AgeRange            AgeRange        `json:"age_range"`
	Locations           []TrialLocation `json:"locations"`
	Summary             string          `json:"summary"`
	Compensation        *Compensation   `json:"compensation,omitempty"`
	EligibilityCriteria string          `json:"eligibilityCriteria,omitempty"`
	SubstancesUsed      []Substance     `json:"substancesUsed,omitempty"`

	MatchScore *float64 `json:"matchScore,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
}

// ContainsTrial reports whether the collection already holds a trial
// with the given id.
func ContainsTrial(trials []Trial, id string) bool {
	for _, t := range trials {
		if t.ID == id {
			return true
		}
	}
	return false
}
