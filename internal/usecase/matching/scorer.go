package matching

import (
	"strings"

	"github.com/trialmatch/backend/internal/domain"
)

// Component weights. Each weight contributes to the max-possible score
// whenever its signal applies, so the final score stays in [0,1].
const (
	conditionWeight    = 50
	genderWeight       = 15
	ageWeight          = 15
	proximityWeight    = 20
	compensationWeight = 10

	// Inside this radius proximity always earns full weight.
	nearbyMiles = 10
)

// ScoreResult is the scorer output for a single profile/trial pair.
type ScoreResult struct {
	Score    float64
	Distance *float64
}

// Score computes the normalized match score for one trial against the
// profile. distance is the trial's nearest-location distance in miles,
// nil when it could not be resolved; it is echoed back in the result.
func Score(p *domain.UserProfile, t *domain.Trial, distance *float64) ScoreResult {
	var score, maxScore float64

	// Condition match: symmetric substring test between any trial
	// condition and any user condition.
	if conditionsMatch(t.Conditions, p.MedicalConditions) {
		score += conditionWeight
	}
	maxScore += conditionWeight

	// Gender eligibility.
	if t.Gender == "All" || containsFold(t.Gender, p.Gender) {
		score += genderWeight
	}
	maxScore += genderWeight

	// Age eligibility, inclusive bounds.
	if p.Age >= t.AgeRange.MinYears() && p.Age <= t.AgeRange.MaxYears() {
		score += ageWeight
	}
	maxScore += ageWeight

	// Proximity: full weight within nearbyMiles, linear decay up to the
	// travel limit, nothing beyond it or when distance is unknown.
	if distance != nil && *distance <= p.MaxTravelDistance {
		if *distance <= nearbyMiles {
			score += proximityWeight
		} else if p.MaxTravelDistance > 0 {
			part := proximityWeight * (1 - *distance/p.MaxTravelDistance)
			if part > 0 {
				score += part
			}
		}
	}
	maxScore += proximityWeight

	// Compensation preference only enters the denominator when the user
	// actually set one.
	if p.PreferredCompensation != nil && *p.PreferredCompensation > 0 {
		maxScore += compensationWeight
		if t.Compensation != nil && t.Compensation.HasCompensation && t.Compensation.Amount != nil {
			if *t.Compensation.Amount >= *p.PreferredCompensation {
				score += compensationWeight
			} else {
				part := compensationWeight * (*t.Compensation.Amount / *p.PreferredCompensation)
				if part > compensationWeight {
					part = compensationWeight
				}
				score += part
			}
		}
	}

	if maxScore == 0 {
		return ScoreResult{Score: 0, Distance: distance}
	}
	return ScoreResult{Score: score / maxScore, Distance: distance}
}

func conditionsMatch(trialConditions, userConditions []string) bool {
	for _, tc := range trialConditions {
		for _, uc := range userConditions {
			if containsFold(uc, tc) || containsFold(tc, uc) {
				return true
			}
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
