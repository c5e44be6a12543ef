package matching

import "github.com/trialmatch/backend/internal/domain"

// FilterAllergies removes trials that conflict with the user's allergies,
// preserving order. A trial is excluded when a substance it uses contains
// an allergy term, or when its eligibility text mentions an allergy to
// one. With no allergies the input comes back unchanged.
func FilterAllergies(trials []domain.Trial, allergies []string) []domain.Trial {
	if len(allergies) == 0 {
		return trials
	}

	filtered := make([]domain.Trial, 0, len(trials))
	for _, t := range trials {
		if !hasAllergyConflict(&t, allergies) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func hasAllergyConflict(t *domain.Trial, allergies []string) bool {
	for _, allergen := range allergies {
		if allergen == "" {
			continue
		}
		for _, s := range t.SubstancesUsed {
			if containsFold(s.Name, allergen) {
				return true
			}
		}
		if t.EligibilityCriteria != "" {
			if containsFold(t.EligibilityCriteria, "allergy to "+allergen) ||
				containsFold(t.EligibilityCriteria, "allergic to "+allergen) {
				return true
			}
		}
	}
	return false
}
