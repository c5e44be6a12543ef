package matching

import (
	"context"
	"sort"
	"strings"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/geo"
)

// LocationResolver turns a free-text address into coordinates. Resolution
// failure is expected (geocoding outages, unknown facilities) and only
// degrades distance scoring.
type LocationResolver interface {
	Resolve(ctx context.Context, address string) (*domain.Coordinates, error)
}

// Options tune the ranker's admission and ordering policy.
type Options struct {
	// MinScore is the admission threshold, boundary inclusive.
	MinScore float64
	// BandWidth groups near-equal scores into a similarity band that is
	// re-sorted by ascending distance.
	BandWidth float64
	// EnforceDistanceCutoff drops trials farther than the profile's
	// travel limit. Disabling it leaves proximity weight as the only
	// pressure against far trials.
	EnforceDistanceCutoff bool
}

// DefaultOptions returns the canonical policy.
func DefaultOptions() Options {
	return Options{
		MinScore:              0.4,
		BandWidth:             0.2,
		EnforceDistanceCutoff: true,
	}
}

// Ranker scores, filters and orders candidate trials for a profile.
type Ranker struct {
	resolver LocationResolver
	opts     Options
}

// NewRanker creates a ranker. resolver may be nil; distance then falls
// back to the city/state heuristic.
func NewRanker(resolver LocationResolver, opts Options) *Ranker {
	return &Ranker{resolver: resolver, opts: opts}
}

// Rank runs the full pipeline: allergy filter, distance resolution,
// scoring, admission threshold, ordering. Each returned trial carries
// its match score and nearest-location distance. An empty result is a
// valid "no matches" state, not an error.
func (r *Ranker) Rank(ctx context.Context, trials []domain.Trial, p *domain.UserProfile) ([]domain.Trial, error) {
	if len(p.MedicalConditions) == 0 {
		return nil, domain.ErrProfileIncomplete
	}

	candidates := FilterAllergies(trials, p.Allergies)

	ranked := make([]domain.Trial, 0, len(candidates))
	for _, t := range candidates {
		distance := r.nearestDistance(ctx, p, &t)
		result := Score(p, &t, distance)

		score := result.Score
		t.MatchScore = &score
		t.Distance = distance

		if score < r.opts.MinScore {
			continue
		}
		// Unknown distance passes the cutoff: proximity already scored
		// zero and a geocoding outage must not erase all results.
		if r.opts.EnforceDistanceCutoff && distance != nil && *distance > p.MaxTravelDistance {
			continue
		}
		ranked = append(ranked, t)
	}

	orderByScoreAndDistance(ranked, r.opts.BandWidth)
	return ranked, nil
}

// nearestDistance resolves each trial site and returns the closest one in
// miles, annotating per-location distances along the way. Returns nil
// when no site could be resolved.
func (r *Ranker) nearestDistance(ctx context.Context, p *domain.UserProfile, t *domain.Trial) *float64 {
	userCity, userState := p.CityState()

	var nearest *float64
	for i := range t.Locations {
		loc := &t.Locations[i]

		var d *float64
		if p.Coordinates != nil && r.resolver != nil {
			if coords, err := r.resolver.Resolve(ctx, loc.Address()); err == nil && coords != nil {
				miles := geo.Miles(p.Coordinates.Lat, p.Coordinates.Lng, coords.Lat, coords.Lng)
				d = &miles
			}
		}
		if d == nil && sameCityState(loc, userCity, userState) {
			zero := 0.0
			d = &zero
		}
		if d == nil {
			continue
		}

		loc.Distance = d
		if nearest == nil || *d < *nearest {
			nearest = d
		}
	}
	return nearest
}

func sameCityState(loc *domain.TrialLocation, city, state string) bool {
	return city != "" && state != "" &&
		strings.EqualFold(loc.City, city) &&
		strings.EqualFold(loc.State, state)
}

// orderByScoreAndDistance sorts by score descending, then walks the
// result splitting it into bands of transitively near-equal scores and
// re-sorts each band by ascending distance. Trials without a distance
// stay at the end of their band in input order.
func orderByScoreAndDistance(trials []domain.Trial, bandWidth float64) {
	sort.SliceStable(trials, func(i, j int) bool {
		return *trials[i].MatchScore > *trials[j].MatchScore
	})

	for start := 0; start < len(trials); {
		end := start + 1
		for end < len(trials) && *trials[end-1].MatchScore-*trials[end].MatchScore <= bandWidth {
			end++
		}
		if end-start > 1 {
			band := trials[start:end]
			sort.SliceStable(band, func(i, j int) bool {
				di, dj := band[i].Distance, band[j].Distance
				if di == nil {
					return false
				}
				if dj == nil {
					return true
				}
				return *di < *dj
			})
		}
		start = end
	}
}
