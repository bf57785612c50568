package reconcile

import (
	"strings"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
)

// stationMatcher reports whether a spot belongs to the named station under
// one matching strategy.
type stationMatcher func(spot domain.Spot, station string) bool

// The ordered matching cascade. Station names in planning data and panel
// data are not guaranteed to agree (broadcaster naming drift, "HD"
// suffixes, grouping differences), so each strategy is tried in turn until
// one yields a non-empty spot set.
var stationMatchers = []stationMatcher{
	matchExact,
	matchSubstring,
	matchGroupName,
	matchNormalized,
}

func matchExact(spot domain.Spot, station string) bool {
	return strings.EqualFold(spot.StationName, station)
}

func matchSubstring(spot domain.Spot, station string) bool {
	return containsEither(spot.StationName, station)
}

// matchGroupName matches against the provider's alternate group-name field
// when it is present.
func matchGroupName(spot domain.Spot, station string) bool {
	if spot.StationGroup == "" {
		return false
	}
	return strings.EqualFold(spot.StationGroup, station) ||
		containsEither(spot.StationGroup, station)
}

// matchNormalized strips whitespace variation and a trailing "HD" suffix
// from both names, then retries substring containment. "ITV1 HD" matches a
// plan row named "ITV1" here when nothing stricter succeeded.
func matchNormalized(spot domain.Spot, station string) bool {
	return containsEither(normalizeStation(spot.StationName), normalizeStation(station))
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func normalizeStation(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, " hd")
	n = strings.TrimSuffix(n, "hd")
	n = strings.Join(strings.Fields(n), "")
	return n
}

// MatchStationSpots filters a spot set to one station using the matching
// cascade. The first strategy producing a non-empty result wins; an empty
// return means no strategy matched anything.
func MatchStationSpots(spots []domain.Spot, station string) []domain.Spot {
	for _, match := range stationMatchers {
		var out []domain.Spot
		for _, s := range spots {
			if match(s, station) {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
