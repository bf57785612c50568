package tvr

import (
	"math"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
)

// roundTVR rounds a rating to one decimal place. Every TVR that leaves
// this package goes through it.
func roundTVR(v float64) float64 {
	return math.Round(v*10) / 10
}

// CalculateGlobal computes a spot set's TVR as one global ratio: total
// delivered impacts over total universe size, divided once over the whole
// set. Spots resolve their measurement with the strict audience policy.
//
// When no spot supplies a valid target size the configured static universe
// for the buying audience stands in, so campaigns measured against exotic
// audience files still produce a rating.
func CalculateGlobal(spots []domain.Spot, buyingAudience string) domain.TVRResult {
	result := domain.TVRResult{SpotCount: len(spots)}

	var impacts, targetTotal float64
	for _, s := range spots {
		result.TotalDuration += s.Duration

		m, ok := domain.ResolveAudience(s.AudienceViews, false)
		if !ok {
			continue
		}
		if m.AudienceSize > 0 {
			impacts += m.DeliveredPersons()
		}
		if m.TargetSize > 0 {
			targetTotal += m.TargetPersons()
		}
	}

	result.Impacts = impacts
	if impacts <= 0 {
		return result
	}

	universe := targetTotal
	if universe <= 0 {
		universe = universeForBuyingAudience(buyingAudience) * domain.HundredsScale
	}
	result.TVR = roundTVR(impacts / universe * 100)
	return result
}

// CalculatePerSpot computes a spot set's TVR as the unweighted mean of the
// individual spot ratings. Spots resolve their measurement with the
// lenient audience policy: the reconciliation path would rather rate a
// station against its only available audience than return an empty row.
//
// A spot contributes only if its delivered size is positive. A missing or
// non-positive target size substitutes the description-keyed fallback
// universe rather than excluding the spot.
func CalculatePerSpot(spots []domain.Spot, buyingAudience string) domain.TVRResult {
	result := domain.TVRResult{SpotCount: len(spots)}

	var ratingSum, impacts float64
	var validSpots int
	for _, s := range spots {
		result.TotalDuration += s.Duration

		m, ok := domain.ResolveAudience(s.AudienceViews, true)
		if !ok || m.AudienceSize <= 0 {
			continue
		}

		delivered := m.DeliveredPersons()
		impacts += delivered

		target := m.TargetPersons()
		if m.TargetSize <= 0 {
			target = universeForDescription(m.Description) * domain.HundredsScale
		}

		ratingSum += delivered / target * 100
		validSpots++
	}

	result.Impacts = impacts
	switch {
	case validSpots > 0:
		result.TVR = roundTVR(ratingSum / float64(validSpots))
	case impacts > 0:
		// All spots lacked resolvable targets but still delivered audience.
		result.TVR = roundTVR(impacts / (universeHouseholds * domain.HundredsScale) * 100)
	}
	return result
}
