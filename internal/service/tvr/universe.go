package tvr

import (
	"strings"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
)

// Approximate UK universe sizes in the provider's hundreds-of-individuals
// unit. Used when no spot in a set supplies its own target size. The
// values must stay aligned with the variance figures campaigns were
// planned against, so treat changes as a data migration, not a tweak.
const (
	universeHouseholds  = 270000 // ~27.0M UK TV households
	universeAllAdults   = 520000 // ~52.0M UK adults
	universeHouseperson = 260000 // ~26.0M housepersons
)

// universeForBuyingAudience returns the fallback universe (hundreds units)
// for a buying-audience label, defaulting to the households figure.
func universeForBuyingAudience(buyingAudience string) float64 {
	b := strings.ToLower(buyingAudience)
	switch {
	case strings.Contains(b, "adult"):
		return universeAllAdults
	case strings.Contains(b, "houseperson"):
		return universeHouseperson
	default:
		return universeHouseholds
	}
}

// universeForDescription returns the per-measurement fallback universe
// (hundreds units) keyed by the measurement's own description. Used by the
// per-spot strategy when a measurement lacks a usable target size.
func universeForDescription(desc string) float64 {
	d := strings.ToLower(desc)
	switch {
	case domain.IsAllHomes(desc):
		return universeHouseholds
	case strings.Contains(d, "all adults"):
		return universeAllAdults
	case strings.Contains(d, "houseperson"):
		return universeHouseperson
	default:
		return universeHouseholds
	}
}
