package domain

import "strings"

// DefaultBuyingAudience is the audience definition campaigns are bought
// against unless a plan says otherwise.
const DefaultBuyingAudience = "Houseperson with children 0-15"

// audienceMatcher reports whether a measurement description satisfies one
// tier of the resolution policy.
type audienceMatcher func(desc string) bool

// The ordered fallback policy for selecting a spot's target measurement.
// The ordering is deliberate: the campaign-relevant demographic beats the
// generic "All Homes" fallback, which beats anything else. Downstream
// variance figures are meaningless if the wrong audience is silently
// substituted, so the order must not change.
var audienceMatchers = []audienceMatcher{
	IsHousepersonWithChildren,
	IsAllHomes,
}

// IsHousepersonWithChildren reports whether a description names the
// household-with-children demographic ("Houseperson with children 0-15"
// and its provider variants).
func IsHousepersonWithChildren(desc string) bool {
	d := strings.ToLower(desc)
	return strings.Contains(d, "houseperson") &&
		strings.Contains(d, "children") &&
		strings.Contains(d, "0-15")
}

// IsAllHomes reports whether a description is the generic "All Homes"
// audience.
func IsAllHomes(desc string) bool {
	return strings.Contains(strings.ToLower(desc), "all homes")
}

// ResolveAudience selects the single measurement to use for rating
// computation from a spot's measurement list.
//
// Tiers, first match wins:
//  1. a houseperson-with-children 0-15 measurement
//  2. an "All Homes" measurement
//  3. (lenient mode only) the first measurement present
//
// The lenient tier is used by the plan/actual reconciliation path, where a
// station with only exotic audience definitions should still produce a
// rating rather than an empty row.
func ResolveAudience(views []AudienceMeasurement, lenient bool) (AudienceMeasurement, bool) {
	for _, match := range audienceMatchers {
		for _, v := range views {
			if match(v.Description) {
				return v, true
			}
		}
	}
	if lenient && len(views) > 0 {
		return views[0], true
	}
	return AudienceMeasurement{}, false
}

// HasResolvableAudience reports whether a spot carries a measurement the
// strict (non-lenient) policy would select.
func HasResolvableAudience(s Spot) bool {
	_, ok := ResolveAudience(s.AudienceViews, false)
	return ok
}
