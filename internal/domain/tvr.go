package domain

import (
	"fmt"
	"sort"
	"strings"
)

// TVRResult is the computed television rating for a set of spots.
// TVR is always rounded to one decimal place, and is zero whenever no spot
// contributed a valid audience measurement.
type TVRResult struct {
	TVR           float64 `json:"tvr"`
	Impacts       float64 `json:"impacts"`
	SpotCount     int     `json:"spot_count"`
	TotalDuration int     `json:"total_duration"`
}

// SpotFilters is the full filter set for a panel spot query. It doubles as
// the cache identity for computed TVR results.
type SpotFilters struct {
	Advertiser     string `json:"advertiser,omitempty"`
	Brand          string `json:"brand,omitempty"`
	Agency         string `json:"agency,omitempty"`
	Date           string `json:"date,omitempty"` // YYYY-MM-DD
	BuyingAudience string `json:"buying_audience,omitempty"`
	Station        string `json:"station,omitempty"`
}

// CacheKey returns a canonical serialization of the filter set. Two
// logically identical filter sets always serialize identically: fields are
// emitted in a fixed sorted order with trimmed, lowercased values.
func (f SpotFilters) CacheKey() string {
	fields := map[string]string{
		"advertiser":      f.Advertiser,
		"agency":          f.Agency,
		"brand":           f.Brand,
		"buying_audience": f.BuyingAudience,
		"date":            f.Date,
		"station":         f.Station,
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		v := strings.ToLower(strings.TrimSpace(fields[name]))
		parts = append(parts, fmt.Sprintf("%s=%s", name, v))
	}
	return strings.Join(parts, "|")
}
