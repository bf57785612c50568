package domain

import "time"

// HundredsScale converts the panel provider's "hundreds of individuals"
// unit into a person count.
const HundredsScale = 100

// Spot is one scheduled/broadcast advertisement occurrence as reported by
// the panel provider. Spots are retrieved fresh on every panel API call and
// are never persisted; only derived aggregates are.
type Spot struct {
	// SpotNumber is the broadcaster-assigned spot number, unique per
	// transmission within a provider dataset.
	SpotNumber int64 `json:"spot_number"`

	StationName  string `json:"station_name"`
	StationGroup string `json:"station_group"`

	TransmissionTime time.Time `json:"transmission_time"`
	Duration         int       `json:"duration"`

	// Advertiser, Brand and Agency are flattened from the provider's
	// clearance sub-record.
	Advertiser string `json:"advertiser"`
	Brand      string `json:"brand"`
	Agency     string `json:"agency"`

	AudienceViews []AudienceMeasurement `json:"audience_views"`
}

// AudienceMeasurement is one audience definition's delivered-vs-universe
// pair for a spot. Sizes are in the provider's hundreds-of-individuals
// unit; multiply by HundredsScale for person counts.
type AudienceMeasurement struct {
	Description  string  `json:"description"`
	AudienceSize float64 `json:"audience_size_hundreds"`
	TargetSize   float64 `json:"target_size_hundreds"`
}

// DeliveredPersons returns the delivered audience as a person count.
func (m AudienceMeasurement) DeliveredPersons() float64 {
	return m.AudienceSize * HundredsScale
}

// TargetPersons returns the target/universe size as a person count.
func (m AudienceMeasurement) TargetPersons() float64 {
	return m.TargetSize * HundredsScale
}
