package domain

// Campaign is a media buy for which planned delivery can be reconciled
// against panel-measured actuals.
type Campaign struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Advertiser     string `json:"advertiser"`
	Brand          string `json:"brand"`
	Agency         string `json:"agency"`
	StartDate      string `json:"start_date"` // YYYY-MM-DD
	EndDate        string `json:"end_date"`   // YYYY-MM-DD
	BuyingAudience string `json:"buying_audience"`
}

// CampaignPlan is one planned-delivery row: a media-owner/station pair with
// the negotiated delivery terms. Numeric terms are pointers because a plan
// row may legitimately omit them, and "absent" must stay distinguishable
// from zero.
type CampaignPlan struct {
	ID             string   `json:"id"`
	CampaignID     string   `json:"campaign_id"`
	SupplierName   string   `json:"supplier_name"`
	StationName    string   `json:"station_name"`
	BuyingAudience string   `json:"buying_audience"`
	PlanTVR        *float64 `json:"plan_tvr,omitempty"`
	DealTVR        *float64 `json:"deal_tvr,omitempty"`
	CPT            *float64 `json:"cpt,omitempty"`
	Budget         *float64 `json:"budget,omitempty"`
}

// CampaignPlanWithActuals augments a plan row with panel-measured actuals.
// Variance fields are nil, not zero, when either side of the subtraction is
// unavailable. A row with ActualSpotCount == 0 carried no matched panel
// data; its zero ActualTVR is not a measured zero rating.
type CampaignPlanWithActuals struct {
	CampaignPlan

	ActualTVR       float64  `json:"actual_tvr"`
	ActualImpacts   float64  `json:"actual_impacts"`
	ActualSpotCount int      `json:"actual_spot_count"`
	TVRVariance     *float64 `json:"tvr_variance,omitempty"`
	ValueVariance   *float64 `json:"value_variance,omitempty"`
}
