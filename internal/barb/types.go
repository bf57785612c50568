package barb

// Config holds the panel API client settings.
type Config struct {
	BaseURL     string
	Email       string
	Password    string
	PageSize    int
	PageDelayMS int

	// FallbackWindowStart/End (YYYY-MM-DD) is the known-good historical
	// week substituted when the requested date window cannot be serviced.
	FallbackWindowStart string
	FallbackWindowEnd   string
}

// tokenResponse is the provider's token exchange payload.
type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// spotRecord mirrors one advertising spot in the provider's JSON.
type spotRecord struct {
	SpotNumber int64 `json:"broadcaster_spot_number"`

	Station struct {
		StationName  string `json:"station_name"`
		StationGroup string `json:"station_group_name"`
	} `json:"station"`

	SpotStartDatetime struct {
		StandardDatetime string `json:"standard_datetime"`
	} `json:"spot_start_datetime"`

	SpotDuration int `json:"spot_duration"`

	ClearcastInformation struct {
		AdvertiserName string `json:"advertiser_name"`
		ProductName    string `json:"product_name"`
		BuyerName      string `json:"buyer_name"`
	} `json:"clearcast_information"`

	AudienceViews []audienceView `json:"audience_views"`
}

type audienceView struct {
	Description  string  `json:"description"`
	AudienceSize float64 `json:"audience_size_hundreds"`
	TargetSize   float64 `json:"target_size_in_hundreds"`
}
