package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ResolveQuoteRequest struct {
	ServiceType string
	Latitude    *float64
	Longitude   *float64
	Address     string
	Seasonal    bool
	EventDate   string
}

type PriceBandDTO struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

type PricingQuoteDTO struct {
	ServiceType     string        `json:"service_type"`
	BaseBand        PriceBandDTO  `json:"base_band"`
	LocationBand    PriceBandDTO  `json:"location_band"`
	SeasonalBand    PriceBandDTO  `json:"seasonal_band"`
	RealTimeBand    *PriceBandDTO `json:"real_time_band,omitempty"`
	Confidence      float64       `json:"confidence"`
	ContractorCount int           `json:"contractor_count,omitempty"`
	FreshAt         string        `json:"fresh_at"`
}

type ResolveQuoteResponse struct {
	Status string          `json:"status"`
	Data   PricingQuoteDTO `json:"data"`
}
