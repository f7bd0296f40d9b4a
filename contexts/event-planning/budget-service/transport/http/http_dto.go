package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PackageOfferDTO struct {
	PackageID       string   `json:"package_id"`
	EventType       string   `json:"event_type"`
	Name            string   `json:"name"`
	BasePrice       string   `json:"base_price"`
	DiscountPercent string   `json:"discount_percent"`
	Categories      []string `json:"categories"`
	DiscountAmount  string   `json:"discount_amount"`
	FinalPrice      string   `json:"final_price"`
	Savings         string   `json:"savings"`
}

type ListPackagesRequest struct {
	EventType  string
	Categories []string
}

type ListPackagesResponse struct {
	Status string            `json:"status"`
	Data   []PackageOfferDTO `json:"data"`
	// TotalSavings is a display aggregate, not an achievable combined
	// discount when packages are mutually exclusive.
	TotalSavings string `json:"total_savings"`
}

type ApplyPackageRequest struct {
	PackageID string `json:"package_id"`
}

type AppliedPackageDTO struct {
	EventID         string   `json:"event_id"`
	PackageID       string   `json:"package_id"`
	Name            string   `json:"name"`
	EventType       string   `json:"event_type"`
	BasePrice       string   `json:"base_price"`
	DiscountPercent string   `json:"discount_percent"`
	Categories      []string `json:"categories"`
	AppliedAt       string   `json:"applied_at"`
	NewBudgetTotal  string   `json:"new_budget_total,omitempty"`
}

type ApplyPackageResponse struct {
	Status        string            `json:"status"`
	Replayed      bool              `json:"replayed,omitempty"`
	Success       bool              `json:"success"`
	EventUpdated  bool              `json:"event_updated"`
	BudgetUpdated bool              `json:"budget_updated"`
	Data          AppliedPackageDTO `json:"data"`
}

type BreakdownEntryDTO struct {
	ServiceCategory  string `json:"service_category"`
	EstimatedCost    string `json:"estimated_cost"`
	PackageApplied   bool   `json:"package_applied"`
	AppliedPackageID string `json:"applied_package_id,omitempty"`
	Created          bool   `json:"created,omitempty"`
	Clamped          bool   `json:"clamped,omitempty"`
}

type GetBreakdownRequest struct {
	EventID    string
	Categories []string
}

type BreakdownResponse struct {
	Status string              `json:"status"`
	Data   []BreakdownEntryDTO `json:"data"`
	Total  string              `json:"total"`
}

type AdjustmentDTO struct {
	ServiceCategory string `json:"service_category"`
	Type            string `json:"type"`
	Value           string `json:"value"`
	Reason          string `json:"reason,omitempty"`
}

type ApplyAdjustmentsRequest struct {
	Adjustments []AdjustmentDTO `json:"adjustments"`
}
