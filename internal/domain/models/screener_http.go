package models

// Requests for the screener HTTP endpoints. Defined in domain for consistency and reuse.

// FinancialFilterRequest optionally overrides the configured fundamental
// thresholds for one run. Absent members keep the configured defaults; the
// whole block absent disables fundamental screening.
type FinancialFilterRequest struct {
	GrossMargin *float64 `json:"grossMargin" validate:"omitempty,gte=0,lte=1"`
	ROE         *float64 `json:"roe" validate:"omitempty,gte=0,lte=1"`
	RDRatio     *float64 `json:"rdRatio" validate:"omitempty,gte=0,lte=1"`
}

type TriggerFilterRequest struct {
	Symbols    []string                `json:"symbols" validate:"required,min=1,dive,required"`
	TimeFrames []string                `json:"timeFrame" default:"[\"daily\"]" validate:"min=1,dive,oneof=daily weekly monthly"`
	Indicators []string                `json:"indicators" default:"[\"bias\",\"rsi\",\"macd\"]" validate:"min=1,dive,oneof=bias rsi macd"`
	Financial  *FinancialFilterRequest `json:"financialFilters" validate:"omitempty"`
}

// RetrieveFilteredRequest selects cached results. RecentDay is a pointer so
// an explicit 0 ("today only") survives default filling.
type RetrieveFilteredRequest struct {
	TimeFrames []string `json:"timeFrame" default:"[\"daily\"]" validate:"min=1,dive,oneof=daily weekly monthly"`
	RecentDay  *int     `json:"recentDay" default:"7" validate:"omitempty,gte=0,lte=365"`
}

type FetchHistoryRequest struct {
	Symbols    []string `json:"symbols" validate:"required,min=1,dive,required"`
	TimeFrames []string `json:"timeFrame" default:"[\"daily\"]" validate:"min=1,dive,oneof=daily weekly monthly"`
	StartDate  string   `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string   `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

type AllocationRequest struct {
	Symbol     string  `json:"symbol" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gt=0,lte=100"`
}

type PerformanceRequest struct {
	Allocations []AllocationRequest `json:"allocations" validate:"required,min=1,dive"`
	TotalMoney  float64             `json:"totalMoney" validate:"gt=0"`
	StartDate   string              `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string              `json:"endDate" validate:"required,datetime=2006-01-02"`
}
