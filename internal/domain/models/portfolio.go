package models

import "time"

// Allocation assigns a percentage of the portfolio budget to one symbol.
// Percentages are taken at face value and never renormalized.
type Allocation struct {
	Symbol     string  `json:"symbol"`
	Percentage float64 `json:"percentage"`
}

// DailyValue is the market value of a holding on one trading day.
type DailyValue struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
	Value float64   `json:"value"`
}

// HoldingPerformance is the replayed performance of a single allocation.
type HoldingPerformance struct {
	Symbol                 string       `json:"symbol"`
	Percentage             float64      `json:"percentage"`
	InvestedAmount         float64      `json:"invested_amount"`
	Shares                 float64      `json:"shares"`
	InitialPrice           float64      `json:"initial_price"`
	FinalPrice             float64      `json:"final_price"`
	InitialValue           float64      `json:"initial_value"`
	FinalValue             float64      `json:"final_value"`
	GainLoss               float64      `json:"gain_loss"`
	GainLossPercentage     float64      `json:"gain_loss_percentage"`
	ContributionPercentage float64      `json:"contribution_percentage"`
	DailyValues            []DailyValue `json:"daily_values"`
}

// PerformanceReport aggregates the holdings of one replayed portfolio.
// Symbols that had no price data inside the window are listed in Errors and
// excluded from every aggregate.
type PerformanceReport struct {
	TotalMoney              float64              `json:"total_money"`
	StartDate               time.Time            `json:"start_date"`
	EndDate                 time.Time            `json:"end_date"`
	InitialValue            float64              `json:"initial_value"`
	FinalValue              float64              `json:"final_value"`
	TotalGainLoss           float64              `json:"total_gain_loss"`
	TotalGainLossPercentage float64              `json:"total_gain_loss_percentage"`
	DetailedPerformances    []HoldingPerformance `json:"detailed_performances"`
	Errors                  map[string]string    `json:"errors,omitempty"`
}
