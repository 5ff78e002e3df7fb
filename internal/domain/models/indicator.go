package models

// BIASValue is the percentage deviation of the latest close from its EMA.
type BIASValue struct {
	Bias   float64 `json:"bias"`
	Period int     `json:"period"`
}

// RSIValue is a Wilder-smoothed relative strength index reading.
type RSIValue struct {
	Value  float64 `json:"value"`
	Period int     `json:"period"`
}

// MACDValue carries the MACD line, its signal line and the histogram.
type MACDValue struct {
	Value        float64 `json:"value"`
	Signal       float64 `json:"signal"`
	Histogram    float64 `json:"histogram"`
	FastPeriod   int     `json:"fast_period"`
	SlowPeriod   int     `json:"slow_period"`
	SignalPeriod int     `json:"signal_period"`
}

// IndicatorSet groups the indicators computed for one symbol on one time
// frame. Nil members were either not requested or undefined for the series.
type IndicatorSet struct {
	BIAS *BIASValue `json:"BIAS,omitempty"`
	RSI  *RSIValue  `json:"RSI,omitempty"`
	MACD *MACDValue `json:"MACD,omitempty"`

	// LowConfidence is set when an indicator had to seed from fewer points
	// than its period asks for.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// FinancialThresholds are the minimum fundamental ratios a symbol must meet.
// A nil member disables that check.
type FinancialThresholds struct {
	GrossMargin *float64 `json:"gross_margin,omitempty"`
	ROE         *float64 `json:"roe,omitempty"`
	RDRatio     *float64 `json:"rd_ratio,omitempty"`
}

// FinancialMetrics holds trailing-twelve-month fundamental ratios together
// with the thresholds that were applied when the symbol passed.
type FinancialMetrics struct {
	GrossMargin float64             `json:"gross_margin"`
	ROE         float64             `json:"roe"`
	RDRatio     float64             `json:"rd_ratio"`
	Thresholds  FinancialThresholds `json:"thresholds"`
}
