// Package policy decides whether a symbol's indicators clear the configured
// screening thresholds. Evaluation is fail-closed: a requested indicator
// that could not be computed rejects the symbol, while indicators the caller
// never asked for are not evaluated and never block.
package policy

import (
	"EquiScreen/internal/domain/models"
	"EquiScreen/internal/services/indicators"
)

// Thresholds holds the per-time-frame technical bounds.
type Thresholds struct {
	// BiasThreshold passes when bias <= threshold. Screening for dips uses
	// negative values, e.g. -10 means "at least 10% below the EMA".
	BiasThreshold float64

	// RSIOversold passes when rsi < bound.
	RSIOversold float64
}

// EvaluateTechnical reports whether the indicator set passes for one time
// frame. Only the selected legs are checked; the MACD leg passes when the
// MACD line sits below its signal line.
func EvaluateTechnical(set *models.IndicatorSet, th Thresholds, sel indicators.Selection) bool {
	if set == nil {
		return false
	}
	if sel.BIAS {
		if set.BIAS == nil || set.BIAS.Bias > th.BiasThreshold {
			return false
		}
	}
	if sel.RSI {
		if set.RSI == nil || set.RSI.Value >= th.RSIOversold {
			return false
		}
	}
	if sel.MACD {
		if set.MACD == nil || set.MACD.Value >= set.MACD.Signal {
			return false
		}
	}
	return true
}

// EvaluateFinancial reports whether the fundamentals clear every enabled
// threshold. Each threshold is independently omittable; with all three nil
// the check is a pass regardless of metrics.
func EvaluateFinancial(m *models.FinancialMetrics, th models.FinancialThresholds) bool {
	if th.GrossMargin == nil && th.ROE == nil && th.RDRatio == nil {
		return true
	}
	if m == nil {
		return false
	}
	if th.GrossMargin != nil && m.GrossMargin < *th.GrossMargin {
		return false
	}
	if th.ROE != nil && m.ROE < *th.ROE {
		return false
	}
	if th.RDRatio != nil && m.RDRatio < *th.RDRatio {
		return false
	}
	return true
}

// MergeThresholds applies per-request overrides on top of configured
// defaults. A nil override block keeps the defaults untouched.
func MergeThresholds(base models.FinancialThresholds, override *models.FinancialFilterRequest) models.FinancialThresholds {
	if override == nil {
		return base
	}
	merged := base
	if override.GrossMargin != nil {
		merged.GrossMargin = override.GrossMargin
	}
	if override.ROE != nil {
		merged.ROE = override.ROE
	}
	if override.RDRatio != nil {
		merged.RDRatio = override.RDRatio
	}
	return merged
}
