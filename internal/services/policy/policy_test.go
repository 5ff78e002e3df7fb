package policy

import (
	"testing"

	"EquiScreen/internal/domain/models"
	"EquiScreen/internal/services/indicators"
)

func allLegs() indicators.Selection {
	return indicators.Selection{BIAS: true, RSI: true, MACD: true}
}

func oversoldSet() *models.IndicatorSet {
	return &models.IndicatorSet{
		BIAS: &models.BIASValue{Bias: -15.79, Period: 30},
		RSI:  &models.RSIValue{Value: 18.56, Period: 14},
		MACD: &models.MACDValue{Value: -1.52, Signal: -1.09, Histogram: -0.43},
	}
}

func TestEvaluateTechnicalAllLegsPass(t *testing.T) {
	th := Thresholds{BiasThreshold: -10, RSIOversold: 30}
	if !EvaluateTechnical(oversoldSet(), th, allLegs()) {
		t.Errorf("deeply oversold set should pass")
	}
}

func TestEvaluateTechnicalBiasAboveThresholdFails(t *testing.T) {
	set := oversoldSet()
	set.BIAS.Bias = -5
	th := Thresholds{BiasThreshold: -10, RSIOversold: 30}
	if EvaluateTechnical(set, th, allLegs()) {
		t.Errorf("bias -5 must not clear threshold -10")
	}
}

func TestEvaluateTechnicalMACDAboveSignalFails(t *testing.T) {
	set := oversoldSet()
	set.MACD.Value = -0.5
	set.MACD.Signal = -1.0
	th := Thresholds{BiasThreshold: -10, RSIOversold: 30}
	if EvaluateTechnical(set, th, allLegs()) {
		t.Errorf("MACD line above signal must fail")
	}
}

func TestEvaluateTechnicalUndefinedLegFailsClosed(t *testing.T) {
	set := oversoldSet()
	set.RSI = nil
	th := Thresholds{BiasThreshold: -10, RSIOversold: 30}
	if EvaluateTechnical(set, th, allLegs()) {
		t.Errorf("requested but undefined RSI must fail closed")
	}
}

func TestEvaluateTechnicalUnrequestedLegNotBlocking(t *testing.T) {
	set := oversoldSet()
	set.RSI = nil
	set.MACD = nil
	th := Thresholds{BiasThreshold: -10, RSIOversold: 30}
	if !EvaluateTechnical(set, th, indicators.Selection{BIAS: true}) {
		t.Errorf("unrequested legs must not block")
	}
}

func TestEvaluateTechnicalNilSet(t *testing.T) {
	th := Thresholds{BiasThreshold: -10, RSIOversold: 30}
	if EvaluateTechnical(nil, th, allLegs()) {
		t.Errorf("nil set must fail closed")
	}
}

func f(v float64) *float64 { return &v }

func TestEvaluateFinancialAllThresholds(t *testing.T) {
	m := &models.FinancialMetrics{GrossMargin: 0.45, ROE: 0.22, RDRatio: 0.15}
	th := models.FinancialThresholds{GrossMargin: f(0.3), ROE: f(0.15), RDRatio: f(0.1)}
	if !EvaluateFinancial(m, th) {
		t.Errorf("metrics above every threshold should pass")
	}
	m.ROE = 0.10
	if EvaluateFinancial(m, th) {
		t.Errorf("ROE below threshold should fail")
	}
}

func TestEvaluateFinancialOmittedThresholds(t *testing.T) {
	m := &models.FinancialMetrics{GrossMargin: 0.05, ROE: 0.22}
	th := models.FinancialThresholds{ROE: f(0.15)}
	if !EvaluateFinancial(m, th) {
		t.Errorf("omitted gross-margin threshold must not be checked")
	}
	if !EvaluateFinancial(nil, models.FinancialThresholds{}) {
		t.Errorf("no thresholds enabled means pass")
	}
	if EvaluateFinancial(nil, th) {
		t.Errorf("missing metrics with an enabled threshold must fail closed")
	}
}

func TestMergeThresholds(t *testing.T) {
	base := models.FinancialThresholds{GrossMargin: f(0.3), ROE: f(0.15), RDRatio: f(0.1)}

	got := MergeThresholds(base, nil)
	if *got.GrossMargin != 0.3 || *got.ROE != 0.15 || *got.RDRatio != 0.1 {
		t.Errorf("nil override must keep defaults: %+v", got)
	}

	got = MergeThresholds(base, &models.FinancialFilterRequest{ROE: f(0.25)})
	if *got.ROE != 0.25 {
		t.Errorf("override ROE = %v, want 0.25", *got.ROE)
	}
	if *got.GrossMargin != 0.3 {
		t.Errorf("non-overridden threshold changed: %v", *got.GrossMargin)
	}
}
