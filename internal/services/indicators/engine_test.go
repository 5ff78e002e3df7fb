package indicators

import (
	"errors"
	"testing"

	"EquiScreen/internal/domain/models"
)

func defaultPeriods() Periods {
	return Periods{EMA: 12, RSI: 14, MACDFast: 12, MACDSlow: 26, MACDSignal: 9}
}

func TestComputeHonorsSelection(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	set, err := Compute(closes, defaultPeriods(), Selection{RSI: true})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if set.RSI == nil {
		t.Errorf("requested RSI missing")
	}
	if set.BIAS != nil || set.MACD != nil {
		t.Errorf("unrequested indicators computed: %+v", set)
	}
}

func TestComputeUndefinedIndicatorStaysNil(t *testing.T) {
	// 5 closes cannot support RSI(14); the set still comes back with the
	// other indicators populated
	closes := []float64{10, 11, 12, 11, 10}
	set, err := Compute(closes, defaultPeriods(), Selection{BIAS: true, RSI: true, MACD: true})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if set.RSI != nil {
		t.Errorf("RSI should be undefined for 5 closes")
	}
	if set.BIAS == nil || set.MACD == nil {
		t.Errorf("BIAS/MACD should still be computed: %+v", set)
	}
	if !set.LowConfidence {
		t.Errorf("expected low-confidence flag from short-seeded EMAs")
	}
}

func TestComputeEmptySeries(t *testing.T) {
	_, err := Compute(nil, defaultPeriods(), Selection{BIAS: true})
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Errorf("Compute(nil) err = %v, want ErrInsufficientHistory", err)
	}
}

func TestComputeFlatFourteenCloses(t *testing.T) {
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = 10.0
	}
	p := Periods{EMA: 13, RSI: 13, MACDFast: 12, MACDSlow: 26, MACDSignal: 9}
	set, err := Compute(closes, p, Selection{BIAS: true, RSI: true})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !almostEqual(set.BIAS.Bias, 0) {
		t.Errorf("BIAS = %v, want 0", set.BIAS.Bias)
	}
	if !almostEqual(set.RSI.Value, 100) {
		t.Errorf("RSI = %v, want 100", set.RSI.Value)
	}
	if set.LowConfidence {
		t.Errorf("14 closes fully seed EMA(13); no low-confidence expected")
	}
}

func TestSelectionFrom(t *testing.T) {
	sel := SelectionFrom([]string{"bias", "macd"})
	if !sel.BIAS || sel.RSI || !sel.MACD {
		t.Errorf("SelectionFrom = %+v", sel)
	}
}
