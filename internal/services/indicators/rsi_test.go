package indicators

import (
	"errors"
	"testing"

	"EquiScreen/internal/domain/models"
)

func TestRSIMonotonicRiseSaturatesAt100(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 10 + float64(i)
	}
	got, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	if !almostEqual(got.Value, 100) {
		t.Errorf("RSI of rising series = %v, want 100", got.Value)
	}
}

func TestRSIMonotonicFallApproachesZero(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	got, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	if !almostEqual(got.Value, 0) {
		t.Errorf("RSI of falling series = %v, want 0", got.Value)
	}
}

func TestRSIFlatSeriesReads100(t *testing.T) {
	// no change means no losses, so the zero-average-loss rule applies
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = 10.0
	}
	got, err := RSI(closes, 13)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	if !almostEqual(got.Value, 100) {
		t.Errorf("RSI of flat series = %v, want 100", got.Value)
	}
}

func TestRSIWilderSmoothing(t *testing.T) {
	// period 2 over {1,2,1,2}: initial avgGain=avgLoss=0.5, then the final
	// +1 change smooths to avgGain=0.75, avgLoss=0.25, RS=3, RSI=75
	got, err := RSI([]float64{1, 2, 1, 2}, 2)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	if !almostEqual(got.Value, 75) {
		t.Errorf("RSI = %v, want 75", got.Value)
	}
}

func TestRSIInsufficientHistory(t *testing.T) {
	closes := make([]float64, 14)
	_, err := RSI(closes, 14)
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Errorf("RSI with period points err = %v, want ErrInsufficientHistory", err)
	}
}
