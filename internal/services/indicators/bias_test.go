package indicators

import (
	"errors"
	"testing"

	"EquiScreen/internal/domain/models"
)

func TestBIASConstantSeriesIsZero(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	got, _, err := BIAS(closes, 12)
	if err != nil {
		t.Fatalf("BIAS: %v", err)
	}
	if !almostEqual(got.Bias, 0) {
		t.Errorf("BIAS of constant series = %v, want 0", got.Bias)
	}
}

func TestBIASDeviation(t *testing.T) {
	// period 2: seed avg(10,12)=11; latest 12 -> (12-11)/11*100
	closes := []float64{10, 12}
	got, _, err := BIAS(closes, 2)
	if err != nil {
		t.Fatalf("BIAS: %v", err)
	}
	want := (12.0 - 11.0) / 11.0 * 100.0
	if !almostEqual(got.Bias, want) {
		t.Errorf("BIAS = %v, want %v", got.Bias, want)
	}
	if got.Period != 2 {
		t.Errorf("Period = %d, want 2", got.Period)
	}
}

func TestBIASZeroEMAIsUndefined(t *testing.T) {
	closes := []float64{-1, 1}
	_, _, err := BIAS(closes, 2)
	if !errors.Is(err, models.ErrDivisionUndefined) {
		t.Errorf("BIAS with zero EMA err = %v, want ErrDivisionUndefined", err)
	}
}
