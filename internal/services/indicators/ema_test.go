package indicators

import (
	"errors"
	"math"
	"testing"

	"EquiScreen/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEMAConstantSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42.5
	}
	got, lowConf, err := EMA(closes, 12)
	if err != nil {
		t.Fatalf("EMA: %v", err)
	}
	if lowConf {
		t.Errorf("unexpected low-confidence flag for 30 closes, period 12")
	}
	if !almostEqual(got, 42.5) {
		t.Errorf("EMA of constant series = %v, want 42.5", got)
	}
}

func TestEMASeedsWithSimpleAverage(t *testing.T) {
	// period 3, alpha 0.5: seed avg(1,2,3)=2, then 3, then 4
	closes := []float64{1, 2, 3, 4, 5}
	got, lowConf, err := EMA(closes, 3)
	if err != nil {
		t.Fatalf("EMA: %v", err)
	}
	if lowConf {
		t.Errorf("unexpected low-confidence flag")
	}
	if !almostEqual(got, 4) {
		t.Errorf("EMA = %v, want 4", got)
	}
}

func TestEMAShortSeriesFlagsLowConfidence(t *testing.T) {
	closes := []float64{1, 2}
	got, lowConf, err := EMA(closes, 5)
	if err != nil {
		t.Fatalf("EMA: %v", err)
	}
	if !lowConf {
		t.Errorf("expected low-confidence flag for 2 closes, period 5")
	}
	if !almostEqual(got, 1.5) {
		t.Errorf("EMA seeded from short series = %v, want 1.5", got)
	}
}

func TestEMAEmptySeries(t *testing.T) {
	if _, _, err := EMA(nil, 5); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Errorf("EMA(nil) err = %v, want ErrInsufficientHistory", err)
	}
}
