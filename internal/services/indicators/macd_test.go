package indicators

import (
	"math"
	"testing"
)

func TestMACDHistogramIdentity(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/4)
	}
	got, _, err := MACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatalf("MACD: %v", err)
	}
	if !almostEqual(got.Histogram, got.Value-got.Signal) {
		t.Errorf("histogram %v != value-signal %v", got.Histogram, got.Value-got.Signal)
	}
}

func TestMACDConstantSeriesIsZero(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 50
	}
	got, lowConf, err := MACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatalf("MACD: %v", err)
	}
	if lowConf {
		t.Errorf("unexpected low-confidence flag for 60 closes")
	}
	if !almostEqual(got.Value, 0) || !almostEqual(got.Signal, 0) || !almostEqual(got.Histogram, 0) {
		t.Errorf("MACD of constant series = %+v, want zeros", got)
	}
}

func TestMACDShortSeriesFlagsLowConfidence(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	got, lowConf, err := MACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatalf("MACD: %v", err)
	}
	if !lowConf {
		t.Errorf("expected low-confidence flag for 5 closes")
	}
	if got.FastPeriod != 12 || got.SlowPeriod != 26 || got.SignalPeriod != 9 {
		t.Errorf("periods not echoed: %+v", got)
	}
}

func TestMACDRejectsInvertedPeriods(t *testing.T) {
	if _, _, err := MACD([]float64{1, 2, 3}, 26, 12, 9); err == nil {
		t.Errorf("expected error for fast >= slow")
	}
}
