package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"EquiScreen/internal/domain/models"
)

func perfWindow() (time.Time, time.Time) {
	return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)
}

func TestCalculateEvenAllocation(t *testing.T) {
	start, end := perfWindow()
	symbols := []string{"AAA", "BBB", "CCC", "DDD", "EEE"}
	prices := &fakePrices{series: map[string][]models.PricePoint{}}
	for _, sym := range symbols {
		// bought at 10, ends at 12
		prices.series[sym] = dailySeries(sym, start, 10, 11, 12)
	}

	allocs := make([]models.Allocation, len(symbols))
	for i, sym := range symbols {
		allocs[i] = models.Allocation{Symbol: sym, Percentage: 20}
	}

	uc := NewPerformanceUseCase(prices, nil)
	report, err := uc.Calculate(context.Background(), PerformanceParams{
		Allocations: allocs,
		TotalMoney:  10000,
		Start:       start,
		End:         end,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if len(report.DetailedPerformances) != 5 {
		t.Fatalf("holdings = %d, want 5", len(report.DetailedPerformances))
	}
	for _, h := range report.DetailedPerformances {
		if !almostEqual(h.InvestedAmount, 2000) || !almostEqual(h.InitialValue, 2000) {
			t.Errorf("%s invested/initial = %v/%v, want 2000", h.Symbol, h.InvestedAmount, h.InitialValue)
		}
		if !almostEqual(h.Shares, 200) {
			t.Errorf("%s shares = %v, want 200", h.Symbol, h.Shares)
		}
		if !almostEqual(h.FinalValue, 2400) {
			t.Errorf("%s final = %v, want 2400", h.Symbol, h.FinalValue)
		}
		if len(h.DailyValues) != 3 {
			t.Errorf("%s daily values = %d, want 3", h.Symbol, len(h.DailyValues))
		}
	}
	if !almostEqual(report.InitialValue, 10000) || !almostEqual(report.FinalValue, 12000) {
		t.Errorf("aggregates = %v/%v, want 10000/12000", report.InitialValue, report.FinalValue)
	}
	if !almostEqual(report.TotalGainLossPercentage, 20) {
		t.Errorf("total gain pct = %v, want 20", report.TotalGainLossPercentage)
	}
}

func TestCalculateNoDataSymbolExcluded(t *testing.T) {
	start, end := perfWindow()
	prices := &fakePrices{series: map[string][]models.PricePoint{
		"GOOD": dailySeries("GOOD", start, 10, 12),
		// "GONE" has no series at all
	}}

	uc := NewPerformanceUseCase(prices, nil)
	report, err := uc.Calculate(context.Background(), PerformanceParams{
		Allocations: []models.Allocation{
			{Symbol: "GOOD", Percentage: 50},
			{Symbol: "GONE", Percentage: 50},
		},
		TotalMoney: 1000,
		Start:      start,
		End:        end,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(report.DetailedPerformances) != 1 {
		t.Fatalf("holdings = %d, want 1", len(report.DetailedPerformances))
	}
	if _, ok := report.Errors["GONE"]; !ok {
		t.Errorf("symbol without data must be reported in Errors")
	}
	if !almostEqual(report.InitialValue, 500) {
		t.Errorf("aggregates must exclude errored symbols: initial = %v", report.InitialValue)
	}
}

func TestCalculateContributionPercentages(t *testing.T) {
	start, end := perfWindow()
	prices := &fakePrices{series: map[string][]models.PricePoint{
		"UP":   dailySeries("UP", start, 10, 12),   // +100 on 500 invested
		"DOWN": dailySeries("DOWN", start, 10, 9),  // -50 on 500 invested
	}}

	uc := NewPerformanceUseCase(prices, nil)
	report, err := uc.Calculate(context.Background(), PerformanceParams{
		Allocations: []models.Allocation{
			{Symbol: "UP", Percentage: 50},
			{Symbol: "DOWN", Percentage: 50},
		},
		TotalMoney: 1000,
		Start:      start,
		End:        end,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	byns := map[string]models.HoldingPerformance{}
	for _, h := range report.DetailedPerformances {
		byns[h.Symbol] = h
	}
	if !almostEqual(report.TotalGainLoss, 50) {
		t.Fatalf("total gain = %v, want 50", report.TotalGainLoss)
	}
	if !almostEqual(byns["UP"].ContributionPercentage, 200) {
		t.Errorf("UP contribution = %v, want 200", byns["UP"].ContributionPercentage)
	}
	if !almostEqual(byns["DOWN"].ContributionPercentage, -100) {
		t.Errorf("DOWN contribution = %v, want -100", byns["DOWN"].ContributionPercentage)
	}
}

func TestCalculateZeroTotalGainReportsZeroContribution(t *testing.T) {
	start, end := perfWindow()
	prices := &fakePrices{series: map[string][]models.PricePoint{
		"UP":   dailySeries("UP", start, 10, 12),
		"DOWN": dailySeries("DOWN", start, 10, 8),
	}}

	uc := NewPerformanceUseCase(prices, nil)
	report, err := uc.Calculate(context.Background(), PerformanceParams{
		Allocations: []models.Allocation{
			{Symbol: "UP", Percentage: 50},
			{Symbol: "DOWN", Percentage: 50},
		},
		TotalMoney: 1000,
		Start:      start,
		End:        end,
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !almostEqual(report.TotalGainLoss, 0) {
		t.Fatalf("total gain = %v, want 0", report.TotalGainLoss)
	}
	for _, h := range report.DetailedPerformances {
		if h.ContributionPercentage != 0 {
			t.Errorf("%s contribution = %v, want 0 when total gain is zero", h.Symbol, h.ContributionPercentage)
		}
	}
}

func TestCalculateRejectsInvertedRange(t *testing.T) {
	start, end := perfWindow()
	uc := NewPerformanceUseCase(&fakePrices{}, nil)
	_, err := uc.Calculate(context.Background(), PerformanceParams{
		Allocations: []models.Allocation{{Symbol: "AAA", Percentage: 100}},
		TotalMoney:  1000,
		Start:       end,
		End:         start,
	})
	if !errors.Is(err, models.ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
