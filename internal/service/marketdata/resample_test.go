package marketdata

import (
	"testing"
	"time"

	"EquiScreen/internal/domain/models"
	drepo "EquiScreen/internal/domain/repository"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dailyWeek() []models.PricePoint {
	// Mon 2024-01-08 .. Fri 2024-01-12, one ISO week
	dates := []time.Time{
		day(2024, 1, 8), day(2024, 1, 9), day(2024, 1, 10),
		day(2024, 1, 11), day(2024, 1, 12),
	}
	out := make([]models.PricePoint, len(dates))
	for i, d := range dates {
		out[i] = models.PricePoint{
			Symbol: "AAPL",
			TF:     "daily",
			Date:   d,
			Open:   10 + float64(i),
			High:   20 + float64(i),
			Low:    5 - float64(i),
			Close:  15 + float64(i),
			Volume: 100,
		}
	}
	return out
}

func TestResampleDailyPassthrough(t *testing.T) {
	in := dailyWeek()
	got := Resample(in, drepo.TFDaily)
	if len(got) != len(in) {
		t.Fatalf("daily passthrough changed length: %d", len(got))
	}
}

func TestResampleWeekly(t *testing.T) {
	got := Resample(dailyWeek(), drepo.TFWeekly)
	if len(got) != 1 {
		t.Fatalf("one ISO week must fold into one bar, got %d", len(got))
	}
	bar := got[0]
	if bar.TF != "weekly" {
		t.Errorf("TF = %q, want weekly", bar.TF)
	}
	if bar.Open != 10 || bar.Close != 19 {
		t.Errorf("open/close = %v/%v, want 10/19", bar.Open, bar.Close)
	}
	if bar.High != 24 || bar.Low != 1 {
		t.Errorf("high/low = %v/%v, want 24/1", bar.High, bar.Low)
	}
	if bar.Volume != 500 {
		t.Errorf("volume = %v, want 500", bar.Volume)
	}
	if !bar.Date.Equal(day(2024, 1, 12)) {
		t.Errorf("bucket date = %v, want last trading day", bar.Date)
	}
}

func TestResampleWeeklySplitsAcrossWeeks(t *testing.T) {
	in := dailyWeek()
	in = append(in, models.PricePoint{Symbol: "AAPL", TF: "daily", Date: day(2024, 1, 15), Close: 30, Volume: 100})
	got := Resample(in, drepo.TFWeekly)
	if len(got) != 2 {
		t.Fatalf("two ISO weeks must fold into two bars, got %d", len(got))
	}
	if got[1].Close != 30 {
		t.Errorf("second week close = %v, want 30", got[1].Close)
	}
}

func TestResampleMonthly(t *testing.T) {
	in := []models.PricePoint{
		{Symbol: "AAPL", Date: day(2024, 1, 30), Open: 1, Close: 2, Volume: 10},
		{Symbol: "AAPL", Date: day(2024, 1, 31), Open: 3, Close: 4, Volume: 10},
		{Symbol: "AAPL", Date: day(2024, 2, 1), Open: 5, Close: 6, Volume: 10},
	}
	got := Resample(in, drepo.TFMonthly)
	if len(got) != 2 {
		t.Fatalf("two months must fold into two bars, got %d", len(got))
	}
	if got[0].Open != 1 || got[0].Close != 4 || got[0].Volume != 20 {
		t.Errorf("january bar = %+v", got[0])
	}
	if got[1].Close != 6 {
		t.Errorf("february close = %v, want 6", got[1].Close)
	}
}
