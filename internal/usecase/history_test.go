package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
)

func TestHistoryStoreFirst(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	store.series = map[string][]models.PricePoint{
		"AAPL": dailySeries("AAPL", start, 10, 11),
	}
	provider := &fakePrices{}

	uc := NewHistoryUseCase(store, provider, nil)
	points, err := uc.History(context.Background(), "AAPL", domrepo.TFDaily, start, start.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if provider.calls != 0 {
		t.Errorf("provider hit despite warm store")
	}
}

func TestHistoryFallsBackToProviderAndPersists(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	provider := &fakePrices{series: map[string][]models.PricePoint{
		"AAPL": dailySeries("AAPL", start, 10, 11, 12),
	}}

	uc := NewHistoryUseCase(store, provider, nil)
	points, err := uc.History(context.Background(), "AAPL", domrepo.TFDaily, start, start.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3", len(points))
	}
	if len(store.storedBatches) != 1 || len(store.storedBatches[0]) != 3 {
		t.Errorf("fetched history not persisted: %v", store.storedBatches)
	}
}

func TestHistoryEmptyEverywhere(t *testing.T) {
	uc := NewHistoryUseCase(&fakeStore{}, &fakePrices{}, nil)
	_, err := uc.History(context.Background(), "NONE", domrepo.TFDaily, time.Now().AddDate(0, -1, 0), time.Now())
	if !errors.Is(err, models.ErrNoPriceData) {
		t.Errorf("err = %v, want ErrNoPriceData", err)
	}
}

func TestFetchCountsAndErrors(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	provider := &fakePrices{
		series: map[string][]models.PricePoint{
			"AAPL": dailySeries("AAPL", start, 10, 11, 12),
		},
		errs: map[string]error{"GONE": models.ErrSymbolUnavailable},
	}

	uc := NewHistoryUseCase(store, provider, nil)
	res, err := uc.Fetch(context.Background(), FetchParams{
		Symbols:    []string{"AAPL", "GONE"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFDaily},
		From:       start,
		To:         start.AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Counts["AAPL"]["daily"] != 3 {
		t.Errorf("counts = %v, want AAPL daily 3", res.Counts)
	}
	if _, ok := res.Errors["GONE"]; !ok {
		t.Errorf("failed symbol must be reported, got %v", res.Errors)
	}
}

func TestFetchRejectsInvertedRange(t *testing.T) {
	uc := NewHistoryUseCase(&fakeStore{}, &fakePrices{}, nil)
	now := time.Now()
	_, err := uc.Fetch(context.Background(), FetchParams{
		Symbols:    []string{"AAPL"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFDaily},
		From:       now,
		To:         now.AddDate(0, 0, -7),
	})
	if !errors.Is(err, models.ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}
