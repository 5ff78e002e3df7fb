package usecase

import (
	"context"
	"sync"
	"time"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
)

type fakePrices struct {
	mu     sync.Mutex
	series map[string][]models.PricePoint
	errs   map[string]error
	tfErrs map[string]error // keyed "SYMBOL/tf"
	calls  int
}

func (f *fakePrices) History(ctx context.Context, symbol string, tf domrepo.Timeframe, from, to time.Time) ([]models.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.tfErrs[symbol+"/"+string(tf)]; ok {
		return nil, err
	}
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.series[symbol], nil
}

type fakeFundamentals struct {
	metrics map[string]*models.FinancialMetrics
	errs    map[string]error
}

func (f *fakeFundamentals) Fundamentals(ctx context.Context, symbol string) (*models.FinancialMetrics, error) {
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	if m, ok := f.metrics[symbol]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, models.ErrSymbolUnavailable
}

type fakeFilterCache struct {
	mu     sync.Mutex
	stored map[string]*models.FilterResult
}

func newFakeFilterCache() *fakeFilterCache {
	return &fakeFilterCache{stored: make(map[string]*models.FilterResult)}
}

func (f *fakeFilterCache) Put(ctx context.Context, result *models.FilterResult, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[result.Meta.Stock] = result
	return nil
}

func (f *fakeFilterCache) Get(ctx context.Context, symbol string) (*models.FilterResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored[symbol], nil
}

func (f *fakeFilterCache) All(ctx context.Context) ([]*models.FilterResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.FilterResult, 0, len(f.stored))
	for _, r := range f.stored {
		out = append(out, r)
	}
	return out, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []string
}

func (f *fakePublisher) PublishResult(ctx context.Context, result *models.FilterResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, result.Meta.Stock)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeStore struct {
	fakePrices
	storedBatches [][]models.PricePoint
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }

func (f *fakeStore) StoreBatch(ctx context.Context, points []models.PricePoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storedBatches = append(f.storedBatches, points)
	return nil
}

func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

type fakeSymbolSource struct {
	lists map[string][]string
	calls int
}

func (f *fakeSymbolSource) Symbols(ctx context.Context, universe string) ([]string, error) {
	f.calls++
	return f.lists[universe], nil
}

// dailySeries builds an ascending daily series from the closes, one point
// per day starting at start.
func dailySeries(symbol string, start time.Time, closes ...float64) []models.PricePoint {
	out := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = models.PricePoint{
			Symbol: symbol,
			TF:     "daily",
			Date:   start.AddDate(0, 0, i),
			Close:  c,
		}
	}
	return out
}
