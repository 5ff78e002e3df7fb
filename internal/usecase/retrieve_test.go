package usecase

import (
	"context"
	"testing"
	"time"

	"EquiScreen/internal/domain/models"
)

func cachedResult(symbol string, age time.Duration, frames ...string) *models.FilterResult {
	r := &models.FilterResult{
		Meta:   models.FilterMeta{Stock: symbol, FilterTime: time.Now().UTC().Add(-age)},
		Frames: make(map[string]*models.IndicatorSet, len(frames)),
	}
	for _, tf := range frames {
		r.Frames[tf] = &models.IndicatorSet{}
	}
	return r
}

func TestRetrieveFiltersByFrameAndRecency(t *testing.T) {
	cache := newFakeFilterCache()
	ctx := context.Background()
	_ = cache.Put(ctx, cachedResult("FRESH", 24*time.Hour, "daily"), 0)
	_ = cache.Put(ctx, cachedResult("STALE", 10*24*time.Hour, "daily"), 0)
	_ = cache.Put(ctx, cachedResult("WEEKLY", 24*time.Hour, "weekly"), 0)

	uc := NewRetrieveUseCase(cache)
	got, err := uc.Retrieve(ctx, RetrieveParams{TimeFrames: []string{"daily"}, RecentDays: 7})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if _, ok := got["FRESH"]; !ok {
		t.Errorf("recent daily result missing")
	}
	if _, ok := got["STALE"]; ok {
		t.Errorf("result older than recency window must be dropped")
	}
	if _, ok := got["WEEKLY"]; ok {
		t.Errorf("result without a requested frame must be dropped")
	}
}

func TestRetrieveTodayOnly(t *testing.T) {
	cache := newFakeFilterCache()
	ctx := context.Background()
	_ = cache.Put(ctx, cachedResult("NOW", 0, "daily"), 0)
	_ = cache.Put(ctx, cachedResult("OLD", 36*time.Hour, "daily"), 0)

	uc := NewRetrieveUseCase(cache)
	got, err := uc.Retrieve(ctx, RetrieveParams{TimeFrames: []string{"daily"}, RecentDays: 0})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if _, ok := got["NOW"]; !ok {
		t.Errorf("result filtered today must match a zero-day window")
	}
	if _, ok := got["OLD"]; ok {
		t.Errorf("result from before today must be dropped")
	}
}

func TestRetrieveMultipleFrames(t *testing.T) {
	cache := newFakeFilterCache()
	ctx := context.Background()
	_ = cache.Put(ctx, cachedResult("BOTH", time.Hour, "daily", "weekly"), 0)

	uc := NewRetrieveUseCase(cache)
	got, err := uc.Retrieve(ctx, RetrieveParams{TimeFrames: []string{"weekly", "monthly"}, RecentDays: 7})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("one requested frame overlap should match, got %v", got)
	}
}
