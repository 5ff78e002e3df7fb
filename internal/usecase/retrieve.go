package usecase

import (
	"context"
	"time"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
)

// RetrieveUseCase reads previously cached filter results back out of Redis.
type RetrieveUseCase struct {
	cache domrepo.FilterCache
}

func NewRetrieveUseCase(cache domrepo.FilterCache) *RetrieveUseCase {
	return &RetrieveUseCase{cache: cache}
}

type RetrieveParams struct {
	TimeFrames []string
	// RecentDays bounds the recency window; 0 means today only.
	RecentDays int
}

// Retrieve returns cached results that cover at least one requested time
// frame and were filtered within the recency window.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, p RetrieveParams) (map[string]*models.FilterResult, error) {
	all, err := uc.cache.All(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -p.RecentDays)
	if p.RecentDays == 0 {
		cutoff = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	out := make(map[string]*models.FilterResult, len(all))
	for _, result := range all {
		if result.Meta.FilterTime.Before(cutoff) {
			continue
		}
		if !result.HasAnyFrame(p.TimeFrames) {
			continue
		}
		out[result.Meta.Stock] = result
	}
	return out, nil
}
