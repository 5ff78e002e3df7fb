package usecase

import (
	"context"
	"fmt"
	"time"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
	applogger "EquiScreen/pkg/logger"
)

// HistoryUseCase fronts the canonical price store with the provider: reads
// come from ClickHouse, and windows the store has never seen are fetched
// once from the provider and persisted before being served.
type HistoryUseCase struct {
	store    domrepo.PriceStore
	provider domrepo.PriceSource
	l        *applogger.Logger
}

func NewHistoryUseCase(store domrepo.PriceStore, provider domrepo.PriceSource, l *applogger.Logger) *HistoryUseCase {
	return &HistoryUseCase{store: store, provider: provider, l: l}
}

// History implements PriceSource with store-first semantics.
func (uc *HistoryUseCase) History(ctx context.Context, symbol string, tf domrepo.Timeframe, from, to time.Time) ([]models.PricePoint, error) {
	points, err := uc.store.History(ctx, symbol, tf, from, to)
	if err != nil {
		return nil, err
	}
	if len(points) > 0 {
		return points, nil
	}

	points, err = uc.provider.History(ctx, symbol, tf, from, to)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%s %s: %w", symbol, tf, models.ErrNoPriceData)
	}
	if err := uc.store.StoreBatch(ctx, points); err != nil {
		// serve the fetched data even if persisting failed
		if uc.l != nil {
			uc.l.Warn("persisting fetched history failed",
				applogger.String("symbol", symbol),
				applogger.String("tf", string(tf)),
				applogger.Error(err),
			)
		}
	}
	return points, nil
}

type FetchParams struct {
	Symbols    []string
	TimeFrames []domrepo.Timeframe
	From       time.Time
	To         time.Time
}

// FetchResult reports how many points were persisted per symbol/time frame,
// with fetch failures collected instead of aborting the batch.
type FetchResult struct {
	Counts map[string]map[string]int `json:"counts"`
	Errors map[string]string         `json:"errors,omitempty"`
}

// Fetch pulls history from the provider and persists it for every
// symbol/time-frame pair.
func (uc *HistoryUseCase) Fetch(ctx context.Context, p FetchParams) (*FetchResult, error) {
	if p.From.After(p.To) {
		return nil, models.ErrInvalidRange
	}

	res := &FetchResult{
		Counts: make(map[string]map[string]int, len(p.Symbols)),
		Errors: make(map[string]string),
	}
	for _, symbol := range p.Symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, tf := range p.TimeFrames {
			points, err := uc.provider.History(ctx, symbol, tf, p.From, p.To)
			if err != nil {
				res.Errors[symbol] = err.Error()
				if uc.l != nil {
					uc.l.Warn("history fetch failed",
						applogger.String("symbol", symbol),
						applogger.String("tf", string(tf)),
						applogger.Error(err),
					)
				}
				continue
			}
			if err := uc.store.StoreBatch(ctx, points); err != nil {
				res.Errors[symbol] = err.Error()
				continue
			}
			if res.Counts[symbol] == nil {
				res.Counts[symbol] = make(map[string]int, len(p.TimeFrames))
			}
			res.Counts[symbol][string(tf)] = len(points)
		}
	}
	return res, nil
}

var _ domrepo.PriceSource = (*HistoryUseCase)(nil)
