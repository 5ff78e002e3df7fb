package repository

import (
	"context"
	"time"

	"EquiScreen/internal/domain/models"
)

// PriceSource yields ordered price history for a symbol. Implementations
// return series ascending by date.
type PriceSource interface {
	History(ctx context.Context, symbol string, tf Timeframe, from, to time.Time) ([]models.PricePoint, error)
}

// PriceStore persists canonical price history.
type PriceStore interface {
	PriceSource
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBatch(ctx context.Context, points []models.PricePoint) error
	Health(ctx context.Context) error // ping
	Close() error
}

// FundamentalsSource yields trailing-twelve-month ratios for a symbol.
type FundamentalsSource interface {
	Fundamentals(ctx context.Context, symbol string) (*models.FinancialMetrics, error)
}

// SymbolSource lists tradable symbols for an exchange or index name.
type SymbolSource interface {
	Symbols(ctx context.Context, universe string) ([]string, error)
}

// FilterCache stores screening outcomes with a TTL.
type FilterCache interface {
	Put(ctx context.Context, result *models.FilterResult, ttl time.Duration) error
	Get(ctx context.Context, symbol string) (*models.FilterResult, error)
	All(ctx context.Context) ([]*models.FilterResult, error)
}

// RunPublisher emits each screening outcome of a run for downstream
// consumers. Implementations may be no-ops when messaging is disabled.
type RunPublisher interface {
	PublishResult(ctx context.Context, result *models.FilterResult) error
	Close() error
}

type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
