package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
	pkgch "EquiScreen/pkg/clickhouse"
	applogger "EquiScreen/pkg/logger"
)

// CHPriceStore implements PriceStore backed by ClickHouse. History is kept
// in a single table keyed by (symbol, tf, date); the ReplacingMergeTree
// engine makes re-fetching a range idempotent.
type CHPriceStore struct {
	db      *sql.DB
	l       *applogger.Logger
	metrics domrepo.Metrics
}

const priceTable = "equiscreen.stock_prices"

const priceSchema = `
CREATE TABLE IF NOT EXISTS ` + priceTable + ` (
    symbol    LowCardinality(String),
    tf        LowCardinality(String),
    date      Date,
    open      Float64,
    high      Float64,
    low       Float64,
    close     Float64,
    adj_close Float64,
    volume    Float64
) ENGINE = ReplacingMergeTree()
ORDER BY (symbol, tf, date)
`

func NewCHPriceStore(ch *pkgch.Client) *CHPriceStore {
	return &CHPriceStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

// SetMetrics injects a metrics recorder.
func (s *CHPriceStore) SetMetrics(m domrepo.Metrics) { s.metrics = m }

func (s *CHPriceStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, priceSchema); err != nil {
		return fmt.Errorf("init price table: %w", err)
	}
	return nil
}

func (s *CHPriceStore) History(ctx context.Context, symbol string, tf domrepo.Timeframe, from, to time.Time) ([]models.PricePoint, error) {
	start := time.Now()
	const q = `
        SELECT symbol, tf, date, open, high, low, close, adj_close, volume
        FROM ` + priceTable + ` FINAL
        WHERE symbol = ? AND tf = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, string(tf), from, to)
	if err != nil {
		s.logQueryError("history query error", symbol, tf, err)
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]models.PricePoint, 0, 256)
	for rows.Next() {
		var p models.PricePoint
		var date time.Time
		if err := rows.Scan(&p.Symbol, &p.TF, &date, &p.Open, &p.High, &p.Low, &p.Close, &p.AdjClose, &p.Volume); err != nil {
			s.logQueryError("history scan error", symbol, tf, err)
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		p.Date = date
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		s.logQueryError("history rows error", symbol, tf, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse history ok",
			applogger.String("symbol", symbol),
			applogger.String("tf", string(tf)),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	if s.metrics != nil {
		s.metrics.RecordLatency("clickhouse_history", time.Since(start).Seconds())
	}
	return out, nil
}

func (s *CHPriceStore) StoreBatch(ctx context.Context, points []models.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	// Batch insert using a multi-row VALUES list to reduce round-trips.
	// Chunk size tuned to 2000 rows per batch.
	const chunkSize = 2000
	for start := 0; start < len(points); start += chunkSize {
		end := start + chunkSize
		if end > len(points) {
			end = len(points)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for _, p := range points[start:end] {
			if p.Symbol == "" || p.TF == "" || p.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				p.Symbol,
				p.TF,
				p.Date,
				p.Open,
				p.High,
				p.Low,
				p.Close,
				p.AdjClose,
				p.Volume,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (symbol, tf, date, open, high, low, close, adj_close, volume) VALUES %s",
			priceTable, strings.Join(values, ","),
		)
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.metrics != nil {
				s.metrics.RecordError("clickhouse_insert")
			}
			return fmt.Errorf("insert prices: %w", err)
		}
		if s.metrics != nil {
			last := points[end-1]
			s.metrics.RecordMessageSent("clickhouse", last.Symbol)
			s.metrics.RecordLastClose(last.Symbol, last.Close)
		}
	}
	return nil
}

func (s *CHPriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHPriceStore) Close() error {
	return nil // Managed by pkg
}

func (s *CHPriceStore) logQueryError(msg, symbol string, tf domrepo.Timeframe, err error) {
	if s.l == nil {
		return
	}
	s.l.Error(msg,
		applogger.String("symbol", symbol),
		applogger.String("tf", string(tf)),
		applogger.Error(err),
	)
	if s.metrics != nil {
		s.metrics.RecordError("clickhouse_query")
	}
}
