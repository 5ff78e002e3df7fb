package di

import (
	"context"
	"fmt"
	"time"

	domrepo "EquiScreen/internal/domain/repository"
	"EquiScreen/internal/handler/api"
	internalrepo "EquiScreen/internal/repository"
	svccache "EquiScreen/internal/service/cache"
	"EquiScreen/internal/service/marketdata"
	"EquiScreen/internal/service/scheduler"
	"EquiScreen/internal/services/indicators"
	"EquiScreen/internal/services/policy"
	"EquiScreen/internal/usecase"
	pkgcache "EquiScreen/pkg/cache"
	pkgch "EquiScreen/pkg/clickhouse"
	"EquiScreen/pkg/config"
	pkgkafka "EquiScreen/pkg/kafka"
	applogger "EquiScreen/pkg/logger"
	"EquiScreen/pkg/metrics"
	"EquiScreen/pkg/queue"
	"EquiScreen/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// database exists. Table schemas are owned by the stores using them.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideRedisCache creates the shared Redis client.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	opts := []pkgcache.RedisOption{
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	}
	if cfg.Redis.PoolSize > 0 {
		opts = append(opts, pkgcache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, 30*time.Second))
	}
	if cfg.Redis.Prefix != "" {
		opts = append(opts, pkgcache.WithRedisPrefix(cfg.Redis.Prefix))
	}
	return pkgcache.NewRedisCache(opts...)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideMarketDataClient creates the upstream market-data provider client.
func ProvideMarketDataClient(cfg *config.Config, l *applogger.Logger) *marketdata.Client {
	opts := []marketdata.Option{
		marketdata.WithLogger(l),
	}
	if cfg.MarketData.BaseURL != "" {
		opts = append(opts, marketdata.WithBaseURL(cfg.MarketData.BaseURL))
	}
	if cfg.MarketData.Timeout > 0 {
		opts = append(opts, marketdata.WithTimeout(cfg.MarketData.Timeout))
	}
	if cfg.MarketData.MaxRetries > 0 {
		opts = append(opts, marketdata.WithMaxRetries(cfg.MarketData.MaxRetries))
	}
	return marketdata.New(cfg.MarketData.APIKey, opts...)
}

// ProvidePriceStore creates the ClickHouse price store and its table.
func ProvidePriceStore(chClient *pkgch.Client, l *applogger.Logger, m domrepo.Metrics) (*internalrepo.CHPriceStore, error) {
	store := internalrepo.NewCHPriceStore(chClient)
	store.SetLogger(l)
	store.SetMetrics(m)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideFilterCache creates the Redis-backed filter result cache.
func ProvideFilterCache(rc *pkgcache.RedisCache) domrepo.FilterCache {
	return internalrepo.NewRedisFilterCache(rc)
}

// ProvideRunPublisher creates the Kafka publisher for passing results, or a
// no-op when no brokers are configured.
func ProvideRunPublisher(cfg *config.Config) (domrepo.RunPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return internalrepo.NopRunPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return internalrepo.NewKafkaRunPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideHistoryUseCase wires the store-first history reader.
func ProvideHistoryUseCase(store *internalrepo.CHPriceStore, md *marketdata.Client, l *applogger.Logger) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store, md, l)
}

// ProvideFilterConfig translates YAML filter settings into the pipeline
// configuration.
func ProvideFilterConfig(cfg *config.Config) usecase.FilterConfig {
	frames := make(map[domrepo.Timeframe]usecase.FrameSettings, len(cfg.Filter.Frames))
	for name, f := range cfg.Filter.Frames {
		frames[domrepo.Timeframe(name)] = usecase.FrameSettings{
			Periods: indicators.Periods{
				EMA:        f.EMAPeriod,
				RSI:        f.RSIPeriod,
				MACDFast:   f.MACDFast,
				MACDSlow:   f.MACDSlow,
				MACDSignal: f.MACDSignal,
			},
			Thresholds: policy.Thresholds{
				BiasThreshold: f.BiasThreshold,
				RSIOversold:   f.RSIOversold,
			},
			Lookback: time.Duration(f.LookbackDays) * 24 * time.Hour,
		}
	}

	fc := usecase.FilterConfig{
		Workers:  cfg.Filter.Workers,
		CacheTTL: time.Duration(cfg.Filter.ExpirationDays) * 24 * time.Hour,
		Frames:   frames,
	}
	if cfg.Filter.Financial.Enabled {
		gm, roe, rd := cfg.Filter.Financial.GrossMargin, cfg.Filter.Financial.ROE, cfg.Filter.Financial.RDRatio
		fc.Financial.GrossMargin = &gm
		fc.Financial.ROE = &roe
		fc.Financial.RDRatio = &rd
	}
	return fc
}

// ProvideFilterPipeline wires the screening pipeline. Prices flow through
// the history use case so cached bars are preferred over provider calls.
func ProvideFilterPipeline(
	history *usecase.HistoryUseCase,
	md *marketdata.Client,
	cache domrepo.FilterCache,
	pub domrepo.RunPublisher,
	fcfg usecase.FilterConfig,
	l *applogger.Logger,
) *usecase.FilterPipeline {
	return usecase.NewFilterPipeline(history, md, cache, pub, fcfg, l)
}

// ProvideSymbolsUseCase wires the universe resolver. Symbol lists go to
// Redis so every instance shares one provider fetch per universe.
func ProvideSymbolsUseCase(md *marketdata.Client, rc *pkgcache.RedisCache, l *applogger.Logger) *usecase.SymbolsUseCase {
	return usecase.NewSymbolsUseCase(md, svccache.NewRedisCacheFromClient(rc.Client()), l)
}

// ProvidePerformanceUseCase wires the portfolio performance calculator.
func ProvidePerformanceUseCase(history *usecase.HistoryUseCase, l *applogger.Logger) *usecase.PerformanceUseCase {
	return usecase.NewPerformanceUseCase(history, l)
}

// ProvideRetrieveUseCase wires cached-result retrieval.
func ProvideRetrieveUseCase(cache domrepo.FilterCache) *usecase.RetrieveUseCase {
	return usecase.NewRetrieveUseCase(cache)
}

// ProvideScreenerHandler wires the Echo HTTP handler.
func ProvideScreenerHandler(
	l *applogger.Logger,
	pipeline *usecase.FilterPipeline,
	retrieve *usecase.RetrieveUseCase,
	history *usecase.HistoryUseCase,
	perf *usecase.PerformanceUseCase,
	symbols *usecase.SymbolsUseCase,
) *api.ScreenerHandler {
	return api.NewScreenerHandler(l, pipeline, retrieve, history, perf, symbols)
}

// ProvideRefreshJob wires the scheduled-refresh queue job over every
// configured time frame.
func ProvideRefreshJob(pipeline *usecase.FilterPipeline, symbols *usecase.SymbolsUseCase, cfg *config.Config, l *applogger.Logger) *usecase.RefreshJob {
	frames := make([]domrepo.Timeframe, 0, len(cfg.Filter.Frames))
	for name := range cfg.Filter.Frames {
		frames = append(frames, domrepo.Timeframe(name))
	}
	return usecase.NewRefreshJob(pipeline, symbols, frames, l)
}

// ProvideQueue creates the Redis job queue carrying scheduled refreshes.
// Returns nil when the scheduler is disabled.
func ProvideQueue(cfg *config.Config, rc *pkgcache.RedisCache, job *usecase.RefreshJob, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Scheduler.Enabled {
		return nil
	}
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Scheduler.Workers,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, rc.Client(), queue.ModeProducerConsumer)
	q.RegisterJob(job)
	return q
}

// ProvideScheduler creates the cron trigger. Returns nil when disabled.
func ProvideScheduler(cfg *config.Config, q *queue.RedisQueue, l *applogger.Logger) *scheduler.Scheduler {
	if q == nil {
		return nil
	}
	return scheduler.New(cfg.Scheduler.Cron, cfg.Scheduler.Universe, q, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.ScreenerHandler,
	chClient *pkgch.Client,
	rc *pkgcache.RedisCache,
	pub domrepo.RunPublisher,
	q *queue.RedisQueue,
	sched *scheduler.Scheduler,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, handler, chClient, rc, pub, q, sched, l)
}
