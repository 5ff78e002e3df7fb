package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
	svcmetrics "EquiScreen/internal/service/metrics"
	"EquiScreen/internal/services/indicators"
	"EquiScreen/internal/services/policy"
	applogger "EquiScreen/pkg/logger"
)

// FrameSettings bundles the indicator periods, thresholds and history
// window of one time frame.
type FrameSettings struct {
	Periods    indicators.Periods
	Thresholds policy.Thresholds
	Lookback   time.Duration
}

// FilterConfig is the static pipeline configuration, read once at startup.
type FilterConfig struct {
	Workers   int
	CacheTTL  time.Duration
	Frames    map[domrepo.Timeframe]FrameSettings
	Financial models.FinancialThresholds
}

// FilterPipeline screens symbols against the configured thresholds. Symbols
// fan out over a bounded worker pool; a failure on one symbol is recorded
// and never aborts the run.
type FilterPipeline struct {
	prices       domrepo.PriceSource
	fundamentals domrepo.FundamentalsSource
	cache        domrepo.FilterCache
	pub          domrepo.RunPublisher
	cfg          FilterConfig
	l            *applogger.Logger
}

func NewFilterPipeline(
	prices domrepo.PriceSource,
	fundamentals domrepo.FundamentalsSource,
	cache domrepo.FilterCache,
	pub domrepo.RunPublisher,
	cfg FilterConfig,
	l *applogger.Logger,
) *FilterPipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	return &FilterPipeline{
		prices:       prices,
		fundamentals: fundamentals,
		cache:        cache,
		pub:          pub,
		cfg:          cfg,
		l:            l,
	}
}

type RunParams struct {
	Symbols    []string
	TimeFrames []domrepo.Timeframe
	Selection  indicators.Selection
	Financial  *models.FinancialFilterRequest
}

// RunResult maps passing symbols to their filter results. Screening
// failures land in Skipped with the reason: whole-symbol failures under the
// symbol, single-time-frame failures under "symbol/tf". Symbols that simply
// failed the thresholds appear in neither map.
type RunResult struct {
	Passed  map[string]*models.FilterResult
	Skipped map[string]string
}

type symbolOutcome struct {
	symbol     string
	result     *models.FilterResult
	frameSkips map[string]string
	err        error
}

// Run screens every symbol and caches plus publishes each passing result.
func (p *FilterPipeline) Run(ctx context.Context, params RunParams) (*RunResult, error) {
	thresholds := policy.MergeThresholds(p.cfg.Financial, params.Financial)

	jobs := make(chan string)
	outcomes := make(chan symbolOutcome)

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				result, frameSkips, err := p.screenSymbol(ctx, symbol, params, thresholds)
				select {
				case outcomes <- symbolOutcome{symbol: symbol, result: result, frameSkips: frameSkips, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range params.Symbols {
			select {
			case jobs <- symbol:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	run := &RunResult{
		Passed:  make(map[string]*models.FilterResult),
		Skipped: make(map[string]string),
	}
	for out := range outcomes {
		for tf, reason := range out.frameSkips {
			run.Skipped[out.symbol+"/"+tf] = reason
			if p.l != nil {
				p.l.Warn("time frame skipped",
					applogger.String("symbol", out.symbol),
					applogger.String("tf", tf),
					applogger.String("reason", reason),
				)
			}
		}
		switch {
		case out.err != nil:
			run.Skipped[out.symbol] = out.err.Error()
			svcmetrics.SymbolsProcessed.WithLabelValues("skipped").Inc()
			if p.l != nil {
				p.l.Warn("symbol skipped",
					applogger.String("symbol", out.symbol),
					applogger.Error(out.err),
				)
			}
		case out.result != nil:
			run.Passed[out.symbol] = out.result
			svcmetrics.SymbolsProcessed.WithLabelValues("passed").Inc()
		case len(out.frameSkips) > 0:
			svcmetrics.SymbolsProcessed.WithLabelValues("skipped").Inc()
		default:
			svcmetrics.SymbolsProcessed.WithLabelValues("rejected").Inc()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, result := range run.Passed {
		if err := p.cache.Put(ctx, result, p.cfg.CacheTTL); err != nil && p.l != nil {
			p.l.Error("caching filter result failed",
				applogger.String("symbol", result.Meta.Stock),
				applogger.Error(err),
			)
		}
		if err := p.pub.PublishResult(ctx, result); err != nil && p.l != nil {
			p.l.Error("publishing filter result failed",
				applogger.String("symbol", result.Meta.Stock),
				applogger.Error(err),
			)
		}
	}

	svcmetrics.FilterRuns.Inc()
	return run, nil
}

// screenSymbol evaluates one symbol across the requested time frames. Each
// frame is independent: a frame that cannot be screened lands in frameSkips
// and never hides another frame's outcome. A nil result with nil error and
// no skips means the symbol failed the thresholds.
func (p *FilterPipeline) screenSymbol(ctx context.Context, symbol string, params RunParams, finThresholds models.FinancialThresholds) (*models.FilterResult, map[string]string, error) {
	var fin *models.FinancialMetrics
	financialEnabled := finThresholds.GrossMargin != nil || finThresholds.ROE != nil || finThresholds.RDRatio != nil
	if financialEnabled {
		metrics, err := p.fundamentals.Fundamentals(ctx, symbol)
		switch {
		case errors.Is(err, models.ErrSymbolUnavailable):
			// no fundamentals published for this symbol: the gate does not
			// apply, screening continues on technicals alone
		case err != nil:
			return nil, nil, err
		default:
			if !policy.EvaluateFinancial(metrics, finThresholds) {
				return nil, nil, nil
			}
			metrics.Thresholds = finThresholds
			fin = metrics
		}
	}

	now := time.Now().UTC()
	frames := make(map[string]*models.IndicatorSet)
	frameSkips := make(map[string]string)
	for _, tf := range params.TimeFrames {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		settings, ok := p.cfg.Frames[tf]
		if !ok {
			continue
		}
		series, err := p.prices.History(ctx, symbol, tf, now.Add(-settings.Lookback), now)
		if err != nil {
			frameSkips[string(tf)] = err.Error()
			continue
		}
		set, err := indicators.Compute(models.Closes(series), settings.Periods, params.Selection)
		if err != nil {
			frameSkips[string(tf)] = err.Error()
			continue
		}
		if policy.EvaluateTechnical(set, settings.Thresholds, params.Selection) {
			frames[string(tf)] = set
		}
	}
	if len(frames) == 0 {
		return nil, frameSkips, nil
	}

	return &models.FilterResult{
		Meta:       models.FilterMeta{Stock: symbol, FilterTime: now},
		Financials: fin,
		Frames:     frames,
	}, frameSkips, nil
}
