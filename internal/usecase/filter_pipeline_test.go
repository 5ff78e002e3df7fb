package usecase

import (
	"context"
	"testing"
	"time"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
	"EquiScreen/internal/services/indicators"
	"EquiScreen/internal/services/policy"
)

func pipelineConfig() FilterConfig {
	return FilterConfig{
		Workers:  4,
		CacheTTL: time.Hour,
		Frames: map[domrepo.Timeframe]FrameSettings{
			domrepo.TFDaily: {
				Periods:    indicators.Periods{EMA: 12, RSI: 14, MACDFast: 12, MACDSlow: 26, MACDSignal: 9},
				Thresholds: policy.Thresholds{BiasThreshold: -5, RSIOversold: 30},
				Lookback:   365 * 24 * time.Hour,
			},
		},
	}
}

// fallingCloses accelerates downward so the MACD line keeps dropping away
// from its signal line.
func fallingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 - 0.02*float64(i)*float64(i)
	}
	return out
}

func risingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 30 + 0.02*float64(i)*float64(i)
	}
	return out
}

func allLegs() indicators.Selection {
	return indicators.Selection{BIAS: true, RSI: true, MACD: true}
}

func newTestPipeline(prices *fakePrices, fun *fakeFundamentals, cfg FilterConfig) (*FilterPipeline, *fakeFilterCache, *fakePublisher) {
	cache := newFakeFilterCache()
	pub := &fakePublisher{}
	if fun == nil {
		fun = &fakeFundamentals{}
	}
	return NewFilterPipeline(prices, fun, cache, pub, cfg, nil), cache, pub
}

func TestRunPassesOversoldSymbolOnly(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := &fakePrices{series: map[string][]models.PricePoint{
		"FALL": dailySeries("FALL", start, fallingCloses(60)...),
		"RISE": dailySeries("RISE", start, risingCloses(60)...),
	}}
	p, cache, pub := newTestPipeline(prices, nil, pipelineConfig())

	run, err := p.Run(context.Background(), RunParams{
		Symbols:    []string{"FALL", "RISE"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFDaily},
		Selection:  allLegs(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	result, ok := run.Passed["FALL"]
	if !ok {
		t.Fatalf("declining symbol should pass, got passed=%v skipped=%v", run.Passed, run.Skipped)
	}
	set := result.Frames["daily"]
	if set == nil || set.BIAS == nil || set.RSI == nil || set.MACD == nil {
		t.Fatalf("passing frame incomplete: %+v", set)
	}
	if set.BIAS.Bias > -5 {
		t.Errorf("bias = %v, expected <= -5", set.BIAS.Bias)
	}
	if set.RSI.Value >= 30 {
		t.Errorf("rsi = %v, expected < 30", set.RSI.Value)
	}
	if set.MACD.Value >= set.MACD.Signal {
		t.Errorf("macd %v should sit below signal %v", set.MACD.Value, set.MACD.Signal)
	}

	if _, ok := run.Passed["RISE"]; ok {
		t.Errorf("rising symbol must not pass")
	}
	if _, ok := run.Skipped["RISE"]; ok {
		t.Errorf("rejected symbol is not an error: %v", run.Skipped)
	}

	if cache.stored["FALL"] == nil {
		t.Errorf("passing result not cached")
	}
	if len(pub.published) != 1 || pub.published[0] != "FALL" {
		t.Errorf("published = %v, want [FALL]", pub.published)
	}
}

func TestRunSkipsFailingSymbolAndContinues(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := &fakePrices{
		series: map[string][]models.PricePoint{
			"FALL": dailySeries("FALL", start, fallingCloses(60)...),
		},
		errs: map[string]error{"BAD": models.ErrSymbolUnavailable},
	}
	p, _, _ := newTestPipeline(prices, nil, pipelineConfig())

	run, err := p.Run(context.Background(), RunParams{
		Symbols:    []string{"BAD", "FALL"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFDaily},
		Selection:  allLegs(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := run.Skipped["BAD/daily"]; !ok {
		t.Errorf("failing frame must be reported skipped, got %v", run.Skipped)
	}
	if _, ok := run.Passed["BAD"]; ok {
		t.Errorf("symbol with no screened frame must not pass")
	}
	if _, ok := run.Passed["FALL"]; !ok {
		t.Errorf("run must continue past a failing symbol")
	}
}

func TestRunFrameFailureKeepsOtherFrames(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := &fakePrices{
		series: map[string][]models.PricePoint{
			"FALL": dailySeries("FALL", start, fallingCloses(60)...),
		},
		tfErrs: map[string]error{"FALL/weekly": models.ErrRateLimited},
	}
	cfg := pipelineConfig()
	cfg.Frames[domrepo.TFWeekly] = cfg.Frames[domrepo.TFDaily]
	p, _, _ := newTestPipeline(prices, nil, cfg)

	run, err := p.Run(context.Background(), RunParams{
		Symbols:    []string{"FALL"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFDaily, domrepo.TFWeekly},
		Selection:  allLegs(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	result, ok := run.Passed["FALL"]
	if !ok {
		t.Fatalf("daily frame must survive a weekly fetch failure, got passed=%v skipped=%v", run.Passed, run.Skipped)
	}
	if result.Frames["daily"] == nil {
		t.Errorf("daily frame missing from result: %+v", result.Frames)
	}
	if result.Frames["weekly"] != nil {
		t.Errorf("failed weekly frame must not appear in result")
	}
	if _, ok := run.Skipped["FALL/weekly"]; !ok {
		t.Errorf("failed frame must be reported under symbol/tf, got %v", run.Skipped)
	}
	if _, ok := run.Skipped["FALL"]; ok {
		t.Errorf("symbol with a passing frame must not be skipped wholesale")
	}
}

func TestRunFinancialGate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := &fakePrices{series: map[string][]models.PricePoint{
		"RICH": dailySeries("RICH", start, fallingCloses(60)...),
		"POOR": dailySeries("POOR", start, fallingCloses(60)...),
	}}
	fun := &fakeFundamentals{metrics: map[string]*models.FinancialMetrics{
		"RICH": {GrossMargin: 0.55, ROE: 0.25, RDRatio: 0.2},
		"POOR": {GrossMargin: 0.05, ROE: 0.25, RDRatio: 0.2},
	}}
	cfg := pipelineConfig()
	gm := 0.3
	cfg.Financial = models.FinancialThresholds{GrossMargin: &gm}
	p, _, _ := newTestPipeline(prices, fun, cfg)

	run, err := p.Run(context.Background(), RunParams{
		Symbols:    []string{"RICH", "POOR"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFDaily},
		Selection:  allLegs(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	result, ok := run.Passed["RICH"]
	if !ok {
		t.Fatalf("symbol above thresholds should pass")
	}
	if result.Financials == nil || result.Financials.GrossMargin != 0.55 {
		t.Errorf("fundamentals not attached: %+v", result.Financials)
	}
	if result.Financials.Thresholds.GrossMargin == nil || *result.Financials.Thresholds.GrossMargin != 0.3 {
		t.Errorf("applied thresholds not echoed: %+v", result.Financials.Thresholds)
	}
	if _, ok := run.Passed["POOR"]; ok {
		t.Errorf("symbol below gross-margin threshold must be rejected")
	}
	if _, ok := run.Skipped["POOR"]; ok {
		t.Errorf("fundamental rejection is not an error")
	}
}

func TestRunMissingFundamentalsScreensTechnicalsOnly(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := &fakePrices{series: map[string][]models.PricePoint{
		"FALL": dailySeries("FALL", start, fallingCloses(60)...),
		"NET":  dailySeries("NET", start, fallingCloses(60)...),
	}}
	fun := &fakeFundamentals{errs: map[string]error{"NET": models.ErrRateLimited}}
	cfg := pipelineConfig()
	gm := 0.3
	cfg.Financial = models.FinancialThresholds{GrossMargin: &gm}
	p, _, _ := newTestPipeline(prices, fun, cfg)

	run, err := p.Run(context.Background(), RunParams{
		Symbols:    []string{"FALL", "NET"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFDaily},
		Selection:  allLegs(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	result, ok := run.Passed["FALL"]
	if !ok {
		t.Fatalf("symbol without published fundamentals must still be screened technically, got passed=%v skipped=%v", run.Passed, run.Skipped)
	}
	if result.Financials != nil {
		t.Errorf("no fundamentals were fetched, none should be attached: %+v", result.Financials)
	}
	if _, ok := run.Skipped["FALL"]; ok {
		t.Errorf("missing fundamentals are not an error: %v", run.Skipped)
	}
	if _, ok := run.Skipped["NET"]; !ok {
		t.Errorf("throttled fundamentals fetch must still skip the symbol")
	}
}

func TestRunFinancialOverride(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := &fakePrices{series: map[string][]models.PricePoint{
		"MID": dailySeries("MID", start, fallingCloses(60)...),
	}}
	fun := &fakeFundamentals{metrics: map[string]*models.FinancialMetrics{
		"MID": {GrossMargin: 0.35},
	}}
	cfg := pipelineConfig()
	gm := 0.3
	cfg.Financial = models.FinancialThresholds{GrossMargin: &gm}
	p, _, _ := newTestPipeline(prices, fun, cfg)

	strict := 0.5
	run, err := p.Run(context.Background(), RunParams{
		Symbols:    []string{"MID"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFDaily},
		Selection:  allLegs(),
		Financial:  &models.FinancialFilterRequest{GrossMargin: &strict},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(run.Passed) != 0 {
		t.Errorf("override to 0.5 must reject a 0.35 gross margin")
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prices := &fakePrices{}
	p, _, _ := newTestPipeline(prices, nil, pipelineConfig())
	_, err := p.Run(ctx, RunParams{
		Symbols:    []string{"A", "B"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFDaily},
		Selection:  allLegs(),
	})
	if err == nil {
		t.Fatalf("cancelled run must surface the context error")
	}
}

func TestRunUnconfiguredFrameYieldsNoPass(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := &fakePrices{series: map[string][]models.PricePoint{
		"FALL": dailySeries("FALL", start, fallingCloses(60)...),
	}}
	p, _, _ := newTestPipeline(prices, nil, pipelineConfig())

	run, err := p.Run(context.Background(), RunParams{
		Symbols:    []string{"FALL"},
		TimeFrames: []domrepo.Timeframe{domrepo.TFMonthly},
		Selection:  allLegs(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(run.Passed) != 0 {
		t.Errorf("time frame without settings must not produce passes")
	}
}
