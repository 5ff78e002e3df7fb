package indicators

import (
	"EquiScreen/internal/domain/models"
)

// MACD computes the moving average convergence divergence: the MACD line is
// EMA(fast) - EMA(slow), the signal line is an EMA of the MACD line, and the
// histogram is their difference. All EMAs follow the same seeding rule as
// EMA, so short series still produce a value flagged low-confidence.
func MACD(closes []float64, fast, slow, signal int) (*models.MACDValue, bool, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow {
		return nil, false, models.ErrInsufficientHistory
	}

	fastSeries, fastStart, fastLow, err := emaSeries(closes, fast)
	if err != nil {
		return nil, false, err
	}
	slowSeries, slowStart, slowLow, err := emaSeries(closes, slow)
	if err != nil {
		return nil, false, err
	}

	start := fastStart
	if slowStart > start {
		start = slowStart
	}
	line := make([]float64, 0, len(closes)-start)
	for i := start; i < len(closes); i++ {
		line = append(line, fastSeries[i]-slowSeries[i])
	}

	signalSeries, _, signalLow, err := emaSeries(line, signal)
	if err != nil {
		return nil, false, err
	}

	value := line[len(line)-1]
	sig := signalSeries[len(signalSeries)-1]
	return &models.MACDValue{
		Value:        value,
		Signal:       sig,
		Histogram:    value - sig,
		FastPeriod:   fast,
		SlowPeriod:   slow,
		SignalPeriod: signal,
	}, fastLow || slowLow || signalLow, nil
}
