package indicators

import (
	"EquiScreen/internal/domain/models"
)

// emaSeries computes the exponential moving average of closes with
// alpha = 2/(period+1), seeded with the simple average of the first `period`
// closes. The returned slice is aligned to closes; entries before start are
// zero and carry no meaning. When fewer than `period` closes exist the seed
// falls back to the average of everything available and lowConf is set.
func emaSeries(closes []float64, period int) (values []float64, start int, lowConf bool, err error) {
	if period <= 0 {
		return nil, 0, false, models.ErrInsufficientHistory
	}
	n := len(closes)
	if n == 0 {
		return nil, 0, false, models.ErrInsufficientHistory
	}

	seedLen := period
	if n < period {
		seedLen = n
		lowConf = true
	}

	values = make([]float64, n)
	start = seedLen - 1

	var sum float64
	for i := 0; i < seedLen; i++ {
		sum += closes[i]
	}
	values[start] = sum / float64(seedLen)

	mult := 2.0 / (float64(period) + 1.0)
	for i := start + 1; i < n; i++ {
		values[i] = (closes[i]-values[i-1])*mult + values[i-1]
	}
	return values, start, lowConf, nil
}

// EMA returns the latest exponential moving average of closes.
func EMA(closes []float64, period int) (float64, bool, error) {
	values, _, lowConf, err := emaSeries(closes, period)
	if err != nil {
		return 0, false, err
	}
	return values[len(values)-1], lowConf, nil
}
