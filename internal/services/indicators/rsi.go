package indicators

import (
	"EquiScreen/internal/domain/models"
)

// RSI computes the Wilder-smoothed relative strength index over the given
// period. Requires at least period+1 closes; a series that never lost value
// saturates at 100.
func RSI(closes []float64, period int) (*models.RSIValue, error) {
	if period <= 0 {
		return nil, models.ErrInsufficientHistory
	}
	if len(closes) < period+1 {
		return nil, models.ErrInsufficientHistory
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for the remaining closes
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return &models.RSIValue{Value: 100.0, Period: period}, nil
	}
	rs := avgGain / avgLoss
	return &models.RSIValue{
		Value:  100.0 - 100.0/(1.0+rs),
		Period: period,
	}, nil
}
