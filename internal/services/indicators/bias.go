package indicators

import (
	"EquiScreen/internal/domain/models"
)

// BIAS returns the percentage deviation of the latest close from its EMA:
// (close - ema) / ema * 100. A zero EMA has no defined deviation and yields
// ErrDivisionUndefined.
func BIAS(closes []float64, period int) (*models.BIASValue, bool, error) {
	ema, lowConf, err := EMA(closes, period)
	if err != nil {
		return nil, false, err
	}
	if ema == 0 {
		return nil, lowConf, models.ErrDivisionUndefined
	}
	latest := closes[len(closes)-1]
	return &models.BIASValue{
		Bias:   (latest - ema) / ema * 100.0,
		Period: period,
	}, lowConf, nil
}
