package indicators

import (
	"errors"

	"EquiScreen/internal/domain/models"
)

// Periods bundles the lookback windows for one time frame.
type Periods struct {
	EMA        int
	RSI        int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// Selection marks which indicators a run asked for. Unselected indicators
// are not computed and stay nil in the result.
type Selection struct {
	BIAS bool
	RSI  bool
	MACD bool
}

// SelectionFrom builds a Selection from request names ("bias", "rsi", "macd").
func SelectionFrom(names []string) Selection {
	var sel Selection
	for _, n := range names {
		switch n {
		case "bias":
			sel.BIAS = true
		case "rsi":
			sel.RSI = true
		case "macd":
			sel.MACD = true
		}
	}
	return sel
}

// Compute evaluates the selected indicators over an ascending close series.
// An indicator that is undefined for the series (too short, zero EMA) is
// left nil rather than failing the whole set; an empty series is an error.
func Compute(closes []float64, p Periods, sel Selection) (*models.IndicatorSet, error) {
	if len(closes) == 0 {
		return nil, models.ErrInsufficientHistory
	}

	set := &models.IndicatorSet{}

	if sel.BIAS {
		bias, lowConf, err := BIAS(closes, p.EMA)
		if err != nil && !undefined(err) {
			return nil, err
		}
		set.BIAS = bias
		set.LowConfidence = set.LowConfidence || lowConf
	}

	if sel.RSI {
		rsi, err := RSI(closes, p.RSI)
		if err != nil && !undefined(err) {
			return nil, err
		}
		set.RSI = rsi
	}

	if sel.MACD {
		macd, lowConf, err := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
		if err != nil && !undefined(err) {
			return nil, err
		}
		set.MACD = macd
		set.LowConfidence = set.LowConfidence || lowConf
	}

	return set, nil
}

func undefined(err error) bool {
	return errors.Is(err, models.ErrInsufficientHistory) ||
		errors.Is(err, models.ErrDivisionUndefined)
}
