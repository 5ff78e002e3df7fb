package marketdata

import (
	"EquiScreen/internal/domain/models"
	drepo "EquiScreen/internal/domain/repository"
)

// Resample folds an ascending daily series into the requested resolution.
// Weekly buckets follow ISO weeks, monthly buckets calendar months; each
// bucket keeps the first open, last close, extreme high/low, summed volume
// and is dated at its last trading day. Daily input passes through.
func Resample(daily []models.PricePoint, tf drepo.Timeframe) []models.PricePoint {
	if tf == drepo.TFDaily || len(daily) == 0 {
		return daily
	}

	out := make([]models.PricePoint, 0, len(daily)/5+1)
	var current models.PricePoint
	var currentKey [2]int
	open := false

	for _, p := range daily {
		key := bucketKey(p, tf)
		if !open || key != currentKey {
			if open {
				out = append(out, current)
			}
			current = p
			current.TF = string(tf)
			currentKey = key
			open = true
			continue
		}
		if p.High > current.High {
			current.High = p.High
		}
		if p.Low < current.Low {
			current.Low = p.Low
		}
		current.Close = p.Close
		current.AdjClose = p.AdjClose
		current.Volume += p.Volume
		current.Date = p.Date
	}
	if open {
		out = append(out, current)
	}
	return out
}

func bucketKey(p models.PricePoint, tf drepo.Timeframe) [2]int {
	if tf == drepo.TFWeekly {
		year, week := p.Date.ISOWeek()
		return [2]int{year, week}
	}
	return [2]int{p.Date.Year(), int(p.Date.Month())}
}
