package models

import "time"

// PricePoint represents one OHLCV record of a symbol at a given resolution.
type PricePoint struct {
	Symbol   string
	TF       string // "daily", "weekly", "monthly"
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// Closes extracts the close column from an ascending series.
func Closes(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Close
	}
	return out
}

// FirstOnOrAfter returns the earliest point with Date >= t, or false.
func FirstOnOrAfter(points []PricePoint, t time.Time) (PricePoint, bool) {
	for _, p := range points {
		if !p.Date.Before(t) {
			return p, true
		}
	}
	return PricePoint{}, false
}

// LastOnOrBefore returns the latest point with Date <= t, or false.
func LastOnOrBefore(points []PricePoint, t time.Time) (PricePoint, bool) {
	for i := len(points) - 1; i >= 0; i-- {
		if !points[i].Date.After(t) {
			return points[i], true
		}
	}
	return PricePoint{}, false
}
