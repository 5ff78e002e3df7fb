package models

import "errors"

// Domain error kinds. Callers match with errors.Is; the pipeline skips a
// symbol on any of them instead of aborting the run.
var (
	// ErrInsufficientHistory: the series is too short for the requested
	// indicator (e.g. RSI needs period+1 closes).
	ErrInsufficientHistory = errors.New("insufficient history for indicator")

	// ErrDivisionUndefined: a ratio indicator hit a zero denominator.
	ErrDivisionUndefined = errors.New("indicator division undefined")

	// ErrSymbolUnavailable: the provider does not know the symbol.
	ErrSymbolUnavailable = errors.New("symbol unavailable")

	// ErrRateLimited: the provider throttled us and retries were exhausted.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrInvalidRange: start date after end date.
	ErrInvalidRange = errors.New("start date after end date")

	// ErrNoPriceData: no price points inside the requested window.
	ErrNoPriceData = errors.New("no price data in range")
)
