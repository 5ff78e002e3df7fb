package repository

// Timeframe represents price series resolution buckets.
type Timeframe string

const (
	TFDaily   Timeframe = "daily"
	TFWeekly  Timeframe = "weekly"
	TFMonthly Timeframe = "monthly"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TFDaily, TFWeekly, TFMonthly:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TFDaily }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// NormalizeTimeframes maps raw strings to valid timeframes, dropping
// duplicates and substituting the default for unknown values.
func NormalizeTimeframes(raw []string) []Timeframe {
	if len(raw) == 0 {
		return []Timeframe{DefaultTimeframe()}
	}
	seen := make(map[Timeframe]bool, len(raw))
	out := make([]Timeframe, 0, len(raw))
	for _, s := range raw {
		tf := NormalizeTimeframe(s)
		if !seen[tf] {
			seen[tf] = true
			out = append(out, tf)
		}
	}
	return out
}
