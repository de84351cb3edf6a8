package tally

import "time"

// recentWindow describes one fixed sliding window: the key suffix of its
// timestamp log and the span of time it covers.
type recentWindow struct {
	suffix string
	span   time.Duration
}

// Indices into recentWindows.
const (
	lastFiveSeconds = iota
	lastHour
	lastDay
	lastWeek
	lastMonth
)

// The five tracked windows. The set is fixed: every increment appends to all
// of them, and the key suffixes are part of the on-store layout.
var recentWindows = [...]recentWindow{
	lastFiveSeconds: {suffix: ":last_five_seconds", span: 5 * time.Second},
	lastHour:        {suffix: ":last_hour", span: time.Hour},
	lastDay:         {suffix: ":last_day", span: 24 * time.Hour},
	lastWeek:        {suffix: ":last_week", span: 7 * 24 * time.Hour},
	// "Month" is really the last 30 days.
	lastMonth: {suffix: ":last_month", span: 30 * 24 * time.Hour},
}
