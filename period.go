package tally

import "time"

// period describes one calendar-bucket granularity: the key suffix under
// which its buckets live, the key of the index list recording every bucket
// touched, and the time.Format layout that derives a bucket label.
type period struct {
	suffix     string
	listSuffix string
	layout     string
}

// Indices into periods.
const (
	hourly = iota
	daily
	weekly
	monthly
)

// The four tracked granularities. Suffixes and layouts are part of the
// on-store layout and must not change.
//
// Week buckets use the day layout. That is how the original RedisCounter
// scheme keyed them, so a "week" bucket really aggregates per day under the
// historical_week suffix; it is kept verbatim so existing keys stay valid.
var periods = [...]period{
	hourly:  {suffix: ":historical_hour:", listSuffix: ":historical_hours_list", layout: "2006010215"},
	daily:   {suffix: ":historical_day:", listSuffix: ":historical_days_list", layout: "20060102"},
	weekly:  {suffix: ":historical_week:", listSuffix: ":historical_weeks_list", layout: "20060102"},
	monthly: {suffix: ":historical_month:", listSuffix: ":historical_months_list", layout: "200601"},
}

// label formats t into the bucket label for this granularity.
// Labels are derived from local time.
func (p period) label(t time.Time) string {
	return t.Local().Format(p.layout)
}
