package tally

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tallyhq/tally/store"
)

// keyPrefix namespaces every counter's key family in the backing store.
// It matches the layout of the original RedisCounter scheme so that data
// written by existing deployments stays readable.
const keyPrefix = "RedisCounter:"

// Counter measures event counts over different spans of time. It keeps a
// running total, a timestamp log per sliding window, and a pre-aggregated
// bucket per calendar hour, day, week, and month, all in the backing store.
//
// A Counter expects at most one logical writer stream at a time; the store
// itself may be shared between processes. Increment is a sequence of
// individually atomic store operations, not a transaction: a failure mid-way
// leaves the completed steps in place.
type Counter struct {
	name  string
	key   string
	store store.Store
	now   func() time.Time
}

// New creates a Counter with the given name and options.
// If no store is provided, an in-memory store is used.
func New(name string, opts ...Option) *Counter {
	c := &Counter{
		name: name,
		key:  keyPrefix + name,
		now:  time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if c.store == nil {
		c.store = store.NewMemoryStore()
	}
	return c
}

// Name returns the counter's name.
func (c *Counter) Name() string {
	return c.name
}

// Increment records one event at the current instant and returns the new
// total count. All sliding windows and periodic buckets observe the same
// timestamp. A store error aborts the remaining steps; completed steps are
// not rolled back.
func (c *Counter) Increment(ctx context.Context) (int64, error) {
	now := c.now()
	stamp := strconv.FormatFloat(epochSeconds(now), 'f', -1, 64)

	for _, w := range recentWindows {
		if err := c.store.Append(ctx, c.key+w.suffix, stamp); err != nil {
			return 0, fmt.Errorf("tally: record window event: %w", err)
		}
	}

	for _, p := range periods {
		bucketKey := c.key + p.suffix + p.label(now)
		if err := c.initIfNeeded(ctx, bucketKey); err != nil {
			return 0, err
		}
		if _, err := c.store.Incr(ctx, bucketKey); err != nil {
			return 0, fmt.Errorf("tally: increment bucket: %w", err)
		}

		// Register the bucket in the granularity's index list, unless it is
		// already the most recent entry. The check is against the tail only;
		// out-of-order increments may register a bucket twice, which is
		// harmless for deletion (draining the list deletes each entry, and
		// deleting an absent key is a no-op).
		listKey := c.key + p.listSuffix
		tail, _, err := c.store.Last(ctx, listKey)
		if err != nil {
			return 0, fmt.Errorf("tally: read bucket index: %w", err)
		}
		if tail != bucketKey {
			if err := c.store.Append(ctx, listKey, bucketKey); err != nil {
				return 0, fmt.Errorf("tally: register bucket: %w", err)
			}
		}
	}

	if err := c.initIfNeeded(ctx, c.key); err != nil {
		return 0, err
	}
	total, err := c.store.Incr(ctx, c.key)
	if err != nil {
		return 0, fmt.Errorf("tally: increment total: %w", err)
	}
	return total, nil
}

// CurrentCount returns the total number of events recorded. A counter that
// has never been incremented reads as 0.
func (c *Counter) CurrentCount(ctx context.Context) (int64, error) {
	v, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return 0, fmt.Errorf("tally: current count: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return parseCount(v), nil
}

// Reset deletes the counter's entire state and re-initialises the total to 0.
func (c *Counter) Reset(ctx context.Context) error {
	if err := c.Delete(ctx); err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key, "0"); err != nil {
		return fmt.Errorf("tally: reset: %w", err)
	}
	return nil
}

// Delete removes the counter's entire key family from the store: the total,
// every sliding-window log, every periodic bucket ever touched, and the
// bucket index lists themselves.
func (c *Counter) Delete(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("tally: delete total: %w", err)
	}
	for _, w := range recentWindows {
		if err := c.store.Delete(ctx, c.key+w.suffix); err != nil {
			return fmt.Errorf("tally: delete window: %w", err)
		}
	}
	for _, p := range periods {
		listKey := c.key + p.listSuffix
		for {
			bucketKey, ok, err := c.store.PopFront(ctx, listKey)
			if err != nil {
				return fmt.Errorf("tally: drain bucket index: %w", err)
			}
			if !ok {
				break
			}
			if err := c.store.Delete(ctx, bucketKey); err != nil {
				return fmt.Errorf("tally: delete bucket: %w", err)
			}
		}
	}
	return nil
}

// Close releases resources held by the counter's store.
func (c *Counter) Close() error {
	return c.store.Close()
}

// initIfNeeded sets key to "0" only if it does not already exist. SetNX keeps
// the init safe against a concurrent increment on the same key.
func (c *Counter) initIfNeeded(ctx context.Context, key string) error {
	if _, err := c.store.SetNX(ctx, key, "0"); err != nil {
		return fmt.Errorf("tally: init %s: %w", key, err)
	}
	return nil
}

//
// Sliding window reads.
//

// CountInLastFiveSeconds returns the number of events in the last 5 seconds.
func (c *Counter) CountInLastFiveSeconds(ctx context.Context) (int64, error) {
	return c.countInWindow(ctx, recentWindows[lastFiveSeconds])
}

// CountInLastHour returns the number of events in the last hour.
func (c *Counter) CountInLastHour(ctx context.Context) (int64, error) {
	return c.countInWindow(ctx, recentWindows[lastHour])
}

// CountInLastDay returns the number of events in the last 24 hours.
func (c *Counter) CountInLastDay(ctx context.Context) (int64, error) {
	return c.countInWindow(ctx, recentWindows[lastDay])
}

// CountInLastWeek returns the number of events in the last 7 days.
func (c *Counter) CountInLastWeek(ctx context.Context) (int64, error) {
	return c.countInWindow(ctx, recentWindows[lastWeek])
}

// CountInLastMonth returns the number of events in the last 30 days.
func (c *Counter) CountInLastMonth(ctx context.Context) (int64, error) {
	return c.countInWindow(ctx, recentWindows[lastMonth])
}

// RecentCounts holds the counts of all five sliding windows at one instant.
type RecentCounts struct {
	FiveSeconds int64
	Hour        int64
	Day         int64
	Week        int64
	Month       int64
}

// Recent returns the counts of all five sliding windows.
func (c *Counter) Recent(ctx context.Context) (RecentCounts, error) {
	var out RecentCounts
	for i, dst := range []*int64{&out.FiveSeconds, &out.Hour, &out.Day, &out.Week, &out.Month} {
		n, err := c.countInWindow(ctx, recentWindows[i])
		if err != nil {
			return RecentCounts{}, err
		}
		*dst = n
	}
	return out, nil
}

// countInWindow evicts stale entries from the head of the window's timestamp
// log, then reports its length. O(k) in the number of events that fell out of
// the window since the last read; reads are expected to be infrequent.
func (c *Counter) countInWindow(ctx context.Context, w recentWindow) (int64, error) {
	listKey := c.key + w.suffix
	cutoff := epochSeconds(c.now()) - w.span.Seconds()

	for {
		head, ok, err := c.store.PopFront(ctx, listKey)
		if err != nil {
			return 0, fmt.Errorf("tally: trim window: %w", err)
		}
		if !ok {
			break
		}
		ts, perr := strconv.ParseFloat(head, 64)
		if perr != nil {
			// An unparseable entry ends the valid data.
			break
		}
		if ts >= cutoff {
			// Still inside the window; undo the pop and stop trimming.
			if err := c.store.PushFront(ctx, listKey, head); err != nil {
				return 0, fmt.Errorf("tally: restore window head: %w", err)
			}
			break
		}
	}

	n, err := c.store.Len(ctx, listKey)
	if err != nil {
		return 0, fmt.Errorf("tally: window length: %w", err)
	}
	return n, nil
}

//
// Periodic bucket reads.
//

// CountsForHour returns the count recorded during the calendar hour
// containing t. Hours with no events read as 0.
func (c *Counter) CountsForHour(ctx context.Context, t time.Time) (int64, error) {
	return c.countForPeriod(ctx, periods[hourly], t)
}

// CountsForDay returns the count recorded during the calendar day containing t.
func (c *Counter) CountsForDay(ctx context.Context, t time.Time) (int64, error) {
	return c.countForPeriod(ctx, periods[daily], t)
}

// CountsForWeek returns the count recorded in the week bucket containing t.
// Week buckets are keyed by day (see the layout notes in this package), so
// this reads the week-suffixed bucket for t's calendar day.
func (c *Counter) CountsForWeek(ctx context.Context, t time.Time) (int64, error) {
	return c.countForPeriod(ctx, periods[weekly], t)
}

// CountsForMonth returns the count recorded during the calendar month
// containing t.
func (c *Counter) CountsForMonth(ctx context.Context, t time.Time) (int64, error) {
	return c.countForPeriod(ctx, periods[monthly], t)
}

// PeriodicCounts holds the bucket counts of all four granularities for one
// timestamp.
type PeriodicCounts struct {
	Hour  int64
	Day   int64
	Week  int64
	Month int64
}

// Periodic returns the bucket counts of all four granularities for the
// buckets containing t.
func (c *Counter) Periodic(ctx context.Context, t time.Time) (PeriodicCounts, error) {
	var out PeriodicCounts
	for i, dst := range []*int64{&out.Hour, &out.Day, &out.Week, &out.Month} {
		n, err := c.countForPeriod(ctx, periods[i], t)
		if err != nil {
			return PeriodicCounts{}, err
		}
		*dst = n
	}
	return out, nil
}

func (c *Counter) countForPeriod(ctx context.Context, p period, t time.Time) (int64, error) {
	v, ok, err := c.store.Get(ctx, c.key+p.suffix+p.label(t))
	if err != nil {
		return 0, fmt.Errorf("tally: bucket count: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return parseCount(v), nil
}

// epochSeconds converts t to floating-point seconds since the Unix epoch,
// the representation window log entries are stored in.
func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// parseCount reads a stored counter value. Malformed values read as 0 so
// that read paths stay total.
func parseCount(v string) int64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
