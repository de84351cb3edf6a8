package tally

import (
	"time"

	"github.com/tallyhq/tally/store"
)

// Option configures a Counter.
type Option func(*Counter)

// WithStore sets the backing store for counter state.
// If not provided, an in-memory store is used by default.
func WithStore(s store.Store) Option {
	return func(c *Counter) {
		c.store = s
	}
}

// WithNow sets the clock used to timestamp increments and evaluate windows.
// Intended for tests that need to simulate the passage of time.
func WithNow(now func() time.Time) Option {
	return func(c *Counter) {
		c.now = now
	}
}
