// Package tally implements a time-windowed event counter backed by a shared
// key-value store. A [Counter] records discrete increment events and answers
// two kinds of questions: how many events happened in the last N seconds
// (sliding windows over a live timestamp log, trimmed lazily on read), and
// how many events happened during a given calendar hour, day, week, or month
// (pre-aggregated buckets).
//
// The design targets write-heavy, read-light workloads such as page-view or
// API-call counters: a write is a short, bounded sequence of O(1) backend
// operations, while a read may do work proportional to the number of events
// that have fallen out of the window since the last read.
//
// # Key Concepts
//
//   - [Counter] is the entry point. It is identified by a name and keeps its
//     entire state family in the backing store under a fixed key layout.
//   - Sliding windows (last 5 seconds, hour, day, week, and 30 days) count
//     events from a per-window log of timestamps. Stale entries are evicted
//     from the head of the log when the window is read, never on write.
//   - Periodic buckets hold an exact running count per calendar hour, day,
//     week, and month, plus an index list of every bucket ever touched so
//     deletion can find them again.
//   - [store.Store] is the storage backend. An in-memory store is the
//     default; SQLite and Redis backends are available for persistence and
//     for sharing counters across processes.
//
// # Quick Start
//
//	counter := tally.New("pageviews")
//	defer counter.Close()
//
//	ctx := context.Background()
//	total, err := counter.Increment(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	lastHour, _ := counter.CountInLastHour(ctx)
//	today, _ := counter.CountsForDay(ctx, time.Now())
//	fmt.Println(total, lastHour, today)
//
// The key layout in the store is compatible with the classic RedisCounter
// scheme, so a Redis-backed Counter can read and extend data written by
// existing deployments of it.
package tally
