// Package store defines the [Store] interface for counter storage backends
// and provides three implementations:
//
//   - [MemoryStore]: fast, in-memory state that is lost on restart.
//   - [SQLiteStore]: persistent state backed by a SQLite database.
//   - [RedisStore]: shared state in Redis, compatible with the classic
//     RedisCounter key layout.
//
// Custom backends can be created by implementing the [Store] interface.
package store
