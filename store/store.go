package store

import "context"

// Store defines the key-value backend a Counter runs against. Keys hold
// either a scalar string value or an ordered list of strings; the two
// namespaces are not distinguished by the interface, the counter's key
// layout keeps them apart.
//
// Atomicity contract: Incr, SetNX, and each individual list operation must
// be atomic per call. No atomicity across calls is assumed.
type Store interface {
	// Get returns the scalar value stored at key. ok is false if the key
	// does not exist.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores a scalar value at key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// SetNX stores value at key only if the key does not exist.
	// It reports whether the value was set.
	SetNX(ctx context.Context, key, value string) (bool, error)

	// Incr atomically increments the integer stored at key by one and
	// returns the new value. A missing key counts from 0.
	Incr(ctx context.Context, key string) (int64, error)

	// Exists reports whether key holds a value or a non-empty list.
	Exists(ctx context.Context, key string) (bool, error)

	// Append pushes value onto the tail of the list at key, creating the
	// list if needed.
	Append(ctx context.Context, key, value string) error

	// PopFront removes and returns the head of the list at key.
	// ok is false if the list is empty or absent.
	PopFront(ctx context.Context, key string) (value string, ok bool, err error)

	// PushFront prepends value to the list at key. Used to restore an
	// entry examined via PopFront.
	PushFront(ctx context.Context, key, value string) error

	// Last returns the tail element of the list at key without removing it.
	// ok is false if the list is empty or absent.
	Last(ctx context.Context, key string) (value string, ok bool, err error)

	// Len returns the length of the list at key. An absent list has length 0.
	Len(ctx context.Context, key string) (int64, error)

	// Delete removes the given keys. Deleting an absent key is a no-op.
	Delete(ctx context.Context, keys ...string) error

	// Close releases any resources held by the store.
	Close() error
}
