// Package counter supply durable counters addressed by name.
//
// Every name maps to one entity which owns a single integer stored under
// ValueKey. Operations on the same entity are executed one at a time by the
// Executor, operations on different entities run in parallel.
package counter

import (
	"context"
	"errors"
)

// ValueKey is the storage key of the counter value inside an entity
const ValueKey = "value"

// DefaultAmount is the delta of Increment and Decrement when none is given
const DefaultAmount int64 = 1

var (
	// ErrInvalidID the identifier is not produced by IDFromName
	ErrInvalidID = errors.New("invalid counter id")
	// ErrExecutorStopped the executor is not running
	ErrExecutorStopped = errors.New("executor stopped")
	// ErrOverflow the result is out of the int64 range
	ErrOverflow = errors.New("counter overflow")
)

// Counter is the entity operations
type Counter interface {
	// Read return the current value, 0 if never stored
	Read(ctx context.Context) (int64, error)
	// Increment add amount and return the new value
	Increment(ctx context.Context, amount int64) (int64, error)
	// Decrement subtract amount and return the new value
	Decrement(ctx context.Context, amount int64) (int64, error)
}

// Storage is the keyed object store of the entities
type Storage interface {
	// Load the value of key in entity id, ok is false if it was never stored
	Load(ctx context.Context, id ID, key string) (value int64, ok bool, err error)

	// Store insert or update the value of key in entity id
	Store(ctx context.Context, id ID, key string, value int64) error

	// Close release the resources
	Close() error
}
