package counter

import (
	"context"
	"fmt"
)

// Entity is the state of one counter.
// It's not safe for concurrent use, the Executor serializes the calls of the same id.
type Entity struct {
	id      ID
	storage Storage
}

var _ Counter = (*Entity)(nil)

// NewEntity create Entity of id on storage
func NewEntity(id ID, storage Storage) *Entity {
	return &Entity{id: id, storage: storage}
}

// ID return the entity id
func (p *Entity) ID() ID {
	return p.id
}

// Read implements Counter.Read
func (p *Entity) Read(ctx context.Context) (int64, error) {
	value, _, err := p.storage.Load(ctx, p.id, ValueKey)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", p.id, err)
	}
	return value, nil
}

// Increment implements Counter.Increment
func (p *Entity) Increment(ctx context.Context, amount int64) (int64, error) {
	return p.update(ctx, func(value int64) (int64, error) {
		sum := value + amount
		if (amount > 0 && sum < value) || (amount < 0 && sum > value) {
			return 0, ErrOverflow
		}
		return sum, nil
	})
}

// Decrement implements Counter.Decrement, the value may be negative
func (p *Entity) Decrement(ctx context.Context, amount int64) (int64, error) {
	return p.update(ctx, func(value int64) (int64, error) {
		diff := value - amount
		if (amount > 0 && diff > value) || (amount < 0 && diff < value) {
			return 0, ErrOverflow
		}
		return diff, nil
	})
}

// update 溢出时不写入存储
func (p *Entity) update(ctx context.Context, apply func(int64) (int64, error)) (int64, error) {
	value, err := p.Read(ctx)
	if err != nil {
		return 0, err
	}
	if value, err = apply(value); err != nil {
		return 0, fmt.Errorf("update %s: %w", p.id, err)
	}
	if err = p.storage.Store(ctx, p.id, ValueKey, value); err != nil {
		return 0, fmt.Errorf("store %s: %w", p.id, err)
	}
	return value, nil
}
