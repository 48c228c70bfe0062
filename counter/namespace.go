package counter

import (
	"context"
)

// Namespace address the entities by name
type Namespace struct {
	name     string
	executor *Executor
	storage  Storage
}

// NewNamespace create Namespace
func NewNamespace(name string, executor *Executor, storage Storage) *Namespace {
	return &Namespace{
		name:     name,
		executor: executor,
		storage:  storage,
	}
}

// Name return the namespace name
func (p *Namespace) Name() string {
	return p.name
}

// IDFromName return the id of the entity called name, it's a pure function
func (p *Namespace) IDFromName(name string) ID {
	return NewID(p.name, name)
}

// Get return the stub of id, no entity is touched until a call is made
func (p *Namespace) Get(id ID) *Stub {
	return &Stub{ns: p, id: id}
}

// Stub forward the Counter calls to the entity through the executor
type Stub struct {
	ns *Namespace
	id ID
}

var _ Counter = (*Stub)(nil)

// ID return the entity id
func (p *Stub) ID() ID {
	return p.id
}

// Read implements Counter.Read
func (p *Stub) Read(ctx context.Context) (int64, error) {
	return p.call(ctx, func(ctx context.Context, e *Entity) (int64, error) {
		return e.Read(ctx)
	})
}

// Increment implements Counter.Increment
func (p *Stub) Increment(ctx context.Context, amount int64) (int64, error) {
	return p.call(ctx, func(ctx context.Context, e *Entity) (int64, error) {
		return e.Increment(ctx, amount)
	})
}

// Decrement implements Counter.Decrement
func (p *Stub) Decrement(ctx context.Context, amount int64) (int64, error) {
	return p.call(ctx, func(ctx context.Context, e *Entity) (int64, error) {
		return e.Decrement(ctx, amount)
	})
}

func (p *Stub) call(ctx context.Context, op func(ctx context.Context, e *Entity) (int64, error)) (value int64, err error) {
	if err = p.id.Validate(); err != nil {
		return 0, err
	}
	entity := NewEntity(p.id, p.ns.storage)
	submitErr := p.ns.executor.Submit(ctx, p.id, func(ctx context.Context) error {
		value, err = op(ctx, entity)
		return err
	})
	if submitErr != nil {
		return 0, submitErr
	}
	return value, nil
}
