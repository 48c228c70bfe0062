package counter

import (
	"context"
	"fmt"
	"sync"

	c "github.com/d0ngw/counterd/common"
)

// 默认的分片数和每个分片的队列长度
const (
	DefaultShards    = 64
	DefaultQueueSize = 128
)

type task struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	err  error
	done chan struct{}
}

// Executor run the tasks of an entity one by one.
// Each entity is bound to a shard by the hash of its id, every shard is served by one goroutine.
type Executor struct {
	c.BaseService
	shardCount int
	queueSize  int
	shards     []chan *task
	wg         sync.WaitGroup
	mu         sync.RWMutex
	running    bool
}

// NewExecutor create Executor service
func NewExecutor(name string, shardCount, queueSize int) *Executor {
	if shardCount <= 0 {
		shardCount = DefaultShards
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Executor{
		BaseService: c.BaseService{SName: name},
		shardCount:  shardCount,
		queueSize:   queueSize,
	}
}

// Start implements Service.Start
func (p *Executor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return fmt.Errorf("executor %s already started", p.Name())
	}
	p.shards = make([]chan *task, p.shardCount)
	for i := range p.shards {
		ch := make(chan *task, p.queueSize)
		p.shards[i] = ch
		p.wg.Add(1)
		go p.work(ch)
	}
	p.running = true
	c.Infof("executor %s started with %d shards", p.Name(), p.shardCount)
	return nil
}

// Stop implements Service.Stop, the queued tasks are finished before return
func (p *Executor) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	for _, ch := range p.shards {
		close(ch)
	}
	p.mu.Unlock()

	p.wg.Wait()
	c.Infof("executor %s stopped", p.Name())
	return nil
}

// ShardCount return the number of shards
func (p *Executor) ShardCount() int {
	return p.shardCount
}

// ShardOf return the shard index of id
func (p *Executor) ShardOf(id ID) int {
	return int(c.MurmurHash32String(string(id)) % uint32(p.shardCount))
}

// Submit run fn on the shard of id and wait for it.
// fn is skipped if ctx is done before it's dequeued.
func (p *Executor) Submit(ctx context.Context, id ID, fn func(ctx context.Context) error) error {
	t := &task{ctx: ctx, fn: fn, done: make(chan struct{})}

	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		return ErrExecutorStopped
	}
	select {
	case p.shards[p.ShardOf(id)] <- t:
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}
	p.mu.RUnlock()

	<-t.done
	return t.err
}

func (p *Executor) work(ch <-chan *task) {
	defer p.wg.Done()
	for t := range ch {
		if err := t.ctx.Err(); err != nil {
			t.err = err
		} else {
			t.err = p.run(t)
		}
		close(t.done)
	}
}

func (p *Executor) run(t *task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.Errorf("executor %s task panic:%v", p.Name(), r)
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return t.fn(t.ctx)
}
