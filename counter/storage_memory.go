package counter

import (
	"context"
	"sync"

	"github.com/d0ngw/counterd/cache"
)

// MemoryStorage keep the msgpack encoded values in memory
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage create MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: map[string][]byte{}}
}

func memoryKey(id ID, key string) string {
	return string(id) + "/" + key
}

// Load implements Storage.Load
func (p *MemoryStorage) Load(ctx context.Context, id ID, key string) (value int64, ok bool, err error) {
	p.mu.RLock()
	b, ok := p.items[memoryKey(id, key)]
	p.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}
	value, err = cache.MsgPackDecodeInt64(b)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// Store implements Storage.Store
func (p *MemoryStorage) Store(ctx context.Context, id ID, key string, value int64) error {
	b, err := cache.MsgPackEncodeInt64(value)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.items[memoryKey(id, key)] = b
	p.mu.Unlock()
	return nil
}

// Len return the number of stored keys
func (p *MemoryStorage) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// Close implements Storage.Close
func (p *MemoryStorage) Close() error {
	return nil
}
