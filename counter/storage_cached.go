package counter

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedStorage is a write through cache in front of Storage.
// It's only coherent when this process is the single writer of the backing storage.
type CachedStorage struct {
	storage Storage
	cache   *gocache.Cache
}

var _ Storage = (*CachedStorage)(nil)

// NewCachedStorage create CachedStorage, the cached values expire after expire
func NewCachedStorage(storage Storage, expire time.Duration) *CachedStorage {
	return &CachedStorage{
		storage: storage,
		cache:   gocache.New(expire, expire*2),
	}
}

// Load implements Storage.Load
func (p *CachedStorage) Load(ctx context.Context, id ID, key string) (value int64, ok bool, err error) {
	k := memoryKey(id, key)
	if v, found := p.cache.Get(k); found {
		return v.(int64), true, nil
	}
	value, ok, err = p.storage.Load(ctx, id, key)
	if err != nil || !ok {
		return
	}
	p.cache.Set(k, value, gocache.DefaultExpiration)
	return
}

// Store implements Storage.Store, the cache is updated only after the write succeeds
func (p *CachedStorage) Store(ctx context.Context, id ID, key string, value int64) error {
	k := memoryKey(id, key)
	if err := p.storage.Store(ctx, id, key, value); err != nil {
		p.cache.Delete(k)
		return err
	}
	p.cache.Set(k, value, gocache.DefaultExpiration)
	return nil
}

// Close implements Storage.Close
func (p *CachedStorage) Close() error {
	p.cache.Flush()
	return p.storage.Close()
}
