package counter

import (
	"context"
	"fmt"
	"strings"

	"github.com/d0ngw/counterd/cache"
	c "github.com/d0ngw/counterd/common"
)

// RedisStorage store every entity in a redis hash `<prefix>h:<id>`,the keys are the hash fields
type RedisStorage struct {
	redisClient *cache.RedisClient
	cacheParam  *cache.ParamConf
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage create RedisStorage
func NewRedisStorage(redisClient *cache.RedisClient, cacheParam *cache.ParamConf) (*RedisStorage, error) {
	if c.HasNil(redisClient, cacheParam) {
		return nil, fmt.Errorf("redisClient and cacheParam must be set")
	}
	if strings.Contains(cacheParam.KeyPrefix(), ":") {
		return nil, fmt.Errorf("cacheParam.KeyPrefix %s must not contain `:`", cacheParam.KeyPrefix())
	}
	return &RedisStorage{redisClient: redisClient, cacheParam: cacheParam}, nil
}

func (p *RedisStorage) entityKey(id ID) *cache.ParamKey {
	return p.cacheParam.NewParamKey("h:" + string(id))
}

// Load implements Storage.Load
func (p *RedisStorage) Load(ctx context.Context, id ID, key string) (value int64, ok bool, err error) {
	return p.redisClient.HGetInt(ctx, p.entityKey(id), key)
}

// Store implements Storage.Store
func (p *RedisStorage) Store(ctx context.Context, id ID, key string, value int64) error {
	return p.redisClient.HSet(ctx, p.entityKey(id), key, value)
}

// Close implements Storage.Close
func (p *RedisStorage) Close() error {
	return p.redisClient.Close()
}
