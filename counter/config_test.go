package counter

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/d0ngw/counterd/cache"
	c "github.com/d0ngw/counterd/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigParse(t *testing.T) {
	conf := &Config{}
	assert.NoError(t, conf.Parse())
	assert.Equal(t, "COUNTERS", conf.Namespace)

	conf = &Config{Shards: -1}
	assert.Error(t, conf.Parse())
}

func TestStorageConfig(t *testing.T) {
	var conf StorageConfig
	require.NoError(t, c.LoadYAMl([]byte(`
type: memory
cache_expire: 10
`), &conf))
	require.NoError(t, conf.Parse())

	storage, err := NewStorage(context.Background(), &conf)
	require.NoError(t, err)
	cached, ok := storage.(*CachedStorage)
	require.True(t, ok)
	_, ok = cached.storage.(*MemoryStorage)
	assert.True(t, ok)
	assert.NoError(t, storage.Close())

	conf = StorageConfig{}
	require.NoError(t, conf.Parse())
	assert.Equal(t, StorageMemory, conf.Type)
	storage, err = NewStorage(context.Background(), &conf)
	require.NoError(t, err)
	_, ok = storage.(*MemoryStorage)
	assert.True(t, ok)
}

func TestStorageConfigInvalid(t *testing.T) {
	for _, conf := range []*StorageConfig{
		{Type: "unknown"},
		{Type: StorageMemory, CacheExpire: -1},
		{Type: StorageRedis},
		{Type: StorageRedis, Redis: &cache.RedisConf{}, RedisGroup: "counter"},
		{Type: StorageMySQL},
	} {
		assert.Error(t, conf.Parse(), conf.Type)
	}
}

func TestRedisStorageConfig(t *testing.T) {
	m := miniredis.RunT(t)
	port, err := strconv.Atoi(m.Port())
	require.NoError(t, err)
	newConf := func(prefix string) *StorageConfig {
		conf := &StorageConfig{
			Type: StorageRedis,
			Redis: &cache.RedisConf{
				Servers: []*cache.RedisServer{{ID: "counter", Host: m.Host(), Port: port}},
				Groups:  map[string][]string{"counter": {"counter"}},
			},
			RedisGroup: "counter",
			KeyPrefix:  prefix,
		}
		require.NoError(t, conf.Parse())
		return conf
	}

	conf := newConf("cnt_")
	storage, err := NewStorage(context.Background(), conf)
	require.NoError(t, err)
	id := NewID("COUNTERS", "a")
	require.NoError(t, storage.Store(context.Background(), id, ValueKey, 3))
	v, ok, err := storage.Load(context.Background(), id, ValueKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 3, v)
	assert.NoError(t, storage.Close())

	// 创建存储失败时,已初始化的连接池需要关闭
	conf = newConf("cnt:")
	_, err = NewStorage(context.Background(), conf)
	assert.Error(t, err)
	param := cache.NewParamConf("counter", "").NewParamKey("k")
	err = cache.NewRedisClientWithConf(conf.Redis).HSet(context.Background(), param, "f", 1)
	assert.Error(t, err)
	assert.False(t, m.Exists("k"))
}
