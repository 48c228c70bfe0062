package counter

import (
	"context"
	"fmt"
	"time"

	"github.com/d0ngw/counterd/cache"
	c "github.com/d0ngw/counterd/common"
	"github.com/d0ngw/counterd/db"
)

// Storage types
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMySQL  = "mysql"
)

// Config counter配置
type Config struct {
	Namespace string `yaml:"namespace"`  //实体id的命名空间
	Shards    int    `yaml:"shards"`     //执行器的分片数
	QueueSize int    `yaml:"queue_size"` //每个分片的队列长度
}

// Parse implements Configurer
func (p *Config) Parse() error {
	if p.Namespace == "" {
		p.Namespace = "COUNTERS"
	}
	if p.Shards < 0 || p.QueueSize < 0 {
		return fmt.Errorf("shards %d and queue_size %d must not be negative", p.Shards, p.QueueSize)
	}
	return nil
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type        string           `yaml:"type"`         //memory,redis或mysql
	CacheExpire int              `yaml:"cache_expire"` //本地缓存的过期时间,单位秒,0表示不缓存
	Redis       *cache.RedisConf `yaml:"redis"`
	RedisGroup  string           `yaml:"redis_group"`
	KeyPrefix   string           `yaml:"key_prefix"`
	MySQL       *db.DBConfig     `yaml:"mysql"`
	Table       string           `yaml:"table"`
	CreateTable bool             `yaml:"create_table"`
}

// Parse implements Configurer
func (p *StorageConfig) Parse() error {
	if p.Type == "" {
		p.Type = StorageMemory
	}
	if p.CacheExpire < 0 {
		return fmt.Errorf("invalid cache_expire %d", p.CacheExpire)
	}
	switch p.Type {
	case StorageMemory:
		return nil
	case StorageRedis:
		if p.Redis == nil {
			return fmt.Errorf("storage %s need redis conf", p.Type)
		}
		if p.RedisGroup == "" {
			return fmt.Errorf("storage %s need redis_group", p.Type)
		}
		if _, ok := p.Redis.Groups[p.RedisGroup]; !ok {
			return fmt.Errorf("can't find redis group %s", p.RedisGroup)
		}
		return p.Redis.Parse()
	case StorageMySQL:
		if p.MySQL == nil {
			return fmt.Errorf("storage %s need mysql conf", p.Type)
		}
		return p.MySQL.Parse()
	}
	return fmt.Errorf("unknown storage type %q", p.Type)
}

// NewStorage build the Storage of a parsed conf
func NewStorage(ctx context.Context, conf *StorageConfig) (storage Storage, err error) {
	switch conf.Type {
	case StorageMemory, "":
		storage = NewMemoryStorage()
	case StorageRedis:
		storage, err = newRedisStorage(conf)
	case StorageMySQL:
		storage, err = newMySQLStorage(ctx, conf)
	default:
		err = fmt.Errorf("unknown storage type %q", conf.Type)
	}
	if err != nil {
		return nil, err
	}
	if conf.CacheExpire > 0 {
		storage = NewCachedStorage(storage, time.Duration(conf.CacheExpire)*time.Second)
	}
	c.Infof("use %s storage,cache expire %ds", conf.Type, conf.CacheExpire)
	return storage, nil
}

func newRedisStorage(conf *StorageConfig) (*RedisStorage, error) {
	client := cache.NewRedisClientWithConf(conf.Redis)
	storage, err := NewRedisStorage(client, cache.NewParamConf(conf.RedisGroup, conf.KeyPrefix))
	if err != nil {
		client.Close()
		return nil, err
	}
	return storage, nil
}

func newMySQLStorage(ctx context.Context, conf *StorageConfig) (*MySQLStorage, error) {
	pool, err := db.NewDBPool(ctx, conf.MySQL)
	if err != nil {
		return nil, err
	}
	storage, err := NewMySQLStorage(pool, conf.Table)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if conf.CreateTable {
		if err = storage.CreateTable(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create table %s: %w", storage.table, err)
		}
	}
	return storage, nil
}
