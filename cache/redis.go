package cache

import (
	"context"
	"errors"
	"fmt"

	c "github.com/d0ngw/counterd/common"
	"github.com/gomodule/redigo/redis"
)

// RedisClient 按组访问Redis,组内按key的hash选择实例
type RedisClient struct {
	groups map[string][]*RedisServer
}

// NewRedisClient create RedisClient with inited servers
func NewRedisClient(groups map[string][]*RedisServer) *RedisClient {
	return &RedisClient{groups: groups}
}

// NewRedisClientWithConf create RedisClient with parsed RedisConf
func NewRedisClientWithConf(conf *RedisConf) *RedisClient {
	return NewRedisClient(conf.groups)
}

func (p *RedisClient) server(param Param) (*RedisServer, error) {
	servers := p.groups[param.Group()]
	if len(servers) == 0 {
		return nil, fmt.Errorf("can't find redis group %s", param.Group())
	}
	if len(servers) == 1 {
		return servers[0], nil
	}
	return servers[c.Fnv32Hashcode(param.Key())%len(servers)], nil
}

func (p *RedisClient) conn(ctx context.Context, param Param) (redis.Conn, error) {
	server, err := p.server(param)
	if err != nil {
		return nil, err
	}
	if server.pool == nil {
		return nil, fmt.Errorf("no pool for server %s", server.ID)
	}
	return server.pool.GetContext(ctx)
}

// Do execute redis command on the server of param
func (p *RedisClient) Do(ctx context.Context, param Param, cmd string, args ...interface{}) (reply interface{}, err error) {
	conn, err := p.conn(ctx, param)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return redis.DoContext(conn, ctx, cmd, args...)
}

// HGetInt get the int64 value of field in hash param.Key(),ok is false when the field not exist
func (p *RedisClient) HGetInt(ctx context.Context, param Param, field string) (v int64, ok bool, err error) {
	v, err = redis.Int64(p.Do(ctx, param, "HGET", param.Key(), field))
	if errors.Is(err, redis.ErrNil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// HSet set field in hash param.Key()
func (p *RedisClient) HSet(ctx context.Context, param Param, field string, value interface{}) error {
	_, err := p.Do(ctx, param, "HSET", param.Key(), field, value)
	return err
}

// Close close all the pools
func (p *RedisClient) Close() error {
	var errs []error
	for _, servers := range p.groups {
		for _, server := range servers {
			if server.pool == nil {
				continue
			}
			if err := server.pool.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", server.ID, err))
			}
		}
	}
	return errors.Join(errs...)
}
