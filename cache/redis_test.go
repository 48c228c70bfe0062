package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	m := miniredis.RunT(t)
	port, err := strconv.Atoi(m.Port())
	require.NoError(t, err)

	conf := &RedisConf{
		Servers: []*RedisServer{{ID: "test", Host: m.Host(), Port: port}},
		Groups:  map[string][]string{"test": {"test"}},
	}
	require.NoError(t, conf.Parse())
	r := NewRedisClientWithConf(conf)
	t.Cleanup(func() { r.Close() })
	return m, r
}

func TestRedisHash(t *testing.T) {
	m, r := newTestClient(t)
	ctx := context.Background()

	key := NewParamConf("test", "c_").NewParamKey("h:abc")
	_, ok, err := r.HGetInt(ctx, key, "value")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, r.HSet(ctx, key, "value", -3))
	v, ok, err := r.HGetInt(ctx, key, "value")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, -3, v)
	assert.Equal(t, "-3", m.HGet("c_h:abc", "value"))
	assert.Equal(t, time.Duration(0), m.TTL("c_h:abc"))

	// fields of one hash are independent
	assert.NoError(t, r.HSet(ctx, key, "other", 7))
	v, ok, err = r.HGetInt(ctx, key, "value")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, -3, v)

	m.HSet("c_h:bad", "value", "x")
	_, _, err = r.HGetInt(ctx, NewParamConf("test", "c_").NewParamKey("h:bad"), "value")
	assert.Error(t, err)
}

func TestRedisUnknownGroup(t *testing.T) {
	_, r := newTestClient(t)
	_, _, err := r.HGetInt(context.Background(), NewParamConf("none", "").NewParamKey("a"), "value")
	assert.Error(t, err)
	assert.Error(t, r.HSet(context.Background(), NewParamConf("none", "").NewParamKey("a"), "value", 1))
}

func TestRedisConfParse(t *testing.T) {
	conf := &RedisConf{
		Servers: []*RedisServer{{ID: "a", Host: "127.0.0.1", Port: 6379}, {ID: "a", Host: "127.0.0.1", Port: 6380}},
	}
	assert.Error(t, conf.Parse())

	conf = &RedisConf{
		Servers: []*RedisServer{{ID: "a", Host: "127.0.0.1", Port: 6379}},
		Groups:  map[string][]string{"g": {"b"}},
	}
	assert.Error(t, conf.Parse())

	conf = &RedisConf{
		Servers: []*RedisServer{{ID: "a", Host: "", Port: 6379}},
	}
	assert.Error(t, conf.Parse())

	conf = &RedisConf{
		Servers: []*RedisServer{{ID: "b", Host: "127.0.0.1", Port: 6380}, {ID: "a", Host: "127.0.0.1", Port: 6379}},
		Groups:  map[string][]string{"g": {"b", "a"}},
	}
	assert.NoError(t, conf.Parse())
	assert.Equal(t, "a", conf.groups["g"][0].ID)
	assert.Equal(t, []string{"b", "a"}, conf.Groups["g"])

	var nilConf *RedisConf
	assert.NoError(t, nilConf.Parse())
}
