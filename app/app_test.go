package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	c "github.com/d0ngw/counterd/common"
	"github.com/d0ngw/counterd/counter"
	h "github.com/d0ngw/counterd/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConf = `
log:
  level: debug
http:
  addr: 127.0.0.1:0
  max_conns: 16
  access_log: true
api:
  strict_status: true
counter:
  namespace: TEST
  shards: 4
storage:
  type: memory
  cache_expire: 60
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counterd.yaml"), []byte(testConf), 0644))

	conf, err := LoadConfig(dir, "counterd.yaml")
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogConfig.Level)
	assert.Equal(t, "127.0.0.1:0", conf.HTTP.Addr)
	assert.Equal(t, 16, conf.HTTP.MaxConns)
	assert.True(t, conf.API.StrictStatus)
	assert.Equal(t, "TEST", conf.Counter.Namespace)
	assert.Equal(t, 4, conf.Counter.Shards)
	assert.Equal(t, counter.StorageMemory, conf.Storage.Type)
	assert.Equal(t, 60, conf.Storage.CacheExpire)
	c.SetLogLevel(c.Info)

	_, err = LoadConfig(dir, "none.yaml")
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	t.Setenv(AddrEnv, "127.0.0.1:9999")
	conf := &Config{}
	require.NoError(t, conf.Parse())
	assert.Equal(t, "127.0.0.1:9999", conf.HTTP.Addr)
	assert.Equal(t, "COUNTERS", conf.Counter.Namespace)
	assert.Equal(t, counter.StorageMemory, conf.Storage.Type)
	assert.False(t, conf.API.StrictStatus)

	conf = &Config{Storage: &counter.StorageConfig{Type: "file"}}
	assert.Error(t, conf.Parse())
}

func TestApp(t *testing.T) {
	conf := &Config{}
	require.NoError(t, c.LoadYAMl([]byte(testConf), conf))
	require.NoError(t, conf.Parse())
	c.SetLogLevel(c.Info)

	app, err := New(context.Background(), conf)
	require.NoError(t, err)
	require.NoError(t, app.Start())

	base := "http://" + app.Addr().String()
	client := &http.Client{}
	ret, err := h.GetURL(client, base+"/increment?name=foo", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Durable Object 'foo' count: 1", ret)
	ret, err = h.GetURL(client, base+"/?name=foo", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Durable Object 'foo' count: 1", ret)

	status, body, err := h.GetURLWithHeader(context.Background(), client, base+"/", nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please enter a valid name", string(body))

	v, err := app.Namespace().Get(app.Namespace().IDFromName("foo")).Read(context.Background())
	assert.NoError(t, err)
	assert.EqualValues(t, 1, v)

	// 非规范路径由ServeMux重定向,不会修改计数
	noRedirect := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := noRedirect.Get(base + "//increment?name=foo")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/increment?name=foo", resp.Header.Get("Location"))
	v, err = app.Namespace().Get(app.Namespace().IDFromName("foo")).Read(context.Background())
	assert.NoError(t, err)
	assert.EqualValues(t, 1, v)

	// 跟随重定向后按规范路径处理
	ret, err = h.GetURL(client, base+"//increment?name=foo", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Durable Object 'foo' count: 2", ret)

	assert.NoError(t, app.Stop())
	_, err = h.GetURL(client, base+"/?name=foo", nil)
	assert.Error(t, err)
}

func TestNewInvalid(t *testing.T) {
	_, err := New(context.Background(), &Config{})
	assert.Error(t, err)
}
