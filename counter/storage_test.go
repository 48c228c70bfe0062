package counter

import (
	"context"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/d0ngw/counterd/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorage(t *testing.T, storage Storage) {
	ctx := context.Background()
	id := NewID("test", "foo")

	_, ok, err := storage.Load(ctx, id, ValueKey)
	assert.NoError(t, err)
	assert.False(t, ok)

	for _, v := range []int64{1, -1, 0, 1 << 40, -(1 << 40)} {
		assert.NoError(t, storage.Store(ctx, id, ValueKey, v))
		loaded, ok, err := storage.Load(ctx, id, ValueKey)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, v, loaded)
	}

	_, ok, err = storage.Load(ctx, NewID("test", "bar"), ValueKey)
	assert.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = storage.Load(ctx, id, "other")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()
	testStorage(t, storage)
	assert.Equal(t, 1, storage.Len())
	assert.NoError(t, storage.Close())
}

func newTestRedisStorage(t *testing.T, prefix string) (*miniredis.Miniredis, *RedisStorage) {
	m := miniredis.RunT(t)
	port, err := strconv.Atoi(m.Port())
	require.NoError(t, err)
	conf := &cache.RedisConf{
		Servers: []*cache.RedisServer{{ID: "counter", Host: m.Host(), Port: port}},
		Groups:  map[string][]string{"counter": {"counter"}},
	}
	require.NoError(t, conf.Parse())
	storage, err := NewRedisStorage(cache.NewRedisClientWithConf(conf), cache.NewParamConf("counter", prefix))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return m, storage
}

func TestRedisStorage(t *testing.T) {
	m, storage := newTestRedisStorage(t, "cnt_")
	testStorage(t, storage)

	id := NewID("test", "foo")
	key := "cnt_h:" + id.String()
	assert.Equal(t, strconv.FormatInt(-(1 << 40), 10), m.HGet(key, ValueKey))
	assert.Equal(t, time.Duration(0), m.TTL(key))
}

func TestRedisStorageInvalid(t *testing.T) {
	_, err := NewRedisStorage(nil, cache.NewParamConf("counter", ""))
	assert.Error(t, err)
	_, err = NewRedisStorage(cache.NewRedisClient(nil), cache.NewParamConf("counter", "a:"))
	assert.Error(t, err)
}

func TestMySQLStorage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	storage, err := NewMySQLStorage(db, "")
	require.NoError(t, err)

	ctx := context.Background()
	id := NewID("test", "foo")
	loadSQL := regexp.QuoteMeta("SELECT val FROM counter_value WHERE id = ? AND k = ?")
	upsertSQL := regexp.QuoteMeta("INSERT INTO counter_value (id, k, val, ut) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS counter_value")).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, storage.CreateTable(ctx))

	mock.ExpectQuery(loadSQL).WithArgs(id.String(), ValueKey).WillReturnRows(sqlmock.NewRows([]string{"val"}))
	_, ok, err := storage.Load(ctx, id, ValueKey)
	assert.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExec(upsertSQL).WithArgs(id.String(), ValueKey, int64(-3), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	assert.NoError(t, storage.Store(ctx, id, ValueKey, -3))

	mock.ExpectQuery(loadSQL).WithArgs(id.String(), ValueKey).WillReturnRows(sqlmock.NewRows([]string{"val"}).AddRow(int64(-3)))
	v, ok, err := storage.Load(ctx, id, ValueKey)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, -3, v)

	mock.ExpectExec(upsertSQL).WillReturnError(errStorage)
	assert.ErrorIs(t, storage.Store(ctx, id, ValueKey, 1), errStorage)

	mock.ExpectClose()
	assert.NoError(t, storage.Close())
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = NewMySQLStorage(nil, "")
	assert.Error(t, err)
}

func TestCachedStorage(t *testing.T) {
	backing := &failStorage{MemoryStorage: NewMemoryStorage()}
	storage := NewCachedStorage(backing, time.Minute)
	testStorage(t, storage)

	ctx := context.Background()
	id := NewID("test", "cached")
	require.NoError(t, storage.Store(ctx, id, ValueKey, 5))

	// served from the cache while the backing storage is down
	backing.failLoad = true
	v, ok, err := storage.Load(ctx, id, ValueKey)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 5, v)

	// a failed write is neither committed nor cached
	backing.failLoad = false
	backing.failStore = true
	assert.ErrorIs(t, storage.Store(ctx, id, ValueKey, 6), errStorage)
	v, ok, err = storage.Load(ctx, id, ValueKey)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 5, v)

	assert.NoError(t, storage.Close())
}
