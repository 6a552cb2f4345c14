package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/pkg/cache"
)

type clusterEntry struct {
	Name   string
	Status string
}

func prepareMiniRedis(t *testing.T) *redis.Client {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
		DB:   1,
	})

	return client
}

func TestNewRedis(t *testing.T) {
	t.Run("bad dep", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{})
		assert.Nil(t, c)
		assert.Error(t, err)
	})

	t.Run("ok", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		assert.NotNil(t, c)
		assert.NoError(t, err)
	})
}

func TestRedis_GetAs(t *testing.T) {
	t.Run("no key found", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		require.NoError(t, err)

		var out clusterEntry
		err = c.GetAs(context.Background(), "cluster1", &out)
		assert.ErrorIs(t, err, cache.ErrKeyNotExist)
	})

	t.Run("redis error: closed connection", func(t *testing.T) {
		redisConn := prepareMiniRedis(t)
		c, err := cache.NewRedis(cache.RedisConfig{DB: redisConn})
		require.NoError(t, err)

		require.NoError(t, redisConn.Close())

		var out clusterEntry
		err = c.GetAs(context.Background(), "cluster1", &out)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	t.Run("success roundtrip", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		require.NoError(t, err)

		in := clusterEntry{Name: "hpc1", Status: "ready"}
		err = c.SetExp(context.Background(), "hpc1", in, time.Second)
		require.NoError(t, err)

		var out clusterEntry
		err = c.GetAs(context.Background(), "hpc1", &out)
		assert.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("prefixed keys do not collide", func(t *testing.T) {
		redisConn := prepareMiniRedis(t)

		c1, err := cache.NewRedis(cache.RedisConfig{DB: redisConn, Prefix: "clusterrepo"})
		require.NoError(t, err)

		c2, err := cache.NewRedis(cache.RedisConfig{DB: redisConn, Prefix: "notebookrepo"})
		require.NoError(t, err)

		in := clusterEntry{Name: "hpc1", Status: "ready"}
		require.NoError(t, c1.SetExp(context.Background(), "hpc1", in, time.Second))

		var out clusterEntry
		err = c2.GetAs(context.Background(), "hpc1", &out)
		assert.ErrorIs(t, err, cache.ErrKeyNotExist)
	})
}

func TestRedis_SetExp(t *testing.T) {
	t.Run("error marshal data", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		require.NoError(t, err)

		in := map[string]interface{}{
			"key": make(chan int, 1),
		}

		err = c.SetExp(context.Background(), "cluster1", in, time.Second)
		assert.Error(t, err)
	})

	t.Run("success with expiration", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		require.NoError(t, err)

		err = c.SetExp(context.Background(), "cluster1", clusterEntry{Name: "hpc1"}, time.Second)
		assert.NoError(t, err)
	})
}

func TestRedis_Delete(t *testing.T) {
	t.Run("not exist key is not an error", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		require.NoError(t, err)

		err = c.Delete(context.Background(), "cluster1")
		assert.NoError(t, err)
	})

	t.Run("redis error: closed connection", func(t *testing.T) {
		redisConn := prepareMiniRedis(t)
		c, err := cache.NewRedis(cache.RedisConfig{DB: redisConn})
		require.NoError(t, err)

		require.NoError(t, redisConn.Close())

		err = c.Delete(context.Background(), "cluster1")
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	t.Run("success", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		require.NoError(t, err)

		require.NoError(t, c.SetExp(context.Background(), "cluster1", clusterEntry{Name: "hpc1"}, time.Second))
		assert.NoError(t, c.Delete(context.Background(), "cluster1"))
	})
}
