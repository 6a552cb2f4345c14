package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/pkg/cache"
)

func TestNewInMemory(t *testing.T) {
	t.Run("default capacity", func(t *testing.T) {
		c, err := cache.NewInMemory(0)
		assert.NotNil(t, c)
		assert.NoError(t, err)
	})

	t.Run("explicit capacity", func(t *testing.T) {
		c, err := cache.NewInMemory(64 * 1048576)
		assert.NotNil(t, c)
		assert.NoError(t, err)
	})
}

func TestInMemory_GetAs(t *testing.T) {
	t.Run("no key found", func(t *testing.T) {
		c, err := cache.NewInMemory(0)
		require.NoError(t, err)

		var out clusterEntry
		err = c.GetAs(context.Background(), "cluster1", &out)
		assert.ErrorIs(t, err, cache.ErrKeyNotExist)
	})

	t.Run("success roundtrip", func(t *testing.T) {
		c, err := cache.NewInMemory(0)
		require.NoError(t, err)

		in := clusterEntry{Name: "hpc1", Status: "ready"}
		require.NoError(t, c.SetExp(context.Background(), "hpc1", in, -1))

		var out clusterEntry
		err = c.GetAs(context.Background(), "hpc1", &out)
		assert.NoError(t, err)
		assert.Equal(t, in, out)
	})
}

func TestInMemory_SetExp(t *testing.T) {
	t.Run("error marshal data", func(t *testing.T) {
		c, err := cache.NewInMemory(0)
		require.NoError(t, err)

		in := map[string]interface{}{
			"key": make(chan int, 1),
		}

		err = c.SetExp(context.Background(), "cluster1", in, -1)
		assert.Error(t, err)
	})
}

func TestInMemory_Delete(t *testing.T) {
	c, err := cache.NewInMemory(0)
	require.NoError(t, err)

	require.NoError(t, c.SetExp(context.Background(), "cluster1", clusterEntry{Name: "hpc1"}, -1))
	require.NoError(t, c.Delete(context.Background(), "cluster1"))

	var out clusterEntry
	err = c.GetAs(context.Background(), "cluster1", &out)
	assert.ErrorIs(t, err, cache.ErrKeyNotExist)
}
