package source

import (
	"context"
	"image/color"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_LoadCaches(t *testing.T) {
	path := writeTempPNG(t, color.NRGBA{200, 0, 0, 255})
	c := NewCache(NewLoader(nil, nil, 0), 0)

	first, err := c.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	// A cached entry survives removal of the file.
	require.NoError(t, os.Remove(path))
	second, err := c.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	c.Evict(path)
	assert.Equal(t, 0, c.Len())
	_, err = c.Load(context.Background(), path)
	assert.Error(t, err)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(NewLoader(nil, nil, 0), 0)
	for _, col := range []color.NRGBA{{1, 2, 3, 255}, {4, 5, 6, 255}} {
		_, err := c.Load(context.Background(), writeTempPNG(t, col))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c := NewCache(NewLoader(nil, nil, 0), 0)
	_, err := c.Load(context.Background(), "/nonexistent/image.png")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCache_DropsOldestWhenFull(t *testing.T) {
	c := NewCache(NewLoader(nil, nil, 0), 2)
	ctx := context.Background()

	first := writeTempPNG(t, color.NRGBA{1, 1, 1, 255})
	second := writeTempPNG(t, color.NRGBA{2, 2, 2, 255})
	third := writeTempPNG(t, color.NRGBA{3, 3, 3, 255})

	for _, p := range []string{first, second, third} {
		_, err := c.Load(ctx, p)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	// The first path was dropped, so removing its file makes it unloadable.
	require.NoError(t, os.Remove(first))
	_, err := c.Load(ctx, first)
	assert.Error(t, err)

	// The newer entries are still served from memory.
	require.NoError(t, os.Remove(third))
	_, err = c.Load(ctx, third)
	assert.NoError(t, err)
}

func TestCache_EvictKeepsOrder(t *testing.T) {
	c := NewCache(NewLoader(nil, nil, 0), 2)
	ctx := context.Background()

	a := writeTempPNG(t, color.NRGBA{1, 1, 1, 255})
	b := writeTempPNG(t, color.NRGBA{2, 2, 2, 255})
	for _, p := range []string{a, b} {
		_, err := c.Load(ctx, p)
		require.NoError(t, err)
	}

	c.Evict(a)
	c.Evict("/never/loaded.png")
	assert.Equal(t, 1, c.Len())

	_, err := c.Load(ctx, writeTempPNG(t, color.NRGBA{3, 3, 3, 255}))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}
