package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMiss(t *testing.T) {
	c := New()

	data, hit, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)
}

func TestSetGet(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Minute))

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("value"), data)
}

func TestExpiry(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNoExpiry(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), 0))
	time.Sleep(10 * time.Millisecond)

	_, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestCopySemantics(t *testing.T) {
	c := New()
	ctx := context.Background()

	payload := []byte("value")
	require.NoError(t, c.Set(ctx, "key", payload, time.Minute))
	payload[0] = 'x'

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("value"), data)

	data[0] = 'y'
	again, _, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}

func TestOverwrite(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("old"), time.Minute))
	require.NoError(t, c.Set(ctx, "key", []byte("new"), time.Minute))

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("new"), data)
}
