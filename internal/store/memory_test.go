package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.Set("k", []byte("v"), 0))
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Delete("k"))
	_, err = s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("k", []byte("v"), time.Millisecond))

	time.Sleep(5 * time.Millisecond)
	_, err := s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSetNX(t *testing.T) {
	s := NewMemoryStore()

	set, err := s.SetNX("lock", []byte("a"), 0)
	require.NoError(t, err)
	assert.True(t, set)

	set, err = s.SetNX("lock", []byte("b"), 0)
	require.NoError(t, err)
	assert.False(t, set)

	got, _ := s.Get("lock")
	assert.Equal(t, []byte("a"), got)

	require.NoError(t, s.Set("short", []byte("x"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	set, err = s.SetNX("short", []byte("y"), 0)
	require.NoError(t, err)
	assert.True(t, set)
}

func TestMemoryStoreHash(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.HSet("h", map[string]any{"a": []byte(`{"kind":"int","value":1}`), "b": 2}))
	all, err := s.HGetAll("h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": `{"kind":"int","value":1}`, "b": "2"}, all)

	require.NoError(t, s.HDel("h", "a"))
	all, err = s.HGetAll("h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, all)

	require.NoError(t, s.HDel("h", "b"))
	all, err = s.HGetAll("h")
	require.NoError(t, err)
	assert.Empty(t, all)

	empty, err := s.HGetAll("missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStoreTypeMismatch(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("k", []byte("v"), 0))

	assert.Error(t, s.HSet("k", map[string]any{"a": 1}))
	_, err := s.HGetAll("k")
	assert.Error(t, err)

	require.NoError(t, s.HSet("h", map[string]any{"a": 1}))
	_, err = s.Get("h")
	assert.Error(t, err)
}

func TestMemoryStoreConcurrentHSet(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.HSet("h", map[string]any{string(rune('a' + i%26)): i})
		}(i)
	}
	wg.Wait()

	all, err := s.HGetAll("h")
	require.NoError(t, err)
	assert.Len(t, all, 26)
}
