package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, int]()

	cache.Set("key1", 42)
	value, exists := cache.Get("key1")
	assert.True(t, exists)
	assert.Equal(t, 42, value)

	_, exists = cache.Get("nonexistent")
	assert.False(t, exists)

	cache.Delete("key1")
	_, exists = cache.Get("key1")
	assert.False(t, exists)
}

func TestCache_Stats(t *testing.T) {
	cache := NewCache[string, int]()
	assert.Equal(t, CacheStats{}, cache.GetStats())
	assert.Zero(t, cache.GetStats().HitRate())

	cache.Set("a", 1)
	cache.Get("a")
	cache.Get("a")
	cache.Get("b")

	stats := cache.GetStats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 1e-9)

	cache.Clear()
	assert.Equal(t, CacheStats{}, cache.GetStats())
}

func TestCache_FileValidation(t *testing.T) {
	cache := NewCache[string, string]()
	tmpFile := filepath.Join(t.TempDir(), "test.txt")

	content := "initial content"
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	require.NoError(t, cache.SetWithFileInfo("test", content, tmpFile))

	value, exists := cache.GetWithFileValidation("test", tmpFile)
	assert.True(t, exists)
	assert.Equal(t, content, value)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(tmpFile, []byte("modified content"), 0644))

	_, exists = cache.GetWithFileValidation("test", tmpFile)
	assert.False(t, exists, "cached value should be invalidated after the file changed")
	assert.Zero(t, cache.GetStats().Size)

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_FileValidationNonExistentFile(t *testing.T) {
	cache := NewCache[string, string]()

	_, exists := cache.GetWithFileValidation("test", "/nonexistent/file.txt")
	assert.False(t, exists)

	err := cache.SetWithFileInfo("test", "content", "/nonexistent/file.txt")
	assert.Error(t, err)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache[string, int]()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Set(fmt.Sprintf("key%d_%d", id, j), id*100+j)
			}
		}(i)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Get(fmt.Sprintf("key%d_%d", id, j))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 500, cache.GetStats().Size)
	stats := cache.GetStats()
	assert.Equal(t, int64(500), stats.Hits+stats.Misses)
}
