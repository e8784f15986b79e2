package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionCacheSetGet(t *testing.T) {
	cache := NewPermissionCache()

	codes := map[string]bool{"view meetings": true}
	cache.Set(1, codes, false)

	got, isSuper, ok := cache.Get(1)
	assert.True(t, ok)
	assert.False(t, isSuper)
	assert.True(t, got["view meetings"])

	_, _, ok = cache.Get(2)
	assert.False(t, ok)
}

func TestPermissionCacheInvalidate(t *testing.T) {
	cache := NewPermissionCache()
	cache.Set(1, map[string]bool{"view meetings": true}, false)
	cache.Set(2, nil, true)

	cache.Invalidate(1)

	_, _, ok := cache.Get(1)
	assert.False(t, ok)

	_, isSuper, ok := cache.Get(2)
	assert.True(t, ok)
	assert.True(t, isSuper)
}

func TestPermissionCacheInvalidateAll(t *testing.T) {
	cache := NewPermissionCache()
	cache.Set(1, nil, false)
	cache.Set(2, nil, true)
	assert.Equal(t, 2, cache.Len())

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Len())
}

func TestPermissionCacheConcurrentAccess(t *testing.T) {
	cache := NewPermissionCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		userID := uint(i % 10)
		go func(id uint) {
			defer wg.Done()
			cache.Set(id, map[string]bool{"view meetings": true}, false)
		}(userID)
		go func(id uint) {
			defer wg.Done()
			cache.Get(id)
			cache.Invalidate(id)
		}(userID)
	}
	wg.Wait()
}
