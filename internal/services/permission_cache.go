package services

import "sync"

// PermissionCache 进程内的用户有效权限缓存
// 所有写路径（角色保存、权限同步、用户角色/权限变更）必须同步调用Invalidate，
// 保证变更后的下一次鉴权立即生效
type PermissionCache struct {
	mu      sync.RWMutex
	entries map[uint]*cacheEntry
}

// cacheEntry 单个用户的缓存项
type cacheEntry struct {
	codes   map[string]bool // 有效全局权限集（角色权限 ∪ 直接权限）
	isSuper bool            // 是否持有保留的超级管理员角色
}

// NewPermissionCache 创建权限缓存（测试可构造全新实例保证确定性）
func NewPermissionCache() *PermissionCache {
	return &PermissionCache{
		entries: make(map[uint]*cacheEntry),
	}
}

// Get 读取用户缓存项
func (c *PermissionCache) Get(userID uint) (codes map[string]bool, isSuper, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, false, false
	}
	return entry.codes, entry.isSuper, true
}

// Set 写入用户缓存项
func (c *PermissionCache) Set(userID uint, codes map[string]bool, isSuper bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = &cacheEntry{
		codes:   codes,
		isSuper: isSuper,
	}
}

// Invalidate 失效单个用户（用户自身的角色/权限变更）
func (c *PermissionCache) Invalidate(userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
}

// InvalidateAll 全量失效（角色的权限集变更会影响全部持有者）
func (c *PermissionCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[uint]*cacheEntry)
}

// Len 当前缓存的用户数
func (c *PermissionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// 全局缓存单例
var (
	permCacheInstance *PermissionCache
	permCacheOnce     sync.Once
)

// GetPermissionCache 获取全局权限缓存实例
func GetPermissionCache() *PermissionCache {
	permCacheOnce.Do(func() {
		permCacheInstance = NewPermissionCache()
	})
	return permCacheInstance
}
