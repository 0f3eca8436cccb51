package cache

import (
	"sync"
	"time"
)

// LocalTagCountCache 进程内标签计数缓存（未启用 Redis 时的 L1 缓存）
//
// 计数由扫描联系人得出，缓存只为降低列表接口的扫描频率。
// 过期采用读时惰性检查，不需要后台清理协程。
type LocalTagCountCache struct {
	mu        sync.RWMutex
	counts    map[string]int
	expiresAt time.Time
	ttl       time.Duration
}

// NewLocalTagCountCache 创建本地标签计数缓存，ttl <= 0 时使用 30 秒
func NewLocalTagCountCache(ttl time.Duration) *LocalTagCountCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LocalTagCountCache{ttl: ttl}
}

// GetTagCounts 读取缓存的计数映射，第二个返回值表示是否命中
func (c *LocalTagCountCache) GetTagCounts() (map[string]int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.counts == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}

	// 返回副本，调用方可以自由修改
	out := make(map[string]int, len(c.counts))
	for name, count := range c.counts {
		out[name] = count
	}
	return out, true
}

// SetTagCounts 写入计数映射并刷新过期时间
func (c *LocalTagCountCache) SetTagCounts(counts map[string]int) {
	copied := make(map[string]int, len(counts))
	for name, count := range counts {
		copied[name] = count
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = copied
	c.expiresAt = time.Now().Add(c.ttl)
}

// Invalidate 使缓存失效，在联系人或标签变更后调用
func (c *LocalTagCountCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = nil
}
