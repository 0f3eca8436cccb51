package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// tagCountKey 存放标签到联系人数量映射的键名
const tagCountKey = "tags:counts"

// defaultTagCountTTL 标签计数缓存的默认生存时间。
// 计数由扫描联系人得出，缓存只为降低列表接口的扫描频率，
// 短 TTL 保证即便漏掉一次失效也能很快收敛。
const defaultTagCountTTL = 30 * time.Second

// TagCountCache 基于 Redis 的标签计数缓存
type TagCountCache struct {
	client *goredis.Client
	log    *zap.Logger
	ttl    time.Duration
}

// NewTagCountCache 创建标签计数缓存，ttl <= 0 时使用默认值
func NewTagCountCache(client *Client, ttl time.Duration, log *zap.Logger) *TagCountCache {
	if ttl <= 0 {
		ttl = defaultTagCountTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TagCountCache{
		client: client.Client(),
		log:    log,
		ttl:    ttl,
	}
}

// GetTagCounts 读取缓存的标签计数映射，第二个返回值表示是否命中
func (c *TagCountCache) GetTagCounts() (map[string]int, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := c.client.Get(ctx, tagCountKey).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("failed to read tag counts from Redis", zap.Error(err))
		}
		return nil, false
	}

	var counts map[string]int
	if err := json.Unmarshal(data, &counts); err != nil {
		c.log.Warn("corrupt tag count cache entry, dropping", zap.Error(err))
		_ = c.client.Del(ctx, tagCountKey).Err()
		return nil, false
	}

	return counts, true
}

// SetTagCounts 写入标签计数映射，失败只记日志不影响调用方
func (c *TagCountCache) SetTagCounts(counts map[string]int) {
	data, err := json.Marshal(counts)
	if err != nil {
		c.log.Warn("failed to marshal tag counts", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, tagCountKey, data, c.ttl).Err(); err != nil {
		c.log.Warn("failed to cache tag counts", zap.Error(err))
	}
}

// Invalidate 使标签计数缓存失效，在联系人或标签变更后调用
func (c *TagCountCache) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.client.Del(ctx, tagCountKey).Err(); err != nil {
		c.log.Warn("failed to invalidate tag count cache", zap.Error(err))
	}
}
