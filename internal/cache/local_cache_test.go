package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalTagCountCache(t *testing.T) {
	t.Run("未写入时不命中", func(t *testing.T) {
		c := NewLocalTagCountCache(time.Minute)

		counts, ok := c.GetTagCounts()
		assert.False(t, ok)
		assert.Nil(t, counts)
	})

	t.Run("写入后命中并返回副本", func(t *testing.T) {
		c := NewLocalTagCountCache(time.Minute)
		c.SetTagCounts(map[string]int{"vip": 2, "eu": 1})

		counts, ok := c.GetTagCounts()
		assert.True(t, ok)
		assert.Equal(t, map[string]int{"vip": 2, "eu": 1}, counts)

		// 修改返回值不影响缓存内容
		counts["vip"] = 99
		again, ok := c.GetTagCounts()
		assert.True(t, ok)
		assert.Equal(t, 2, again["vip"])
	})

	t.Run("失效后不命中", func(t *testing.T) {
		c := NewLocalTagCountCache(time.Minute)
		c.SetTagCounts(map[string]int{"vip": 2})
		c.Invalidate()

		_, ok := c.GetTagCounts()
		assert.False(t, ok)
	})

	t.Run("过期后不命中", func(t *testing.T) {
		c := NewLocalTagCountCache(10 * time.Millisecond)
		c.SetTagCounts(map[string]int{"vip": 2})

		time.Sleep(20 * time.Millisecond)

		_, ok := c.GetTagCounts()
		assert.False(t, ok)
	})
}
