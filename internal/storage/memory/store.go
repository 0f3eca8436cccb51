package memory

import (
	"sync"

	"chattflow/backend/internal/domain"
)

var _ domain.Store = (*Store)(nil)

// Store 使用内存保存联系人、标签、模板与广播数据，主要用于开发验证与测试。
type Store struct {
	mu sync.RWMutex

	contacts     map[string]*domain.Contact
	contactOrder []string // 插入顺序，决定圈选结果的遍历顺序

	tags      map[string]*domain.Tag
	tagByName map[string]string // name -> tagID

	templates     map[string]*domain.EmailTemplate
	templateOrder []string

	broadcasts     map[string]*domain.Broadcast
	broadcastOrder []string
}

// NewStore 创建一个内存存储实例。
func NewStore() *Store {
	return &Store{
		contacts:       make(map[string]*domain.Contact),
		contactOrder:   make([]string, 0),
		tags:           make(map[string]*domain.Tag),
		tagByName:      make(map[string]string),
		templates:      make(map[string]*domain.EmailTemplate),
		templateOrder:  make([]string, 0),
		broadcasts:     make(map[string]*domain.Broadcast),
		broadcastOrder: make([]string, 0),
	}
}

// Close 关闭存储（内存实现为空操作）。
func (s *Store) Close() error {
	return nil
}

// Health 存储健康检查（内存实现恒为健康）。
func (s *Store) Health() error {
	return nil
}

// removeFromOrder 从顺序索引中移除指定 ID。
func removeFromOrder(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
