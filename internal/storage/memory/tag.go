package memory

import (
	"sort"
	"time"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage"
)

// CreateTag 创建标签，名称全局唯一。
func (s *Store) CreateTag(tag *domain.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tagByName[tag.Name]; exists {
		return storage.ErrTagExists
	}

	now := time.Now()
	tag.CreatedAt = now
	tag.UpdatedAt = now
	s.tags[tag.ID] = tag
	s.tagByName[tag.Name] = tag.ID
	return nil
}

// GetTag 获取标签。
func (s *Store) GetTag(id string) (*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tag, ok := s.tags[id]
	if !ok {
		return nil, storage.ErrTagNotFound
	}
	return tag, nil
}

// GetTagByName 根据名称获取标签。
func (s *Store) GetTagByName(name string) (*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tagByName[name]
	if !ok {
		return nil, storage.ErrTagNotFound
	}
	return s.tags[id], nil
}

// ListTags 按名称排序返回全部标签，计数由扫描联系人实时推导。
func (s *Store) ListTags() ([]domain.TagWithCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := s.countTagsLocked()

	result := make([]domain.TagWithCount, 0, len(s.tags))
	for _, tag := range s.tags {
		result = append(result, domain.TagWithCount{
			Tag:          *tag,
			ContactCount: counts[tag.Name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// ListTagDefinitions 按名称排序返回全部标签定义，不附带计数。
func (s *Store) ListTagDefinitions() []domain.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		result = append(result, *tag)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// countTagsLocked 扫描全部联系人，统计每个标签名的持有人数。
//
// 调用方必须已持有读锁。
func (s *Store) countTagsLocked() map[string]int {
	counts := make(map[string]int)
	for _, c := range s.contacts {
		for _, name := range c.Tags {
			counts[name]++
		}
	}
	return counts
}

// UpdateTag 更新标签。
func (s *Store) UpdateTag(tag *domain.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tags[tag.ID]
	if !ok {
		return storage.ErrTagNotFound
	}

	// 名称冲突检查
	if otherID, exists := s.tagByName[tag.Name]; exists && otherID != tag.ID {
		return storage.ErrTagExists
	}

	delete(s.tagByName, existing.Name)
	tag.CreatedAt = existing.CreatedAt
	tag.UpdatedAt = time.Now()
	s.tags[tag.ID] = tag
	s.tagByName[tag.Name] = tag.ID
	return nil
}

// DeleteTag 删除标签。
//
// 不级联清理 Contact.Tags 中的引用，悬空引用是允许的。
func (s *Store) DeleteTag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tag, ok := s.tags[id]
	if !ok {
		return storage.ErrTagNotFound
	}
	delete(s.tagByName, tag.Name)
	delete(s.tags, id)
	return nil
}
