package memory

import (
	"time"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage"
)

// SaveTemplate 保存邮件模板。
func (s *Store) SaveTemplate(template *domain.EmailTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now

	if _, exists := s.templates[template.ID]; !exists {
		s.templateOrder = append(s.templateOrder, template.ID)
	}
	s.templates[template.ID] = template
	return nil
}

// GetTemplate 根据 ID 获取邮件模板。
func (s *Store) GetTemplate(id string) (*domain.EmailTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	template, ok := s.templates[id]
	if !ok {
		return nil, storage.ErrTemplateNotFound
	}
	return template, nil
}

// ListTemplates 按插入顺序返回全部模板的快照。
func (s *Store) ListTemplates() []domain.EmailTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.EmailTemplate, 0, len(s.templateOrder))
	for _, id := range s.templateOrder {
		if t, ok := s.templates[id]; ok {
			result = append(result, *t)
		}
	}
	return result
}

// UpdateTemplate 更新邮件模板。
func (s *Store) UpdateTemplate(template *domain.EmailTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.templates[template.ID]
	if !ok {
		return storage.ErrTemplateNotFound
	}

	template.CreatedAt = existing.CreatedAt
	template.UpdatedAt = time.Now()
	s.templates[template.ID] = template
	return nil
}

// DeleteTemplate 删除邮件模板。
//
// 历史广播保存的是内容快照，不受模板删除影响。
func (s *Store) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return storage.ErrTemplateNotFound
	}
	delete(s.templates, id)
	s.templateOrder = removeFromOrder(s.templateOrder, id)
	return nil
}
