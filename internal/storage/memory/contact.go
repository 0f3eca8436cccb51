package memory

import (
	"time"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage"
)

// SaveContact 保存联系人。
func (s *Store) SaveContact(contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	if _, exists := s.contacts[contact.ID]; !exists {
		s.contactOrder = append(s.contactOrder, contact.ID)
	}
	s.contacts[contact.ID] = contact
	return nil
}

// GetContact 根据 ID 获取联系人。
func (s *Store) GetContact(id string) (*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, ok := s.contacts[id]
	if !ok {
		return nil, storage.ErrContactNotFound
	}
	return contact, nil
}

// ListContacts 按插入顺序返回全部联系人的快照。
func (s *Store) ListContacts() []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Contact, 0, len(s.contactOrder))
	for _, id := range s.contactOrder {
		if c, ok := s.contacts[id]; ok {
			result = append(result, *c)
		}
	}
	return result
}

// ListContactsByTags 返回持有任一给定标签的联系人（OR 语义）。
func (s *Store) ListContactsByTags(tags []string) []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Contact, 0)
	for _, id := range s.contactOrder {
		c, ok := s.contacts[id]
		if !ok {
			continue
		}
		if c.HasAnyTag(tags) {
			result = append(result, *c)
		}
	}
	return result
}

// ListContactsByIDs 返回 ID 在给定集合中的联系人，未知 ID 静默跳过。
func (s *Store) ListContactsByIDs(ids []string) []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	result := make([]domain.Contact, 0, len(ids))
	for _, id := range s.contactOrder {
		if !wanted[id] {
			continue
		}
		if c, ok := s.contacts[id]; ok {
			result = append(result, *c)
		}
	}
	return result
}

// UpdateContact 更新联系人。
func (s *Store) UpdateContact(contact *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contacts[contact.ID]
	if !ok {
		return storage.ErrContactNotFound
	}

	contact.CreatedAt = existing.CreatedAt
	contact.UpdatedAt = time.Now()
	s.contacts[contact.ID] = contact
	return nil
}

// DeleteContact 删除指定联系人。
func (s *Store) DeleteContact(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[id]; !ok {
		return storage.ErrContactNotFound
	}
	delete(s.contacts, id)
	s.contactOrder = removeFromOrder(s.contactOrder, id)
	return nil
}
