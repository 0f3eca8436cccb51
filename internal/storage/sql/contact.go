package sql

import (
	"errors"

	"gorm.io/gorm"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage"
)

// ========== Contact Repository ==========

// SaveContact 保存联系人
func (s *Store) SaveContact(contact *domain.Contact) error {
	return s.gormDB.Save(contact).Error
}

// GetContact 根据ID获取联系人
func (s *Store) GetContact(id string) (*domain.Contact, error) {
	var contact domain.Contact
	err := s.gormDB.First(&contact, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// ListContacts 按创建顺序返回全部联系人
func (s *Store) ListContacts() []domain.Contact {
	var contacts []domain.Contact
	if err := s.gormDB.Order("created_at ASC").Find(&contacts).Error; err != nil {
		return []domain.Contact{}
	}
	return contacts
}

// ListContactsByTags 返回持有任一给定标签的联系人（OR 语义）
//
// 标签以 JSON 形式存储，成员判断跨 MySQL/PostgreSQL 方言不可移植，
// 在应用侧过滤。
func (s *Store) ListContactsByTags(tags []string) []domain.Contact {
	all := s.ListContacts()
	result := make([]domain.Contact, 0)
	for _, c := range all {
		if c.HasAnyTag(tags) {
			result = append(result, c)
		}
	}
	return result
}

// ListContactsByIDs 返回ID在给定集合中的联系人，未知ID静默跳过
func (s *Store) ListContactsByIDs(ids []string) []domain.Contact {
	if len(ids) == 0 {
		return []domain.Contact{}
	}
	var contacts []domain.Contact
	if err := s.gormDB.Where("id IN ?", ids).Order("created_at ASC").Find(&contacts).Error; err != nil {
		return []domain.Contact{}
	}
	return contacts
}

// UpdateContact 更新联系人
func (s *Store) UpdateContact(contact *domain.Contact) error {
	result := s.gormDB.Model(&domain.Contact{}).
		Where("id = ?", contact.ID).
		Select("name", "email", "phone", "website", "country", "tags", "updated_at").
		Updates(contact)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrContactNotFound
	}
	return nil
}

// DeleteContact 删除联系人
func (s *Store) DeleteContact(id string) error {
	result := s.gormDB.Delete(&domain.Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrContactNotFound
	}
	return nil
}
