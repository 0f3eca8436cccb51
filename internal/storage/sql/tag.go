package sql

import (
	"errors"

	"gorm.io/gorm"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage"
)

// ========== Tag Repository ==========

// CreateTag 创建标签，名称全局唯一
func (s *Store) CreateTag(tag *domain.Tag) error {
	var count int64
	if err := s.gormDB.Model(&domain.Tag{}).Where("name = ?", tag.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return storage.ErrTagExists
	}
	return s.gormDB.Create(tag).Error
}

// GetTag 获取标签
func (s *Store) GetTag(id string) (*domain.Tag, error) {
	var tag domain.Tag
	err := s.gormDB.First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetTagByName 根据名称获取标签
func (s *Store) GetTagByName(name string) (*domain.Tag, error) {
	var tag domain.Tag
	err := s.gormDB.First(&tag, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListTags 按名称排序返回全部标签，计数由扫描联系人推导
func (s *Store) ListTags() ([]domain.TagWithCount, error) {
	var tags []domain.Tag
	if err := s.gormDB.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, c := range s.ListContacts() {
		for _, name := range c.Tags {
			counts[name]++
		}
	}

	result := make([]domain.TagWithCount, 0, len(tags))
	for _, tag := range tags {
		result = append(result, domain.TagWithCount{
			Tag:          tag,
			ContactCount: counts[tag.Name],
		})
	}
	return result, nil
}

// ListTagDefinitions 按名称排序返回全部标签定义，不附带计数
func (s *Store) ListTagDefinitions() []domain.Tag {
	var tags []domain.Tag
	if err := s.gormDB.Order("name ASC").Find(&tags).Error; err != nil {
		return nil
	}
	return tags
}

// UpdateTag 更新标签
func (s *Store) UpdateTag(tag *domain.Tag) error {
	var count int64
	if err := s.gormDB.Model(&domain.Tag{}).
		Where("name = ? AND id <> ?", tag.Name, tag.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return storage.ErrTagExists
	}

	result := s.gormDB.Model(&domain.Tag{}).
		Where("id = ?", tag.ID).
		Select("name", "type", "updated_at").
		Updates(tag)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrTagNotFound
	}
	return nil
}

// DeleteTag 删除标签
//
// 不级联清理 Contact.Tags 中的引用。
func (s *Store) DeleteTag(id string) error {
	result := s.gormDB.Delete(&domain.Tag{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrTagNotFound
	}
	return nil
}
