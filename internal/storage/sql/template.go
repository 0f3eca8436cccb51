package sql

import (
	"errors"

	"gorm.io/gorm"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage"
)

// ========== Template Repository ==========

// SaveTemplate 保存邮件模板
func (s *Store) SaveTemplate(template *domain.EmailTemplate) error {
	return s.gormDB.Save(template).Error
}

// GetTemplate 根据ID获取邮件模板
func (s *Store) GetTemplate(id string) (*domain.EmailTemplate, error) {
	var template domain.EmailTemplate
	err := s.gormDB.First(&template, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// ListTemplates 按创建顺序返回全部模板
func (s *Store) ListTemplates() []domain.EmailTemplate {
	var templates []domain.EmailTemplate
	if err := s.gormDB.Order("created_at ASC").Find(&templates).Error; err != nil {
		return []domain.EmailTemplate{}
	}
	return templates
}

// UpdateTemplate 更新邮件模板
func (s *Store) UpdateTemplate(template *domain.EmailTemplate) error {
	result := s.gormDB.Model(&domain.EmailTemplate{}).
		Where("id = ?", template.ID).
		Select("name", "subject", "content", "html", "updated_at").
		Updates(template)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrTemplateNotFound
	}
	return nil
}

// DeleteTemplate 删除邮件模板
func (s *Store) DeleteTemplate(id string) error {
	result := s.gormDB.Delete(&domain.EmailTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storage.ErrTemplateNotFound
	}
	return nil
}
