package service

import (
	"github.com/google/uuid"

	"chattflow/backend/internal/domain"
)

// TemplateService 封装邮件模板相关业务操作。
type TemplateService struct {
	store domain.Store
}

// NewTemplateService 创建模板服务。
func NewTemplateService(store domain.Store) *TemplateService {
	return &TemplateService{
		store: store,
	}
}

// CreateTemplateInput 创建模板输入
type CreateTemplateInput struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Subject string `json:"subject" binding:"required,min=1,max=500"`
	Content string `json:"content" binding:"required"`
	HTML    string `json:"html"`
}

// UpdateTemplateInput 更新模板输入
type UpdateTemplateInput struct {
	Name    string `json:"name" binding:"omitempty,min=1,max=255"`
	Subject string `json:"subject" binding:"omitempty,min=1,max=500"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// Create 创建邮件模板
//
// HTML 为空时由纯文本正文推导：整体包进一个段落标签。
//
// 参数:
//   - input: 创建模板输入
//
// 返回值:
//   - *domain.EmailTemplate: 创建的模板
//   - error: 错误信息
func (s *TemplateService) Create(input CreateTemplateInput) (*domain.EmailTemplate, error) {
	template := &domain.EmailTemplate{
		ID:      uuid.New().String(),
		Name:    input.Name,
		Subject: input.Subject,
		Content: input.Content,
		HTML:    input.HTML,
	}

	if err := template.Validate(); err != nil {
		return nil, err
	}

	if template.HTML == "" {
		template.HTML = "<p>" + template.Content + "</p>"
	}

	if err := s.store.SaveTemplate(template); err != nil {
		return nil, err
	}
	return template, nil
}

// Get 获取邮件模板
func (s *TemplateService) Get(id string) (*domain.EmailTemplate, error) {
	return s.store.GetTemplate(id)
}

// List 列出全部邮件模板
func (s *TemplateService) List() []domain.EmailTemplate {
	return s.store.ListTemplates()
}

// Update 更新邮件模板
//
// 只覆盖提供的字段；已持久化的历史广播快照不受影响。
func (s *TemplateService) Update(id string, input UpdateTemplateInput) (*domain.EmailTemplate, error) {
	template, err := s.store.GetTemplate(id)
	if err != nil {
		return nil, err
	}

	updated := *template
	if input.Name != "" {
		updated.Name = input.Name
	}
	if input.Subject != "" {
		updated.Subject = input.Subject
	}
	if input.Content != "" {
		updated.Content = input.Content
	}
	if input.HTML != "" {
		updated.HTML = input.HTML
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTemplate(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 删除邮件模板
func (s *TemplateService) Delete(id string) error {
	return s.store.DeleteTemplate(id)
}
