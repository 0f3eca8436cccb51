package service

import (
	"github.com/google/uuid"

	"chattflow/backend/internal/domain"
)

// ContactService 封装联系人相关业务操作。
//
// 标签计数由联系人推导，任何联系人变更都会使缓存的计数失效。
type ContactService struct {
	store domain.Store
	cache TagCountCache // 可选
}

// NewContactService 创建联系人服务。
func NewContactService(store domain.Store) *ContactService {
	return &ContactService{
		store: store,
	}
}

// SetCountCache 设置标签计数缓存（可选），与标签服务共用同一实例。
func (s *ContactService) SetCountCache(cache TagCountCache) {
	s.cache = cache
}

// invalidateCounts 在联系人变更落库后使缓存的标签计数失效。
func (s *ContactService) invalidateCounts() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// CreateContactInput 创建联系人输入
type CreateContactInput struct {
	Name    string   `json:"name" binding:"required,min=1,max=255"`
	Email   string   `json:"email" binding:"required,email"`
	Phone   string   `json:"phone" binding:"omitempty,max=50"`
	Website string   `json:"website" binding:"omitempty,max=255"`
	Country string   `json:"country" binding:"omitempty,max=100"`
	Tags    []string `json:"tags"`
}

// UpdateContactInput 更新联系人输入
//
// Tags 用指针区分「未提供」与「清空」。
type UpdateContactInput struct {
	Name    string    `json:"name" binding:"omitempty,min=1,max=255"`
	Email   string    `json:"email" binding:"omitempty,email"`
	Phone   string    `json:"phone" binding:"omitempty,max=50"`
	Website string    `json:"website" binding:"omitempty,max=255"`
	Country string    `json:"country" binding:"omitempty,max=100"`
	Tags    *[]string `json:"tags"`
}

// Create 创建联系人
//
// 参数:
//   - input: 创建联系人输入
//
// 返回值:
//   - *domain.Contact: 创建的联系人
//   - error: 错误信息
func (s *ContactService) Create(input CreateContactInput) (*domain.Contact, error) {
	contact := &domain.Contact{
		ID:      uuid.New().String(),
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Website: input.Website,
		Country: input.Country,
		Tags:    input.Tags,
	}
	if contact.Tags == nil {
		contact.Tags = []string{}
	}

	if err := contact.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveContact(contact); err != nil {
		return nil, err
	}
	s.invalidateCounts()
	return contact, nil
}

// Get 获取联系人
func (s *ContactService) Get(id string) (*domain.Contact, error) {
	return s.store.GetContact(id)
}

// List 列出全部联系人
func (s *ContactService) List() []domain.Contact {
	return s.store.ListContacts()
}

// Update 更新联系人
//
// 参数:
//   - id: 联系人ID
//   - input: 更新输入，零值字段保持原样
//
// 返回值:
//   - *domain.Contact: 更新后的联系人
//   - error: 错误信息
func (s *ContactService) Update(id string, input UpdateContactInput) (*domain.Contact, error) {
	contact, err := s.store.GetContact(id)
	if err != nil {
		return nil, err
	}

	updated := *contact
	if input.Name != "" {
		updated.Name = input.Name
	}
	if input.Email != "" {
		updated.Email = input.Email
	}
	if input.Phone != "" {
		updated.Phone = input.Phone
	}
	if input.Website != "" {
		updated.Website = input.Website
	}
	if input.Country != "" {
		updated.Country = input.Country
	}
	if input.Tags != nil {
		updated.Tags = *input.Tags
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateContact(&updated); err != nil {
		return nil, err
	}
	s.invalidateCounts()
	return &updated, nil
}

// Delete 删除联系人
func (s *ContactService) Delete(id string) error {
	if err := s.store.DeleteContact(id); err != nil {
		return err
	}
	s.invalidateCounts()
	return nil
}
