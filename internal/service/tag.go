package service

import (
	"errors"

	"github.com/google/uuid"

	"chattflow/backend/internal/domain"
)

var (
	// ErrTagInUse 标签仍被联系人使用，拒绝删除
	ErrTagInUse = errors.New("tag is in use")
)

// TagCountCache 标签计数缓存抽象
//
// 配置了 Redis 时由其实现；未命中时回落到联系人全量扫描。
type TagCountCache interface {
	GetTagCounts() (map[string]int, bool)
	SetTagCounts(counts map[string]int)
	Invalidate()
}

// TagService 封装标签相关业务操作。
type TagService struct {
	store domain.Store
	cache TagCountCache // 可选
}

// NewTagService 创建标签服务。
func NewTagService(store domain.Store) *TagService {
	return &TagService{
		store: store,
	}
}

// SetCountCache 设置标签计数缓存（可选）。
func (s *TagService) SetCountCache(cache TagCountCache) {
	s.cache = cache
}

// CreateTagInput 创建标签输入
type CreateTagInput struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Type string `json:"type" binding:"required,oneof=business country custom"`
}

// UpdateTagInput 更新标签输入
type UpdateTagInput struct {
	Name string `json:"name" binding:"omitempty,min=1,max=100"`
	Type string `json:"type" binding:"omitempty,oneof=business country custom"`
}

// Create 创建标签
//
// 参数:
//   - input: 创建标签输入
//
// 返回值:
//   - *domain.Tag: 创建的标签
//   - error: 错误信息
func (s *TagService) Create(input CreateTagInput) (*domain.Tag, error) {
	tagType := domain.TagType(input.Type)
	if !tagType.Valid() {
		return nil, domain.ErrInvalidTagType
	}

	tag := &domain.Tag{
		ID:   uuid.New().String(),
		Name: input.Name,
		Type: tagType,
	}

	if err := s.store.CreateTag(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Get 获取标签
func (s *TagService) Get(id string) (*domain.Tag, error) {
	return s.store.GetTag(id)
}

// List 列出全部标签及其推导计数
//
// 计数唯一来源是联系人扫描；缓存只是同一结果的短期副本。
func (s *TagService) List() ([]domain.TagWithCount, error) {
	if s.cache != nil {
		if counts, ok := s.cache.GetTagCounts(); ok {
			return s.listWithCounts(counts)
		}
	}

	tags, err := s.store.ListTags()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		counts := make(map[string]int, len(tags))
		for _, tw := range tags {
			counts[tw.Name] = tw.ContactCount
		}
		s.cache.SetTagCounts(counts)
	}
	return tags, nil
}

// listWithCounts 用已知计数组装标签列表，跳过联系人扫描。
func (s *TagService) listWithCounts(counts map[string]int) ([]domain.TagWithCount, error) {
	tags := s.store.ListTagDefinitions()

	result := make([]domain.TagWithCount, 0, len(tags))
	for _, tag := range tags {
		result = append(result, domain.TagWithCount{
			Tag:          tag,
			ContactCount: counts[tag.Name],
		})
	}
	return result, nil
}

// ContactCount 返回指定标签名的联系人持有数。
func (s *TagService) ContactCount(name string) int {
	return len(s.store.ListContactsByTags([]string{name}))
}

// Update 更新标签
func (s *TagService) Update(id string, input UpdateTagInput) (*domain.Tag, error) {
	tag, err := s.store.GetTag(id)
	if err != nil {
		return nil, err
	}

	updated := *tag
	if input.Name != "" {
		updated.Name = input.Name
	}
	if input.Type != "" {
		tagType := domain.TagType(input.Type)
		if !tagType.Valid() {
			return nil, domain.ErrInvalidTagType
		}
		updated.Type = tagType
	}

	if err := s.store.UpdateTag(&updated); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	return &updated, nil
}

// Delete 删除标签
//
// 仍有联系人持有该标签时拒绝删除；删除成功也不会
// 级联清理联系人上的引用。
func (s *TagService) Delete(id string) error {
	tag, err := s.store.GetTag(id)
	if err != nil {
		return err
	}

	if s.ContactCount(tag.Name) > 0 {
		return ErrTagInUse
	}

	if err := s.store.DeleteTag(id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	return nil
}
