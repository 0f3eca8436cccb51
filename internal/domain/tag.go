package domain

import "time"

// TagType 标签类型
type TagType string

const (
	TagTypeBusiness TagType = "business" // 行业标签
	TagTypeCountry  TagType = "country"  // 国家标签
	TagTypeCustom   TagType = "custom"   // 自定义标签
)

// Valid 判断标签类型是否合法。
func (t TagType) Valid() bool {
	switch t {
	case TagTypeBusiness, TagTypeCountry, TagTypeCustom:
		return true
	}
	return false
}

// Tag 联系人分组标签
//
// 标签与联系人通过 Contact.Tags 中的名称按值关联，删除标签不会级联
// 清理联系人上的引用（悬空引用是允许的）。
type Tag struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"` // 关联键，全局唯一
	Type      TagType   `json:"type" gorm:"type:varchar(20)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TagWithCount 带联系人计数的标签
//
// 计数始终由扫描联系人实时推导，不落库，避免缓存字段漂移。
type TagWithCount struct {
	Tag
	ContactCount int `json:"contactCount"` // 持有该标签的联系人数量
}
