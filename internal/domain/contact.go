package domain

import "time"

// Contact 表示营销联系人的业务实体。
type Contact struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);index;not null"`
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Website   string    `json:"website,omitempty" gorm:"type:varchar(255)"`
	Country   string    `json:"country,omitempty" gorm:"type:varchar(100)"`
	Tags      []string  `json:"tags" gorm:"serializer:json;type:json"` // 标签名称列表（按值引用 Tag.Name，允许悬空引用）
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasAnyTag 判断联系人是否持有给定标签中的至少一个（OR 语义）。
func (c *Contact) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range c.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// HasTag 判断联系人是否持有指定标签。
func (c *Contact) HasTag(tag string) bool {
	for _, have := range c.Tags {
		if have == tag {
			return true
		}
	}
	return false
}
