package domain

import "time"

// EmailTemplate 邮件模板
//
// Subject/Content/HTML 中均可包含 {{variable}} 个性化占位符，
// 在发送时按联系人字段替换。
type EmailTemplate struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Subject   string    `json:"subject" gorm:"type:varchar(500);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"` // 纯文本正文
	HTML      string    `json:"html" gorm:"type:text"`             // HTML 正文，创建时为空则由 Content 推导
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
