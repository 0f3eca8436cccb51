package domain

import "time"

// RecipientType 收件人圈选方式
type RecipientType string

const (
	RecipientAll    RecipientType = "all"    // 全部联系人
	RecipientTags   RecipientType = "tags"   // 按标签圈选（OR 语义）
	RecipientCustom RecipientType = "custom" // 显式联系人 ID 列表
)

// RecipientRule 收件人圈选规则
//
// Type 决定生效的载荷字段：tags 时使用 Tags，custom 时使用 ContactIDs。
// Resolver 对 Type 做穷尽匹配，未知类型返回 ErrInvalidRule 而不是静默放行。
type RecipientRule struct {
	Type       RecipientType `json:"type" binding:"required"`
	Tags       []string      `json:"tags,omitempty"`
	ContactIDs []string      `json:"-"`
}

// RecipientDescriptor 广播记录中持久化的收件人描述
//
// custom 方式不记录具体 ID，只记录类型（与历史数据契约保持一致）。
type RecipientDescriptor struct {
	Type RecipientType `json:"type"`
	Tags []string      `json:"tags,omitempty"`
}

// BroadcastStats 广播聚合统计
//
// Total 固定为发送时解析出的收件人数量；Sent/Failed 在扇出结束后
// 由逐收件人结果合并得出；Opens/Clicks 初始为 0，仅由追踪端点递增。
type BroadcastStats struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Opens  int `json:"opens"`
	Clicks int `json:"clicks"`
}

// Broadcast 一次完成的广播发送记录
//
// 模板内容在发送时快照到记录中，之后模板被编辑或删除不影响历史广播。
// 记录创建后不再修改（统计递增除外），也不可删除。
type Broadcast struct {
	ID         string              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TemplateID string              `json:"templateId" gorm:"type:varchar(36);index"` // 字符串快照，不是外键
	Subject    string              `json:"subject" gorm:"type:varchar(500)"`
	Content    string              `json:"content" gorm:"type:text"`
	HTML       string              `json:"html" gorm:"type:text"`
	Recipients RecipientDescriptor `json:"recipients" gorm:"serializer:json;type:json"`
	SentAt     time.Time           `json:"sentAt" gorm:"index"`
	Stats      BroadcastStats      `json:"stats" gorm:"serializer:json;type:json"`
}

// BroadcastStat 可被外部追踪端点递增的统计项
type BroadcastStat string

const (
	BroadcastStatOpen  BroadcastStat = "open"
	BroadcastStatClick BroadcastStat = "click"
)

// Valid 判断统计项是否合法。
func (s BroadcastStat) Valid() bool {
	return s == BroadcastStatOpen || s == BroadcastStatClick
}
