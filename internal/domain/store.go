package domain

// Store 聚合所有存储接口
type Store interface {
	// ========== Contact Repository ==========
	SaveContact(contact *Contact) error
	GetContact(id string) (*Contact, error)
	ListContacts() []Contact
	ListContactsByTags(tags []string) []Contact // 持有任一给定标签（OR 语义）
	ListContactsByIDs(ids []string) []Contact   // 未知 ID 静默跳过
	UpdateContact(contact *Contact) error
	DeleteContact(id string) error

	// ========== Tag Repository ==========
	CreateTag(tag *Tag) error
	GetTag(id string) (*Tag, error)
	GetTagByName(name string) (*Tag, error)
	ListTags() ([]TagWithCount, error)
	ListTagDefinitions() []Tag
	UpdateTag(tag *Tag) error
	DeleteTag(id string) error

	// ========== Template Repository ==========
	SaveTemplate(template *EmailTemplate) error
	GetTemplate(id string) (*EmailTemplate, error)
	ListTemplates() []EmailTemplate
	UpdateTemplate(template *EmailTemplate) error
	DeleteTemplate(id string) error

	// ========== Broadcast Repository ==========
	SaveBroadcast(broadcast *Broadcast) error
	GetBroadcast(id string) (*Broadcast, error)
	ListBroadcasts() []Broadcast
	IncrementBroadcastStat(id string, stat BroadcastStat) error

	// ========== Lifecycle ==========
	Close() error
	Health() error
}
