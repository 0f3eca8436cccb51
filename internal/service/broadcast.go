package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/mailer"
	"chattflow/backend/internal/pool"
)

var (
	// ErrEmptyAudience 圈选结果为空
	ErrEmptyAudience = errors.New("no contacts matched the recipient rule")
	// ErrInvalidRule 收件人规则非法（未知类型或 tags 规则缺少标签）
	ErrInvalidRule = errors.New("invalid recipient rule")
	// ErrInvalidStat 未知的统计项
	ErrInvalidStat = errors.New("invalid broadcast stat")
)

// BroadcastMetrics 广播调度指标上报抽象
//
// 具体实现由 monitoring 包提供，服务层不依赖指标后端。
type BroadcastMetrics interface {
	RecordBroadcast(total, sent, failed int, duration time.Duration)
	RecordBroadcastEvent(kind string)
}

// BroadcastService 广播调度服务
//
// 负责 解析收件人 -> 逐联系人渲染 -> 经协程池扇出发送 -> 合并结果落库
// 的完整编排。单次调度内模板与联系人都取调度时刻的快照，
// 调度期间的并发编辑不影响已在途的发送。
type BroadcastService struct {
	store   domain.Store
	sender  mailer.Sender
	log     *zap.Logger
	metrics BroadcastMetrics // 可选

	workers       int    // 扇出并发上限
	broadcastFrom string // 广播路径的发件人
	directFrom    string // 直发路径的发件人
}

// BroadcastConfig 广播调度配置
type BroadcastConfig struct {
	Workers       int    // 扇出并发上限，默认 8
	BroadcastFrom string // 广播发件人地址
	DirectFrom    string // 直发发件人地址
}

// NewBroadcastService 创建广播调度服务。
func NewBroadcastService(store domain.Store, sender mailer.Sender, cfg BroadcastConfig, log *zap.Logger) *BroadcastService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BroadcastService{
		store:         store,
		sender:        sender,
		log:           log,
		workers:       workers,
		broadcastFrom: cfg.BroadcastFrom,
		directFrom:    cfg.DirectFrom,
	}
}

// SetMetrics 设置指标上报（可选）。
func (s *BroadcastService) SetMetrics(metrics BroadcastMetrics) {
	s.metrics = metrics
}

// SendBroadcast 按收件人规则向圈选出的联系人发送模板邮件。
//
// 模板不存在或圈选结果为空时在任何副作用发生前中止。
// 扇出结束后持久化唯一一条广播记录，Stats.Total 固定为圈选人数，
// Sent/Failed 来自逐收件人结果合并。存在失败时返回已落库的记录
// 和包装后的 mailer.ErrGatewaySend。
//
// 参数:
//   - ctx: 上下文
//   - templateID: 模板ID
//   - rule: 收件人圈选规则（all 或 tags）
//
// 返回值:
//   - *domain.Broadcast: 已持久化的广播记录
//   - error: 错误信息
func (s *BroadcastService) SendBroadcast(ctx context.Context, templateID string, rule domain.RecipientRule) (*domain.Broadcast, error) {
	return s.dispatch(ctx, templateID, rule, s.broadcastFrom)
}

// SendToContacts 向显式指定的联系人列表发送模板邮件（直发路径）。
//
// 未知的联系人 ID 静默跳过；全部未知时返回 ErrEmptyAudience。
//
// 参数:
//   - ctx: 上下文
//   - templateID: 模板ID
//   - contactIDs: 联系人ID列表
//
// 返回值:
//   - *domain.Broadcast: 已持久化的广播记录
//   - error: 错误信息
func (s *BroadcastService) SendToContacts(ctx context.Context, templateID string, contactIDs []string) (*domain.Broadcast, error) {
	rule := domain.RecipientRule{
		Type:       domain.RecipientCustom,
		ContactIDs: contactIDs,
	}
	return s.dispatch(ctx, templateID, rule, s.directFrom)
}

// dispatch 执行一次完整的广播调度。
func (s *BroadcastService) dispatch(ctx context.Context, templateID string, rule domain.RecipientRule, from string) (*domain.Broadcast, error) {
	// 1. 加载模板，失败则在任何联系人被触达前中止
	template, err := s.store.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}

	// 2. 解析收件人，失败则在任何发送或落库前中止
	contacts, err := s.Resolve(rule)
	if err != nil {
		return nil, err
	}

	s.log.Info("dispatching broadcast",
		zap.String("template_id", templateID),
		zap.String("rule_type", string(rule.Type)),
		zap.Int("recipients", len(contacts)),
	)

	// 3. 逐联系人渲染并经协程池扇出发送，等待整批结束
	started := time.Now()
	failed := s.fanOut(ctx, template, contacts, from)
	if s.metrics != nil {
		s.metrics.RecordBroadcast(len(contacts), len(contacts)-failed, failed, time.Since(started))
	}

	// 4. 扇出结束后持久化唯一一条广播记录
	broadcast := &domain.Broadcast{
		ID:         uuid.New().String(),
		TemplateID: templateID,
		Subject:    template.Subject,
		Content:    template.Content,
		HTML:       template.HTML,
		Recipients: domain.RecipientDescriptor{
			Type: rule.Type,
			Tags: rule.Tags,
		},
		SentAt: time.Now(),
		Stats: domain.BroadcastStats{
			Total:  len(contacts),
			Sent:   len(contacts) - failed,
			Failed: failed,
		},
	}
	if err := s.store.SaveBroadcast(broadcast); err != nil {
		return nil, fmt.Errorf("save broadcast: %w", err)
	}

	if failed > 0 {
		s.log.Warn("broadcast partially failed",
			zap.String("broadcast_id", broadcast.ID),
			zap.Int("failed", failed),
			zap.Int("total", len(contacts)),
		)
		return broadcast, fmt.Errorf("%w: %d of %d deliveries failed",
			mailer.ErrGatewaySend, failed, len(contacts))
	}
	return broadcast, nil
}

// fanOut 对每个联系人渲染个性化内容并发送，返回失败数。
//
// 并发由协程池限制在 workers 以内；整批等待，单个失败不中断其余发送。
// 调度一旦开始就不再随请求上下文取消，客户端断开后整批仍会发完并落库。
func (s *BroadcastService) fanOut(ctx context.Context, template *domain.EmailTemplate, contacts []domain.Contact, from string) int {
	ctx = context.WithoutCancel(ctx)

	workers := pool.NewWorkerPool(s.workers, len(contacts), s.log)
	workers.Start(ctx)

	var mu sync.Mutex
	failed := 0

	var wg sync.WaitGroup
	for i := range contacts {
		contact := contacts[i]
		wg.Add(1)
		workers.Submit(func() {
			defer wg.Done()
			if err := s.sender.Send(ctx, s.renderMessage(template, &contact, from)); err != nil {
				s.log.Warn("send failed",
					zap.String("to", contact.Email),
					zap.Error(err),
				)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	workers.Stop()

	return failed
}

// renderMessage 为单个联系人渲染一条待发送消息。
//
// HTML 为空时回落为纯文本正文的逐行段落转换；最终 HTML 包进默认样式容器。
func (s *BroadcastService) renderMessage(template *domain.EmailTemplate, contact *domain.Contact, from string) mailer.Message {
	data := mailer.PersonalizationFromContact(contact)

	subject := mailer.Render(template.Subject, data)
	text := mailer.Render(template.Content, data)
	html := mailer.Render(template.HTML, data)

	if html == "" {
		html = mailer.TextToHTML(text)
	}
	html = mailer.WrapHTML(html)

	return mailer.Message{
		To:      contact.Email,
		Subject: subject,
		Text:    text,
		HTML:    html,
		From:    from,
	}
}

// Resolve 按收件人规则解析联系人集合。
//
// 对规则类型做穷尽匹配：
//   - all: 全部联系人
//   - tags: 持有任一给定标签的联系人；标签列表为空是非法规则
//   - custom: ID 在给定集合中的联系人，未知 ID 静默跳过
//
// 解析结果为空时返回 ErrEmptyAudience，绝不静默返回空集。
func (s *BroadcastService) Resolve(rule domain.RecipientRule) ([]domain.Contact, error) {
	var contacts []domain.Contact

	switch rule.Type {
	case domain.RecipientAll:
		contacts = s.store.ListContacts()
	case domain.RecipientTags:
		if len(rule.Tags) == 0 {
			return nil, fmt.Errorf("%w: tags rule requires at least one tag", ErrInvalidRule)
		}
		contacts = s.store.ListContactsByTags(rule.Tags)
	case domain.RecipientCustom:
		contacts = s.store.ListContactsByIDs(rule.ContactIDs)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidRule, rule.Type)
	}

	if len(contacts) == 0 {
		return nil, ErrEmptyAudience
	}
	return contacts, nil
}

// Get 获取广播记录
func (s *BroadcastService) Get(id string) (*domain.Broadcast, error) {
	return s.store.GetBroadcast(id)
}

// List 列出全部广播记录，最近发送的在前。
func (s *BroadcastService) List() []domain.Broadcast {
	return s.store.ListBroadcasts()
}

// RecordEvent 递增广播的打开/点击计数（外部追踪回调用）。
func (s *BroadcastService) RecordEvent(id string, stat domain.BroadcastStat) error {
	if !stat.Valid() {
		return ErrInvalidStat
	}
	if err := s.store.IncrementBroadcastStat(id, stat); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordBroadcastEvent(string(stat))
	}
	return nil
}
