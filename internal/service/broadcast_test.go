package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/mailer"
	"chattflow/backend/internal/storage"
	"chattflow/backend/internal/storage/memory"
)

// fakeSender 记录发出的消息，可按收件人注入失败。
type fakeSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	failFor  map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[string]bool)}
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[msg.To] {
		return mailer.ErrGatewaySend
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeSender) sent() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]mailer.Message, len(f.messages))
	copy(out, f.messages)
	return out
}

func newBroadcastFixture(t *testing.T) (*memory.Store, *fakeSender, *BroadcastService) {
	t.Helper()
	store := memory.NewStore()
	sender := newFakeSender()
	svc := NewBroadcastService(store, sender, BroadcastConfig{
		Workers:       4,
		BroadcastFrom: "support@chattflow.com",
		DirectFrom:    "business@chattflow.com",
	}, zap.NewNop())
	return store, sender, svc
}

func TestResolve(t *testing.T) {
	store, _, svc := newBroadcastFixture(t)
	require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "A", Email: "a@x.com", Tags: []string{"vip"}}))
	require.NoError(t, store.SaveContact(&domain.Contact{ID: "c2", Name: "B", Email: "b@x.com", Tags: []string{"vip", "eu"}}))
	require.NoError(t, store.SaveContact(&domain.Contact{ID: "c3", Name: "C", Email: "c@x.com"}))

	t.Run("all返回全部联系人", func(t *testing.T) {
		contacts, err := svc.Resolve(domain.RecipientRule{Type: domain.RecipientAll})
		require.NoError(t, err)
		assert.Len(t, contacts, 3)
	})

	t.Run("tags为OR语义且是全集子集", func(t *testing.T) {
		contacts, err := svc.Resolve(domain.RecipientRule{Type: domain.RecipientTags, Tags: []string{"vip"}})
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		for _, c := range contacts {
			assert.True(t, c.HasTag("vip"))
		}
	})

	t.Run("无匹配标签返回EmptyAudience而非空集", func(t *testing.T) {
		_, err := svc.Resolve(domain.RecipientRule{Type: domain.RecipientTags, Tags: []string{"none"}})
		assert.ErrorIs(t, err, ErrEmptyAudience)
	})

	t.Run("tags规则缺少标签是非法规则", func(t *testing.T) {
		_, err := svc.Resolve(domain.RecipientRule{Type: domain.RecipientTags})
		assert.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("未知规则类型是非法规则", func(t *testing.T) {
		_, err := svc.Resolve(domain.RecipientRule{Type: "segment"})
		assert.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("custom未知ID静默跳过", func(t *testing.T) {
		contacts, err := svc.Resolve(domain.RecipientRule{Type: domain.RecipientCustom, ContactIDs: []string{"c1", "missing"}})
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "c1", contacts[0].ID)
	})

	t.Run("custom全部未知返回EmptyAudience", func(t *testing.T) {
		_, err := svc.Resolve(domain.RecipientRule{Type: domain.RecipientCustom, ContactIDs: []string{"x", "y"}})
		assert.ErrorIs(t, err, ErrEmptyAudience)
	})
}

func TestSendBroadcast(t *testing.T) {
	ctx := context.Background()

	t.Run("模板不存在时不产生任何广播记录", func(t *testing.T) {
		store, sender, svc := newBroadcastFixture(t)
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "A", Email: "a@x.com"}))

		_, err := svc.SendBroadcast(ctx, "missing", domain.RecipientRule{Type: domain.RecipientAll})

		assert.ErrorIs(t, err, storage.ErrTemplateNotFound)
		assert.Empty(t, store.ListBroadcasts())
		assert.Empty(t, sender.sent())
	})

	t.Run("空受众时不发送也不落库", func(t *testing.T) {
		store, sender, svc := newBroadcastFixture(t)
		require.NoError(t, store.SaveTemplate(&domain.EmailTemplate{ID: "tpl1", Name: "t", Subject: "Hi", Content: "Hello"}))

		_, err := svc.SendBroadcast(ctx, "tpl1", domain.RecipientRule{Type: domain.RecipientAll})

		assert.ErrorIs(t, err, ErrEmptyAudience)
		assert.Empty(t, store.ListBroadcasts())
		assert.Empty(t, sender.sent())
	})

	t.Run("端到端：两个联系人的完整调度", func(t *testing.T) {
		store, sender, svc := newBroadcastFixture(t)
		require.NoError(t, store.SaveTemplate(&domain.EmailTemplate{
			ID:      "tpl1",
			Name:    "greeting",
			Subject: "Hi {{businessName}}",
			Content: "Hello",
			HTML:    "",
		}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "Acme", Email: "a@x.com"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c2", Name: "Widget", Email: "w@x.com"}))

		broadcast, err := svc.SendBroadcast(ctx, "tpl1", domain.RecipientRule{Type: domain.RecipientAll})
		require.NoError(t, err)

		// 恰好一条广播记录，Total 固定为圈选人数
		records := store.ListBroadcasts()
		require.Len(t, records, 1)
		assert.Equal(t, broadcast.ID, records[0].ID)
		assert.Equal(t, 2, records[0].Stats.Total)
		assert.Equal(t, 2, records[0].Stats.Sent)
		assert.Equal(t, 0, records[0].Stats.Failed)
		assert.Equal(t, 0, records[0].Stats.Opens)
		assert.Equal(t, 0, records[0].Stats.Clicks)

		// 模板内容快照
		assert.Equal(t, "tpl1", records[0].TemplateID)
		assert.Equal(t, "Hi {{businessName}}", records[0].Subject)
		assert.Equal(t, domain.RecipientAll, records[0].Recipients.Type)

		// 恰好两次网关请求，主题逐联系人渲染
		msgs := sender.sent()
		require.Len(t, msgs, 2)
		subjects := []string{msgs[0].Subject, msgs[1].Subject}
		assert.ElementsMatch(t, []string{"Hi Acme", "Hi Widget"}, subjects)

		for _, msg := range msgs {
			// 空 HTML 由纯文本推导后包进默认样式容器
			assert.True(t, strings.HasPrefix(msg.HTML, `<div style="font-family:`))
			assert.Contains(t, msg.HTML, "<p>Hello</p>")
			assert.Equal(t, "Hello", msg.Text)
			assert.Equal(t, "support@chattflow.com", msg.From)
		}
	})

	t.Run("部分失败时记录已落库并返回网关错误", func(t *testing.T) {
		store, sender, svc := newBroadcastFixture(t)
		require.NoError(t, store.SaveTemplate(&domain.EmailTemplate{ID: "tpl1", Name: "t", Subject: "Hi", Content: "Hello"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "A", Email: "a@x.com"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c2", Name: "B", Email: "b@x.com"}))
		sender.failFor["b@x.com"] = true

		broadcast, err := svc.SendBroadcast(ctx, "tpl1", domain.RecipientRule{Type: domain.RecipientAll})

		require.Error(t, err)
		assert.ErrorIs(t, err, mailer.ErrGatewaySend)
		require.NotNil(t, broadcast)

		saved, getErr := store.GetBroadcast(broadcast.ID)
		require.NoError(t, getErr)
		assert.Equal(t, 2, saved.Stats.Total)
		assert.Equal(t, 1, saved.Stats.Sent)
		assert.Equal(t, 1, saved.Stats.Failed)
	})

	t.Run("按标签圈选只触达持有标签的联系人", func(t *testing.T) {
		store, sender, svc := newBroadcastFixture(t)
		require.NoError(t, store.SaveTemplate(&domain.EmailTemplate{ID: "tpl1", Name: "t", Subject: "Hi", Content: "Hello"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "A", Email: "a@x.com", Tags: []string{"vip"}}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c2", Name: "B", Email: "b@x.com"}))

		broadcast, err := svc.SendBroadcast(ctx, "tpl1", domain.RecipientRule{Type: domain.RecipientTags, Tags: []string{"vip"}})
		require.NoError(t, err)

		assert.Equal(t, 1, broadcast.Stats.Total)
		msgs := sender.sent()
		require.Len(t, msgs, 1)
		assert.Equal(t, "a@x.com", msgs[0].To)
		assert.Equal(t, []string{"vip"}, broadcast.Recipients.Tags)
	})

	t.Run("上下文取消不中断已开始的调度", func(t *testing.T) {
		store, sender, svc := newBroadcastFixture(t)
		require.NoError(t, store.SaveTemplate(&domain.EmailTemplate{ID: "tpl1", Name: "t", Subject: "Hi", Content: "Hello"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "A", Email: "a@x.com"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c2", Name: "B", Email: "b@x.com"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c3", Name: "C", Email: "c@x.com"}))

		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		broadcast, err := svc.SendBroadcast(canceled, "tpl1", domain.RecipientRule{Type: domain.RecipientAll})
		require.NoError(t, err)

		// 整批发完并落库，取消只影响尚未开始的调度
		assert.Equal(t, 3, broadcast.Stats.Sent)
		assert.Len(t, sender.sent(), 3)
		assert.Len(t, store.ListBroadcasts(), 1)
	})

	t.Run("模板编辑不影响历史广播快照", func(t *testing.T) {
		store, _, svc := newBroadcastFixture(t)
		require.NoError(t, store.SaveTemplate(&domain.EmailTemplate{ID: "tpl1", Name: "t", Subject: "Old", Content: "Hello"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "A", Email: "a@x.com"}))

		broadcast, err := svc.SendBroadcast(ctx, "tpl1", domain.RecipientRule{Type: domain.RecipientAll})
		require.NoError(t, err)

		require.NoError(t, store.UpdateTemplate(&domain.EmailTemplate{ID: "tpl1", Name: "t", Subject: "New", Content: "Hello"}))
		require.NoError(t, store.DeleteTemplate("tpl1"))

		saved, getErr := store.GetBroadcast(broadcast.ID)
		require.NoError(t, getErr)
		assert.Equal(t, "Old", saved.Subject)
	})
}

func TestSendToContacts(t *testing.T) {
	ctx := context.Background()

	t.Run("直发路径使用直发发件人并记录custom类型", func(t *testing.T) {
		store, sender, svc := newBroadcastFixture(t)
		require.NoError(t, store.SaveTemplate(&domain.EmailTemplate{ID: "tpl1", Name: "t", Subject: "Hi {{businessName}}", Content: "Hello"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "Acme", Email: "a@x.com"}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c2", Name: "Widget", Email: "w@x.com"}))

		broadcast, err := svc.SendToContacts(ctx, "tpl1", []string{"c1", "missing"})
		require.NoError(t, err)

		assert.Equal(t, domain.RecipientCustom, broadcast.Recipients.Type)
		assert.Equal(t, 1, broadcast.Stats.Total)

		msgs := sender.sent()
		require.Len(t, msgs, 1)
		assert.Equal(t, "business@chattflow.com", msgs[0].From)
		assert.Equal(t, "Hi Acme", msgs[0].Subject)
	})

	t.Run("全部ID未知时返回EmptyAudience", func(t *testing.T) {
		store, _, svc := newBroadcastFixture(t)
		require.NoError(t, store.SaveTemplate(&domain.EmailTemplate{ID: "tpl1", Name: "t", Subject: "Hi", Content: "Hello"}))

		_, err := svc.SendToContacts(ctx, "tpl1", []string{"x"})
		assert.ErrorIs(t, err, ErrEmptyAudience)
		assert.Empty(t, store.ListBroadcasts())
	})
}

func TestRecordEvent(t *testing.T) {
	store, _, svc := newBroadcastFixture(t)
	require.NoError(t, store.SaveBroadcast(&domain.Broadcast{ID: "b1"}))

	require.NoError(t, svc.RecordEvent("b1", domain.BroadcastStatOpen))
	require.NoError(t, svc.RecordEvent("b1", domain.BroadcastStatClick))

	saved, err := store.GetBroadcast("b1")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Stats.Opens)
	assert.Equal(t, 1, saved.Stats.Clicks)

	assert.ErrorIs(t, svc.RecordEvent("b1", "bounce"), ErrInvalidStat)
	assert.ErrorIs(t, svc.RecordEvent("missing", domain.BroadcastStatOpen), storage.ErrBroadcastNotFound)
}
