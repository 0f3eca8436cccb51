package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage"
)

func TestContactCRUD(t *testing.T) {
	store := NewStore()

	t.Run("保存并读取联系人", func(t *testing.T) {
		contact := &domain.Contact{
			ID:    "c1",
			Name:  "Acme",
			Email: "a@x.com",
			Tags:  []string{"vip"},
		}
		require.NoError(t, store.SaveContact(contact))

		got, err := store.GetContact("c1")
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("读取不存在的联系人", func(t *testing.T) {
		_, err := store.GetContact("missing")
		assert.ErrorIs(t, err, storage.ErrContactNotFound)
	})

	t.Run("更新保留创建时间", func(t *testing.T) {
		orig, err := store.GetContact("c1")
		require.NoError(t, err)

		updated := &domain.Contact{ID: "c1", Name: "Acme Inc", Email: "a@x.com"}
		require.NoError(t, store.UpdateContact(updated))

		got, err := store.GetContact("c1")
		require.NoError(t, err)
		assert.Equal(t, "Acme Inc", got.Name)
		assert.Equal(t, orig.CreatedAt, got.CreatedAt)
	})

	t.Run("删除联系人", func(t *testing.T) {
		require.NoError(t, store.DeleteContact("c1"))
		_, err := store.GetContact("c1")
		assert.ErrorIs(t, err, storage.ErrContactNotFound)
		assert.ErrorIs(t, store.DeleteContact("c1"), storage.ErrContactNotFound)
	})
}

func TestListContactsOrderAndFilter(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "A", Email: "a@x.com", Tags: []string{"vip"}}))
	require.NoError(t, store.SaveContact(&domain.Contact{ID: "c2", Name: "B", Email: "b@x.com", Tags: []string{"vip", "eu"}}))
	require.NoError(t, store.SaveContact(&domain.Contact{ID: "c3", Name: "C", Email: "c@x.com"}))

	t.Run("按插入顺序列出全部", func(t *testing.T) {
		all := store.ListContacts()
		require.Len(t, all, 3)
		assert.Equal(t, []string{"c1", "c2", "c3"}, []string{all[0].ID, all[1].ID, all[2].ID})
	})

	t.Run("按标签圈选为OR语义", func(t *testing.T) {
		vip := store.ListContactsByTags([]string{"vip"})
		assert.Len(t, vip, 2)

		either := store.ListContactsByTags([]string{"eu", "us"})
		require.Len(t, either, 1)
		assert.Equal(t, "c2", either[0].ID)

		assert.Empty(t, store.ListContactsByTags([]string{"none"}))
	})

	t.Run("按ID圈选时未知ID静默跳过", func(t *testing.T) {
		got := store.ListContactsByIDs([]string{"c3", "missing", "c1"})
		assert.Len(t, got, 2)
	})
}

func TestTagRepository(t *testing.T) {
	store := NewStore()

	t.Run("创建与重名冲突", func(t *testing.T) {
		require.NoError(t, store.CreateTag(&domain.Tag{ID: "t1", Name: "vip", Type: domain.TagTypeCustom}))
		err := store.CreateTag(&domain.Tag{ID: "t2", Name: "vip", Type: domain.TagTypeCustom})
		assert.ErrorIs(t, err, storage.ErrTagExists)
	})

	t.Run("按名称查找", func(t *testing.T) {
		tag, err := store.GetTagByName("vip")
		require.NoError(t, err)
		assert.Equal(t, "t1", tag.ID)

		_, err = store.GetTagByName("missing")
		assert.ErrorIs(t, err, storage.ErrTagNotFound)
	})

	t.Run("计数由联系人扫描推导", func(t *testing.T) {
		require.NoError(t, store.CreateTag(&domain.Tag{ID: "t3", Name: "eu", Type: domain.TagTypeCountry}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c1", Name: "A", Email: "a@x.com", Tags: []string{"vip"}}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c2", Name: "B", Email: "b@x.com", Tags: []string{"vip", "eu"}}))
		require.NoError(t, store.SaveContact(&domain.Contact{ID: "c3", Name: "C", Email: "c@x.com"}))

		tags, err := store.ListTags()
		require.NoError(t, err)
		require.Len(t, tags, 2)

		byName := make(map[string]int)
		for _, tw := range tags {
			byName[tw.Name] = tw.ContactCount
		}
		assert.Equal(t, 2, byName["vip"])
		assert.Equal(t, 1, byName["eu"])
	})

	t.Run("删除标签不级联清理联系人", func(t *testing.T) {
		require.NoError(t, store.DeleteTag("t1"))

		c, err := store.GetContact("c1")
		require.NoError(t, err)
		assert.Contains(t, c.Tags, "vip") // 悬空引用被保留
	})
}

func TestBroadcastRepository(t *testing.T) {
	store := NewStore()

	b := &domain.Broadcast{
		ID:         "b1",
		TemplateID: "tpl1",
		Subject:    "Hi {{businessName}}",
		Recipients: domain.RecipientDescriptor{Type: domain.RecipientAll},
		Stats:      domain.BroadcastStats{Total: 2},
	}
	require.NoError(t, store.SaveBroadcast(b))

	t.Run("读取广播", func(t *testing.T) {
		got, err := store.GetBroadcast("b1")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stats.Total)

		_, err = store.GetBroadcast("missing")
		assert.ErrorIs(t, err, storage.ErrBroadcastNotFound)
	})

	t.Run("最近发送的排在前面", func(t *testing.T) {
		require.NoError(t, store.SaveBroadcast(&domain.Broadcast{ID: "b2", TemplateID: "tpl1"}))
		list := store.ListBroadcasts()
		require.Len(t, list, 2)
		assert.Equal(t, "b2", list[0].ID)
	})

	t.Run("统计递增", func(t *testing.T) {
		require.NoError(t, store.IncrementBroadcastStat("b1", domain.BroadcastStatOpen))
		require.NoError(t, store.IncrementBroadcastStat("b1", domain.BroadcastStatOpen))
		require.NoError(t, store.IncrementBroadcastStat("b1", domain.BroadcastStatClick))

		got, err := store.GetBroadcast("b1")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stats.Opens)
		assert.Equal(t, 1, got.Stats.Clicks)

		assert.ErrorIs(t, store.IncrementBroadcastStat("missing", domain.BroadcastStatOpen), storage.ErrBroadcastNotFound)
	})
}
