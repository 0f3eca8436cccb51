package sql

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage"
)

// ========== Broadcast Repository ==========

// SaveBroadcast 保存广播记录
func (s *Store) SaveBroadcast(broadcast *domain.Broadcast) error {
	return s.gormDB.Save(broadcast).Error
}

// GetBroadcast 根据ID获取广播记录
func (s *Store) GetBroadcast(id string) (*domain.Broadcast, error) {
	var broadcast domain.Broadcast
	err := s.gormDB.First(&broadcast, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrBroadcastNotFound
	}
	if err != nil {
		return nil, err
	}
	return &broadcast, nil
}

// ListBroadcasts 返回全部广播记录，最近发送的在前
func (s *Store) ListBroadcasts() []domain.Broadcast {
	var broadcasts []domain.Broadcast
	if err := s.gormDB.Order("sent_at DESC").Find(&broadcasts).Error; err != nil {
		return []domain.Broadcast{}
	}
	return broadcasts
}

// IncrementBroadcastStat 递增广播的打开/点击计数
//
// 统计以 JSON 列存储，跨方言无法做原地递增，使用事务内
// 读-改-写保证并发回调下不丢计数。
func (s *Store) IncrementBroadcastStat(id string, stat domain.BroadcastStat) error {
	return s.gormDB.Transaction(func(tx *gorm.DB) error {
		var broadcast domain.Broadcast
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&broadcast, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return storage.ErrBroadcastNotFound
		}
		if err != nil {
			return err
		}

		switch stat {
		case domain.BroadcastStatOpen:
			broadcast.Stats.Opens++
		case domain.BroadcastStatClick:
			broadcast.Stats.Clicks++
		}

		return tx.Model(&domain.Broadcast{}).
			Where("id = ?", id).
			Update("stats", broadcast.Stats).Error
	})
}
