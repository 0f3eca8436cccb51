package memory

import (
	"chattflow/backend/internal/domain"
	"chattflow/backend/internal/storage"
)

// SaveBroadcast 保存广播记录。
func (s *Store) SaveBroadcast(broadcast *domain.Broadcast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.broadcasts[broadcast.ID]; !exists {
		s.broadcastOrder = append(s.broadcastOrder, broadcast.ID)
	}
	s.broadcasts[broadcast.ID] = broadcast
	return nil
}

// GetBroadcast 根据 ID 获取广播记录。
func (s *Store) GetBroadcast(id string) (*domain.Broadcast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	broadcast, ok := s.broadcasts[id]
	if !ok {
		return nil, storage.ErrBroadcastNotFound
	}
	return broadcast, nil
}

// ListBroadcasts 返回全部广播记录，最近发送的在前。
func (s *Store) ListBroadcasts() []domain.Broadcast {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Broadcast, 0, len(s.broadcastOrder))
	for i := len(s.broadcastOrder) - 1; i >= 0; i-- {
		if b, ok := s.broadcasts[s.broadcastOrder[i]]; ok {
			result = append(result, *b)
		}
	}
	return result
}

// IncrementBroadcastStat 递增广播的打开/点击计数。
func (s *Store) IncrementBroadcastStat(id string, stat domain.BroadcastStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	broadcast, ok := s.broadcasts[id]
	if !ok {
		return storage.ErrBroadcastNotFound
	}

	switch stat {
	case domain.BroadcastStatOpen:
		broadcast.Stats.Opens++
	case domain.BroadcastStatClick:
		broadcast.Stats.Clicks++
	}
	return nil
}
