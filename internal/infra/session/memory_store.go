package session

import (
	"context"
	"encoding/json"
	"sync"

	"tyretrust/internal/domain/cart"
	repo "tyretrust/internal/repository"
)

// MemoryCartStore はテスト用のインメモリ実装。
// JSON経由で保存してRedis実装と同じ値セマンティクスにする。
type MemoryCartStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{items: make(map[string][]byte)}
}

func (s *MemoryCartStore) Load(ctx context.Context, sessionID string) (cart.Cart, bool, error) {
	s.mu.RLock()
	raw, ok := s.items[sessionID]
	s.mu.RUnlock()

	if !ok {
		return cart.New(), false, nil
	}

	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return cart.New(), false, nil
	}
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	return c, true, nil
}

func (s *MemoryCartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items[sessionID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.items, sessionID)
	s.mu.Unlock()
	return nil
}

var _ repo.CartSessionStore = (*MemoryCartStore)(nil)
