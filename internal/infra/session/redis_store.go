package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"tyretrust/internal/domain/cart"
	repo "tyretrust/internal/repository"
)

const keyPrefix = "cart:sess:"

// RedisCartStore はカートをJSONでRedisに置くセッションストア。
// TTLはカートの寿命（最後のSaveから数える）。
type RedisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ttl: ttl}
}

func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (cart.Cart, bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return cart.New(), false, nil
	}
	if err != nil {
		return cart.New(), false, err
	}

	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		//壊れたセッションは空扱いにして作り直す
		return cart.New(), false, nil
	}
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	return c, true, nil
}

func (s *RedisCartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+sessionID, raw, s.ttl).Err()
}

func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, keyPrefix+sessionID).Err()
}

var _ repo.CartSessionStore = (*RedisCartStore)(nil)
