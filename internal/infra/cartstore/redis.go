package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"salon-booking/internal/domain/cart"
	"salon-booking/internal/infra"

	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps one JSON cart snapshot per session. Every save
// refreshes the TTL.
type RedisCartStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCartStore(client *redis.Client, prefix string, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: slog.Default(),
	}
}

func (s *RedisCartStore) key(sessionID string) string {
	return s.prefix + ":cart:" + sessionID
}

func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (cart.Cart, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(), nil
	}
	if err != nil {
		return cart.Cart{}, infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to load cart", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return cart.Cart{}, infra.WrapRepoErr(s.logger, infra.KindCorruptRecord, "failed to decode cart", err)
	}
	return cart.Recalculate(c), nil
}

func (s *RedisCartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to encode cart", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to save cart", err)
	}
	return nil
}

func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindCacheFailure, "failed to delete cart", err)
	}
	return nil
}
