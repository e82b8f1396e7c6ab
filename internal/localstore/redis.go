package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
)

// RedisStore keeps one device's cart under keys scoped by the device id, the
// same "cart" / "cartItemsCount" slots a browser would keep in local storage.
type RedisStore struct {
	client   *redis.Client
	deviceID string
}

func NewRedisStore(client *redis.Client, deviceID string) *RedisStore {
	return &RedisStore{
		client:   client,
		deviceID: deviceID,
	}
}

func (s *RedisStore) Cart(ctx context.Context) ([]domain.CartLine, error) {
	data, err := s.client.Get(ctx, s.key("cart")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart failed: %w", err)
	}

	var lines []domain.CartLine
	if err2 := json.Unmarshal(data, &lines); err2 != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err2)
	}

	return lines, nil
}

func (s *RedisStore) SetCart(ctx context.Context, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := s.client.Set(ctx, s.key("cart"), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set cart failed: %w", err)
	}
	return nil
}

func (s *RedisStore) RemoveCart(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key("cart")).Err(); err != nil {
		return fmt.Errorf("redis delete cart failed: %w", err)
	}
	return nil
}

func (s *RedisStore) ItemCount(ctx context.Context) (int, error) {
	count, err := s.client.Get(ctx, s.key("cartItemsCount")).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get item count failed: %w", err)
	}
	return count, nil
}

func (s *RedisStore) SetItemCount(ctx context.Context, count int) error {
	if err := s.client.Set(ctx, s.key("cartItemsCount"), count, 0).Err(); err != nil {
		return fmt.Errorf("redis set item count failed: %w", err)
	}
	return nil
}

func (s *RedisStore) key(slot string) string {
	return fmt.Sprintf("device:%s:%s", s.deviceID, slot)
}
