package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/m7one/storefront/internal/cart/domain"
)

// CartStore keeps the cart snapshot as one JSON value in redis. Writes
// are last-writer-wins: a second storefront process sharing the key
// behaves like a second browser tab.
type CartStore struct {
	rdb *redis.Client
	key string
}

func NewCartStore(rdb *redis.Client, key string) *CartStore {
	return &CartStore{rdb: rdb, key: key}
}

func (c *CartStore) Load(ctx context.Context) ([]domain.LineItem, error) {
	data, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart from redis: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return items, nil
}

func (c *CartStore) Save(ctx context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save cart to redis: %w", err)
	}
	return nil
}
