package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/offshelf7/friendly-guest-gateway-sub000/config"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		catalogTTL: catalogTTL,
	}
}

func (c *RedisCache) GetRooms(ctx context.Context) ([]domain.Room, error) {
	return getList[domain.Room](ctx, c.client, roomsKey())
}

func (c *RedisCache) SetRooms(ctx context.Context, rooms []domain.Room) error {
	return setList(ctx, c.client, roomsKey(), rooms, c.catalogTTL)
}

func (c *RedisCache) GetMenu(ctx context.Context) ([]domain.MenuItem, error) {
	return getList[domain.MenuItem](ctx, c.client, menuKey())
}

func (c *RedisCache) SetMenu(ctx context.Context, items []domain.MenuItem) error {
	return setList(ctx, c.client, menuKey(), items, c.catalogTTL)
}

// AcquireStayLock holds a room for one guest while their pending booking
// is written. The lock is an optimistic fast path only; the database
// transaction remains the source of truth for availability.
func (c *RedisCache) AcquireStayLock(ctx context.Context, roomID int64, checkIn, checkOut string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, stayLockKey(roomID, checkIn, checkOut), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseStayLock(ctx context.Context, roomID int64, checkIn, checkOut string) error {
	return c.client.Del(ctx, stayLockKey(roomID, checkIn, checkOut)).Err()
}

func getList[T any](ctx context.Context, client *redis.Client, key string) ([]T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func setList[T any](ctx context.Context, client *redis.Client, key string, items []T, ttl time.Duration) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, payload, ttl).Err()
}

func roomsKey() string {
	return "cache:rooms"
}

func menuKey() string {
	return "cache:menu"
}

func stayLockKey(roomID int64, checkIn, checkOut string) string {
	return fmt.Sprintf("lock:room:%d:%s:%s", roomID, checkIn, checkOut)
}
