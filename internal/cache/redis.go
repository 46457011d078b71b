package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zvrva/securespot/config"
	"github.com/zvrva/securespot/internal/domain"
)

// RedisCache holds three side indexes: the available-spot listing cache, the
// reservation-id to release-task-handle mapping, and the revoked-token
// denylist. None of them are transactional with the primary store; the
// task-handle index in particular may be stale and callers must tolerate
// looking up a handle whose task already fired.
type RedisCache struct {
	client   *redis.Client
	spotsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, spotsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		spotsTTL: spotsTTL,
	}
}

func (c *RedisCache) GetAvailableSpots(ctx context.Context) ([]domain.ParkingSpot, error) {
	data, err := c.client.Get(ctx, spotsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var spots []domain.ParkingSpot
	if err := json.Unmarshal(data, &spots); err != nil {
		return nil, err
	}
	return spots, nil
}

func (c *RedisCache) SetAvailableSpots(ctx context.Context, spots []domain.ParkingSpot) error {
	payload, err := json.Marshal(spots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, spotsKey(), payload, c.spotsTTL).Err()
}

func (c *RedisCache) InvalidateSpots(ctx context.Context) error {
	return c.client.Del(ctx, spotsKey()).Err()
}

func (c *RedisCache) SetTaskHandle(ctx context.Context, reservationID int64, handle string) error {
	return c.client.Set(ctx, taskHandleKey(reservationID), handle, 0).Err()
}

func (c *RedisCache) GetTaskHandle(ctx context.Context, reservationID int64) (string, error) {
	handle, err := c.client.Get(ctx, taskHandleKey(reservationID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return handle, nil
}

func (c *RedisCache) DeleteTaskHandle(ctx context.Context, reservationID int64) error {
	return c.client.Del(ctx, taskHandleKey(reservationID)).Err()
}

func (c *RedisCache) DenyToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, deniedTokenKey(jti), "revoked", ttl).Err()
}

func (c *RedisCache) IsTokenDenied(ctx context.Context, jti string) (bool, error) {
	_, err := c.client.Get(ctx, deniedTokenKey(jti)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func spotsKey() string {
	return "cache:spots:available"
}

func taskHandleKey(reservationID int64) string {
	return fmt.Sprintf("task:reservation:%d", reservationID)
}

func deniedTokenKey(jti string) string {
	return fmt.Sprintf("auth:denied:%s", jti)
}
