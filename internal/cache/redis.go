// Package cache хранит в Redis кеш комнат и отметки отзыва токенов.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/room-booking/internal/config"
)

const (
	revokedPrefix      = "revoked:user:"
	revokedTokenPrefix = "revoked:token:"
)

// Cache обёртка над клиентом Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Get читает JSON по ключу в result. false без ошибки означает промах.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет value в JSON на время expiration.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Set"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = c.Db.Set(ctx, key, jsonData, expiration).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invalidate удаляет ключ.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	const op = "cache.Invalidate"
	if err := c.Db.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Revoke запоминает момент удаления пользователя. Токены, выпущенные
// не позже этого момента, считаются отозванными. Отметка живёт ttl,
// дольше любого из таких токенов она не нужна.
func (c *Cache) Revoke(ctx context.Context, userID int64, at time.Time, ttl time.Duration) error {
	const op = "cache.Revoke"
	key := revokedPrefix + strconv.FormatInt(userID, 10)
	if err := c.Db.Set(ctx, key, at.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RevokedAt возвращает отметку отзыва пользователя. ok=false, если её нет.
func (c *Cache) RevokedAt(ctx context.Context, userID int64) (time.Time, bool, error) {
	const op = "cache.RevokedAt"
	key := revokedPrefix + strconv.FormatInt(userID, 10)
	sec, err := c.Db.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return time.Unix(sec, 0), true, nil
}

// RevokeToken отзывает один токен по его jti на время ttl.
func (c *Cache) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	const op = "cache.RevokeToken"
	if err := c.Db.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TokenRevoked сообщает, отозван ли токен с данным jti.
func (c *Cache) TokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	const op = "cache.TokenRevoked"
	n, err := c.Db.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// Close закрывает клиент.
func (c *Cache) Close() error {
	return c.Db.Close()
}
