package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/redis/go-redis/v9"
)

// InitRedis connects to addr. A nil client with a nil error means Redis is
// unreachable and the caller should carry on without it.
func InitRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] Warning: Could not connect to Redis: %v. Falling back to the in-memory move cache.", err)
		client.Close()
		return nil, nil // Don't fail startup if Redis is unavailable
	}

	log.Println("[REDIS] Connected successfully")
	return client, nil
}

// MoveCache stores AI decisions keyed by position so every server instance
// shares the work of the deterministic tiers. It satisfies bot.MoveCache.
type MoveCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMoveCache(client *redis.Client, ttl time.Duration) *MoveCache {
	return &MoveCache{client: client, ttl: ttl}
}

func (c *MoveCache) Get(ctx context.Context, key string) (domain.Point, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[REDIS] Failed to read %s: %v", key, err)
		}
		return domain.Point{}, false
	}
	var p domain.Point
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Printf("[REDIS] Dropping corrupt entry %s: %v", key, err)
		c.client.Del(ctx, key)
		return domain.Point{}, false
	}
	return p, true
}

func (c *MoveCache) Set(ctx context.Context, key string, move domain.Point) {
	raw, err := json.Marshal(move)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("[REDIS] Failed to store %s: %v", key, err)
	}
}
