package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quizparty/game"

	"github.com/redis/go-redis/v9"
)

const snapshotTTL = 2 * time.Hour

// SnapshotCache mirrors the latest public snapshot of each room to Redis
// so lookups (and clients resyncing over HTTP) don't have to touch the
// room. Best-effort: the in-memory room is always authoritative.
type SnapshotCache struct {
	redis *redis.Client
}

func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{redis: client}
}

func (c *SnapshotCache) key(code string) string {
	return "room:" + strings.ToUpper(strings.TrimSpace(code))
}

func (c *SnapshotCache) Store(ctx context.Context, snap game.PublicSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(snap.Code), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}
	return nil
}

// Get returns the cached snapshot, or nil without error on a cache miss.
func (c *SnapshotCache) Get(ctx context.Context, code string) (*game.PublicSnapshot, error) {
	data, err := c.redis.Get(ctx, c.key(code)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var snap game.PublicSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete drops the cached snapshot for a removed room.
func (c *SnapshotCache) Delete(ctx context.Context, code string) error {
	return c.redis.Del(ctx, c.key(code)).Err()
}
