package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playmatatu/poolsim/internal/game"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("snapshot not cached")

// SnapshotCache keeps the latest table of each game in Redis.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// TableKey is the Redis key holding the snapshot of a game.
func TableKey(gameID int64) string {
	return fmt.Sprintf("game:%d:table", gameID)
}

// Save stores the table snapshot of gameID, replacing any previous one.
func (c *SnapshotCache) Save(ctx context.Context, gameID int64, snap game.TableSnapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, TableKey(gameID), data, c.ttl).Err()
}

// Load returns the cached snapshot of gameID or ErrCacheMiss.
func (c *SnapshotCache) Load(ctx context.Context, gameID int64) (game.TableSnapshot, error) {
	data, err := c.client.Get(ctx, TableKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.TableSnapshot{}, ErrCacheMiss
	}
	if err != nil {
		return game.TableSnapshot{}, err
	}
	return decodeSnapshot(data)
}

// Delete drops the cached snapshot of gameID.
func (c *SnapshotCache) Delete(ctx context.Context, gameID int64) error {
	return c.client.Del(ctx, TableKey(gameID)).Err()
}

func encodeSnapshot(snap game.TableSnapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (game.TableSnapshot, error) {
	var snap game.TableSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
