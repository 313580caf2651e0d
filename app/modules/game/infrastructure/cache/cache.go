// Package gamecache caches computed standings.
package gamecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/redis/go-redis/v9"
)

const (
	standingsKey = "ultistats:standings"
	pingTimeout  = 5 * time.Second
)

// StandingsCache stores the ordered standings table.
type StandingsCache interface {
	// Get returns the cached standings. ok is false on a miss.
	Get(ctx context.Context) (teams []gamedb.Team, ok bool, err error)
	Set(ctx context.Context, teams []gamedb.Team) error
	Invalidate(ctx context.Context) error
}

// RedisStandingsCache keeps JSON-encoded standings in Redis under a fixed key.
type RedisStandingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStandingsCache connects to redisURL and verifies the connection.
func NewRedisStandingsCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStandingsCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStandingsCache{client: client, ttl: ttl}, nil
}

func (c *RedisStandingsCache) Get(ctx context.Context) ([]gamedb.Team, bool, error) {
	raw, err := c.client.Get(ctx, standingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read standings: %w", err)
	}

	var teams []gamedb.Team
	if err := json.Unmarshal(raw, &teams); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached standings: %w", err)
	}
	return teams, true, nil
}

func (c *RedisStandingsCache) Set(ctx context.Context, teams []gamedb.Team) error {
	raw, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("failed to encode standings: %w", err)
	}
	if err := c.client.Set(ctx, standingsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store standings: %w", err)
	}
	return nil
}

func (c *RedisStandingsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, standingsKey).Err()
}

func (c *RedisStandingsCache) Close() error {
	return c.client.Close()
}

// NoOp never stores anything. Used when Redis is not configured.
type NoOp struct{}

func (NoOp) Get(context.Context) ([]gamedb.Team, bool, error) { return nil, false, nil }
func (NoOp) Set(context.Context, []gamedb.Team) error         { return nil }
func (NoOp) Invalidate(context.Context) error                 { return nil }

var (
	_ StandingsCache = (*RedisStandingsCache)(nil)
	_ StandingsCache = NoOp{}
)
