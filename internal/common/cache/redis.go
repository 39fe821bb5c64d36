// Package cache provides the optional read-through store for normalization
// and first-pass classification snapshots. Entries are keyed by a content
// hash of the raw input, so identical questions skip straight to
// composition; SetNX keeps concurrent requests from racing on the same key.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"answer-pipeline/internal/common/config"
	"answer-pipeline/internal/record"
)

// Snapshot is the cached portion of a request: the deterministic layers only.
// Composed content is never cached because generator output varies per call.
type Snapshot struct {
	Normalized     record.NormalizedQuestion `json:"normalized"`
	Classification record.Classification     `json:"classification"`
}

type NormalizationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(cfg config.CacheConfig) *NormalizationCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	return NewWithClient(rdb, time.Duration(cfg.TTL)*time.Second)
}

// NewWithClient wraps an existing client; used by tests with miniredis.
func NewWithClient(client *redis.Client, ttl time.Duration) *NormalizationCache {
	return &NormalizationCache{client: client, ttl: ttl}
}

// Key returns the cache key for a raw input: a hex sha256 content hash.
func Key(rawInput string) string {
	sum := sha256.Sum256([]byte(rawInput))
	return "norm:" + hex.EncodeToString(sum[:])
}

// Get returns the cached snapshot for raw input, or (nil, nil) on a miss.
func (c *NormalizationCache) Get(ctx context.Context, rawInput string) (*Snapshot, error) {
	data, err := c.client.Get(ctx, Key(rawInput)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A corrupt entry is a miss, not a failure.
		return nil, nil
	}
	return &snap, nil
}

// Put stores the snapshot unless another writer already owns the key.
func (c *NormalizationCache) Put(ctx context.Context, rawInput string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.SetNX(ctx, Key(rawInput), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Ping tests the connection.
func (c *NormalizationCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (c *NormalizationCache) Close() error {
	return c.client.Close()
}
