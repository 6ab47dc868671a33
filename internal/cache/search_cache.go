package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/allychat/rag-agent/internal/retrieval"
)

// SearchCache stores retrieval results keyed by the raw query text.
// Safe because retrieval is a pure function of the query for an unchanged
// store; entries expire on TTL to pick up re-ingested data.
type SearchCache interface {
	Get(ctx context.Context, query string) ([]retrieval.Result, bool)
	Set(ctx context.Context, query string, results []retrieval.Result)
}

type RedisSearchCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSearchCache(client *redis.Client, prefix string, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisSearchCache) Get(ctx context.Context, query string) ([]retrieval.Result, bool) {
	payload, err := c.client.Get(ctx, c.key(query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("Search cache read failed")
		}
		return nil, false
	}

	var results []retrieval.Result
	if err := json.Unmarshal(payload, &results); err != nil {
		log.Warn().Err(err).Msg("Search cache entry corrupted, ignoring")
		return nil, false
	}

	return results, true
}

func (c *RedisSearchCache) Set(ctx context.Context, query string, results []retrieval.Result) {
	payload, err := json.Marshal(results)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal search results for cache")
		return
	}

	if err := c.client.Set(ctx, c.key(query), payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Search cache write failed")
	}
}

func (c *RedisSearchCache) key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return c.prefix + hex.EncodeToString(sum[:])
}

// Key is exported for tests and cache administration.
func (c *RedisSearchCache) Key(query string) string {
	return c.key(query)
}

// NoopSearchCache is used when Redis is not configured.
type NoopSearchCache struct{}

func (NoopSearchCache) Get(ctx context.Context, query string) ([]retrieval.Result, bool) {
	return nil, false
}

func (NoopSearchCache) Set(ctx context.Context, query string, results []retrieval.Result) {}
