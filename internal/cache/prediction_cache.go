package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantframe/forecast-api-go/internal/models"
)

// PredictionCacheEntry wraps a cached prediction with metadata.
type PredictionCacheEntry struct {
	Result   models.PredictionResult `json:"result"`
	CachedAt time.Time               `json:"cached_at"`
}

// PredictionCacheStats tracks cache performance counters.
type PredictionCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.RWMutex
}

// PredictionCache is a Redis-backed, TTL-bounded cache of single
// prediction results. A nil Redis client disables it: every lookup is
// a miss and every store is a no-op, so a missing cache never fails a
// request.
type PredictionCache struct {
	redis  *redis.Client
	ttl    time.Duration
	stats  *PredictionCacheStats
	prefix string
}

// NewPredictionCache creates a new Redis-based prediction cache.
func NewPredictionCache(redisClient *redis.Client, ttl time.Duration) *PredictionCache {
	return &PredictionCache{
		redis:  redisClient,
		ttl:    ttl,
		stats:  &PredictionCacheStats{},
		prefix: "prediction_cache:",
	}
}

// Key derives the cache key for a request: symbol, horizon, and a hash
// of the full price series, so any change in history misses.
func (c *PredictionCache) Key(symbol string, horizon int, prices []float64) string {
	h := fnv.New64a()
	for _, p := range prices {
		fmt.Fprintf(h, "%g,", p)
	}
	return fmt.Sprintf("%s%s:%d:%x", c.prefix, symbol, horizon, h.Sum64())
}

// Get retrieves a cached prediction result.
func (c *PredictionCache) Get(ctx context.Context, key string) (*models.PredictionResult, bool) {
	if c.redis == nil {
		c.recordMiss()
		return nil, false
	}

	data, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		c.recordMiss()
		return nil, false
	}
	if err != nil {
		log.Printf("Redis error getting prediction %s: %v", key, err)
		c.recordMiss()
		return nil, false
	}

	var entry PredictionCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		log.Printf("Error deserializing cached prediction %s: %v", key, err)
		c.recordMiss()
		return nil, false
	}

	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()

	return &entry.Result, true
}

// Set stores a prediction result with the configured TTL.
func (c *PredictionCache) Set(ctx context.Context, key string, result *models.PredictionResult) {
	if c.redis == nil || result == nil {
		return
	}

	entry := PredictionCacheEntry{
		Result:   *result,
		CachedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("Error serializing prediction for cache %s: %v", key, err)
		return
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("Redis error caching prediction %s: %v", key, err)
		return
	}

	c.stats.mu.Lock()
	c.stats.Sets++
	c.stats.mu.Unlock()
}

// GetStats returns a snapshot of the cache counters.
func (c *PredictionCache) GetStats() PredictionCacheStats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return PredictionCacheStats{
		Hits:   c.stats.Hits,
		Misses: c.stats.Misses,
		Sets:   c.stats.Sets,
	}
}

func (c *PredictionCache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}
