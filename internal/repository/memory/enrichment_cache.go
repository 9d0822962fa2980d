package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/enrichment"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "smart-notes:enrichment:v1:"
	redisTimeout = 200 * time.Millisecond
)

// EnrichmentCache remembers enrichment records by text. The in-process layer
// is always present; redis is a shared second layer when configured.
type EnrichmentCache struct {
	local     *cache.Cache
	rdb       *redis.Client
	ttl       time.Duration
	signature string
	logger    logger.ILogger
}

// NewEnrichmentCache builds the cache. signature identifies the model setup
// that produced the records, so a restart with different models misses.
// A nil rdb keeps the cache process-local.
func NewEnrichmentCache(ttl time.Duration, signature string, rdb *redis.Client, log logger.ILogger) *EnrichmentCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &EnrichmentCache{
		local:     cache.New(ttl, 10*time.Minute),
		rdb:       rdb,
		ttl:       ttl,
		signature: signature,
		logger:    log,
	}
}

func (c *EnrichmentCache) Key(text string) string {
	hash := sha256.Sum256([]byte(c.signature + "\x00" + text))
	return keyPrefix + hex.EncodeToString(hash[:])
}

func (c *EnrichmentCache) Get(ctx context.Context, text string) (enrichment.Record, bool) {
	key := c.Key(text)
	if x, found := c.local.Get(key); found {
		return x.(enrichment.Record), true
	}
	if c.rdb == nil {
		return enrichment.Record{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("EnrichmentCache", "Redis read failed", map[string]interface{}{"error": err.Error()})
		}
		return enrichment.Record{}, false
	}

	var rec enrichment.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return enrichment.Record{}, false
	}
	c.local.Set(key, rec, cache.DefaultExpiration)
	return rec, true
}

func (c *EnrichmentCache) Set(ctx context.Context, text string, rec enrichment.Record) {
	key := c.Key(text)
	c.local.Set(key, rec, cache.DefaultExpiration)
	if c.rdb == nil {
		return
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("EnrichmentCache", "Redis write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (c *EnrichmentCache) Len() int {
	return c.local.ItemCount()
}
