package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/opskit/stockroom/pkg/observability"
)

// uncachedTables are never served from cache. Credential lookups must always
// see the live row.
var uncachedTables = map[string]bool{
	"users": true,
}

// CachedGateway layers a two-tier read cache (in-process LRU, then redis)
// over another Gateway. Reads of cacheable tables are served from the cache;
// any write to a table drops everything cached for it. Cache failures fall
// through to the database and are never surfaced to callers.
type CachedGateway struct {
	inner   Gateway
	l1      *lru.Cache[string, []byte]
	redis   *redis.Client
	ttl     time.Duration
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewCachedGateway builds the cache layer. The redis client may be nil, in
// which case only the in-process tier is used.
func NewCachedGateway(inner Gateway, redisClient *redis.Client, cfg Config, logger *observability.Logger, metrics *observability.Metrics) (*CachedGateway, error) {
	size := cfg.L1CacheSize
	if size <= 0 {
		size = 1024
	}
	l1, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &CachedGateway{
		inner:   inner,
		l1:      l1,
		redis:   redisClient,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// NewRedisClient connects to redis using the storage configuration
func NewRedisClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB >= 0 {
		opts.DB = cfg.RedisDB
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func recordKey(table string, id int64) string {
	return fmt.Sprintf("%s:id:%d", table, id)
}

func listKey(table string) string {
	return fmt.Sprintf("%s:list", table)
}

func (c *CachedGateway) cacheable(table string) bool {
	return !uncachedTables[table]
}

func (c *CachedGateway) hit(tier, table string) {
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.WithLabelValues(tier, table).Inc()
	}
}

func (c *CachedGateway) miss(tier, table string) {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(tier, table).Inc()
	}
}

// lookup tries L1 then redis; a redis hit is promoted into L1
func (c *CachedGateway) lookup(ctx context.Context, table, key string) []byte {
	if data, ok := c.l1.Get(key); ok {
		c.hit("l1", table)
		return data
	}
	c.miss("l1", table)

	if c.redis == nil {
		return nil
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.miss("redis", table)
		return nil
	}
	if err != nil {
		c.logger.WithError(err).Debug("redis get failed, falling through to database")
		return nil
	}
	c.hit("redis", table)
	c.l1.Add(key, data)
	return data
}

func (c *CachedGateway) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.l1.Add(key, data)
	if c.redis != nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.WithError(err).Debug("redis set failed")
		}
	}
}

// invalidate drops every cached entry for the table
func (c *CachedGateway) invalidate(ctx context.Context, table string, ids ...int64) {
	keys := []string{listKey(table)}
	for _, id := range ids {
		keys = append(keys, recordKey(table, id))
	}
	for _, key := range keys {
		c.l1.Remove(key)
	}
	if c.redis != nil {
		if err := c.redis.Del(ctx, keys...).Err(); err != nil {
			c.logger.WithError(err).Debug("redis del failed")
		}
	}
}

// Insert implements Gateway
func (c *CachedGateway) Insert(ctx context.Context, table string, fields map[string]interface{}) (Record, error) {
	rec, err := c.inner.Insert(ctx, table, fields)
	if err != nil {
		return nil, err
	}
	if c.cacheable(table) {
		c.invalidate(ctx, table)
	}
	return rec, nil
}

// Update implements Gateway
func (c *CachedGateway) Update(ctx context.Context, table string, id int64, fields map[string]interface{}) (Record, error) {
	rec, err := c.inner.Update(ctx, table, id, fields)
	if err != nil {
		return nil, err
	}
	if c.cacheable(table) {
		c.invalidate(ctx, table, id)
	}
	return rec, nil
}

// Delete implements Gateway
func (c *CachedGateway) Delete(ctx context.Context, table string, id int64) error {
	if err := c.inner.Delete(ctx, table, id); err != nil {
		return err
	}
	if c.cacheable(table) {
		c.invalidate(ctx, table, id)
	}
	return nil
}

// Get implements Gateway
func (c *CachedGateway) Get(ctx context.Context, table string, id int64) (Record, error) {
	if !c.cacheable(table) {
		return c.inner.Get(ctx, table, id)
	}

	key := recordKey(table, id)
	if data := c.lookup(ctx, table, key); data != nil {
		var rec Record
		if err := json.Unmarshal(data, &rec); err == nil {
			return rec, nil
		}
		c.l1.Remove(key)
	}

	rec, err := c.inner.Get(ctx, table, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, rec)
	return rec, nil
}

// GetByField implements Gateway. Field lookups bypass the cache; only id
// reads are cached.
func (c *CachedGateway) GetByField(ctx context.Context, table string, column string, value interface{}) (Record, error) {
	return c.inner.GetByField(ctx, table, column, value)
}

// List implements Gateway
func (c *CachedGateway) List(ctx context.Context, table string) ([]Record, error) {
	if !c.cacheable(table) {
		return c.inner.List(ctx, table)
	}

	key := listKey(table)
	if data := c.lookup(ctx, table, key); data != nil {
		var records []Record
		if err := json.Unmarshal(data, &records); err == nil {
			return records, nil
		}
		c.l1.Remove(key)
	}

	records, err := c.inner.List(ctx, table)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, records)
	return records, nil
}

// Close implements Gateway
func (c *CachedGateway) Close() error {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.WithError(err).Warn("redis close failed")
		}
	}
	return c.inner.Close()
}
