package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
	pkgcache "EquiScreen/pkg/cache"
	applogger "EquiScreen/pkg/logger"
)

const filterKeyPrefix = "filtered_stock_"

// RedisFilterCache implements FilterCache on Redis. Each passing symbol is
// one key `filtered_stock_<symbol>` holding the JSON FilterResult; the TTL
// ages results out so retrieval never serves stale runs.
type RedisFilterCache struct {
	cache *pkgcache.RedisCache
	l     *applogger.Logger
}

func NewRedisFilterCache(cache *pkgcache.RedisCache) *RedisFilterCache {
	return &RedisFilterCache{cache: cache}
}

// SetLogger injects a structured logger.
func (c *RedisFilterCache) SetLogger(l *applogger.Logger) { c.l = l }

func (c *RedisFilterCache) Put(ctx context.Context, result *models.FilterResult, ttl time.Duration) error {
	if result == nil || result.Meta.Stock == "" {
		return fmt.Errorf("filter result without symbol")
	}
	key := filterKeyPrefix + result.Meta.Stock
	if err := c.cache.Set(ctx, key, result, ttl); err != nil {
		return fmt.Errorf("cache filter result %s: %w", result.Meta.Stock, err)
	}
	return nil
}

func (c *RedisFilterCache) Get(ctx context.Context, symbol string) (*models.FilterResult, error) {
	var result models.FilterResult
	err := c.cache.Get(ctx, filterKeyPrefix+symbol, &result)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("get filter result %s: %w", symbol, err)
	}
	return &result, nil
}

// All returns every cached filter result. Keys are walked with SCAN to stay
// friendly to a shared Redis.
func (c *RedisFilterCache) All(ctx context.Context) ([]*models.FilterResult, error) {
	client := c.cache.Client()
	pattern := c.cache.WrapKey(filterKeyPrefix + "*")

	out := make([]*models.FilterResult, 0, 64)
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		data, err := client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue // expired between scan and get
		}
		var result models.FilterResult
		if err := json.Unmarshal(data, &result); err != nil {
			if c.l != nil {
				c.l.Warn("skipping malformed cached filter result",
					applogger.String("key", iter.Val()),
					applogger.Error(err),
				)
			}
			continue
		}
		out = append(out, &result)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan filter results: %w", err)
	}
	return out, nil
}

var _ domrepo.FilterCache = (*RedisFilterCache)(nil)
